package e2w

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Resolver resolves every API entry in a context through a ValueSource.
// Calls are independent, so they run concurrently; the first failure
// cancels the remaining calls and aborts the export.
type Resolver struct {
	Source      ValueSource
	Concurrency int
	Logger      Logger
}

// Resolve fetches all API entries and returns the merged context.
func (r *Resolver) Resolve(ctx context.Context, data Context) (Context, error) {
	if r == nil || r.Source == nil {
		return nil, NewError(KindInternal, "resolver requires a value source", nil)
	}

	calls, err := data.APICalls()
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return data.Merge(nil), nil
	}

	logger := r.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	headers := data.Headers()

	group, groupCtx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		group.SetLimit(r.Concurrency)
	}

	var mu sync.Mutex
	resolved := make(map[string]any, len(calls))

	for key, call := range calls {
		group.Go(func() error {
			logger.Debugf("resolving %q from %s", key, call.URL)
			value, err := r.Source.Resolve(groupCtx, ResolveSpec{
				Key:     key,
				Call:    call,
				Headers: headers,
			})
			if err != nil {
				return err
			}
			target := key
			if call.Result != "" {
				target = call.Result
			}
			mu.Lock()
			resolved[target] = value
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return data.Merge(resolved), nil
}
