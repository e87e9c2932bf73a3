package e2w

import (
	"context"
	"time"
)

// Service coordinates export operations across runner, tracker, and store.
type Service interface {
	Render(ctx context.Context, actor Actor, req RenderRequest) (ExportResult, error)
	Status(ctx context.Context, actor Actor, exportID string) (ExportRecord, error)
	History(ctx context.Context, actor Actor, filter ProgressFilter) ([]ExportRecord, error)
	Delete(ctx context.Context, actor Actor, exportID string) error
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Runner    *Runner
	Tracker   ProgressTracker
	Store     ArtifactStore
	Retention time.Duration
	Now       func() time.Time
}

type service struct {
	runner    *Runner
	tracker   ProgressTracker
	store     ArtifactStore
	retention time.Duration
	now       func() time.Time
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) Service {
	runner := cfg.Runner
	if runner == nil {
		runner = NewRunner()
	}

	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	if runner.Now == nil {
		runner.Now = nowFn
	}

	if cfg.Tracker != nil && runner.Tracker == nil {
		runner.Tracker = cfg.Tracker
	}
	if cfg.Store != nil && runner.Store == nil {
		runner.Store = cfg.Store
	}

	tracker := cfg.Tracker
	if tracker == nil {
		tracker = runner.Tracker
	}
	store := cfg.Store
	if store == nil {
		store = runner.Store
	}

	return &service{
		runner:    runner,
		tracker:   tracker,
		store:     store,
		retention: cfg.Retention,
		now:       nowFn,
	}
}

func (s *service) Render(ctx context.Context, actor Actor, req RenderRequest) (ExportResult, error) {
	return s.runner.Run(ctx, actor, req)
}

func (s *service) Status(ctx context.Context, actor Actor, exportID string) (ExportRecord, error) {
	_ = actor
	if s.tracker == nil {
		return ExportRecord{}, AsGoError(NewError(KindInternal, "tracker is not configured", nil))
	}
	record, err := s.tracker.Status(ctx, exportID)
	if err != nil {
		return ExportRecord{}, AsGoError(err)
	}
	return record, nil
}

func (s *service) History(ctx context.Context, actor Actor, filter ProgressFilter) ([]ExportRecord, error) {
	_ = actor
	if s.tracker == nil {
		return nil, AsGoError(NewError(KindInternal, "tracker is not configured", nil))
	}
	records, err := s.tracker.List(ctx, filter)
	if err != nil {
		return nil, AsGoError(err)
	}
	return records, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, exportID string) error {
	_ = actor
	if s.tracker == nil {
		return AsGoError(NewError(KindInternal, "tracker is not configured", nil))
	}
	record, err := s.tracker.Status(ctx, exportID)
	if err != nil {
		return AsGoError(err)
	}
	if record.Artifact.Key != "" && s.store != nil {
		if err := s.store.Delete(ctx, record.Artifact.Key); err != nil {
			return AsGoError(err)
		}
	}
	if err := s.tracker.Delete(ctx, exportID); err != nil {
		return AsGoError(err)
	}
	return nil
}

// Cleanup removes finished records (and their artifacts) older than the
// configured retention. A zero retention keeps everything.
func (s *service) Cleanup(ctx context.Context, now time.Time) (int, error) {
	if s.tracker == nil || s.retention <= 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = s.now()
	}

	records, err := s.tracker.List(ctx, ProgressFilter{Until: now.Add(-s.retention)})
	if err != nil {
		return 0, AsGoError(err)
	}

	removed := 0
	for _, record := range records {
		if record.State != StateCompleted && record.State != StateFailed {
			continue
		}
		if record.Artifact.Key != "" && s.store != nil {
			if err := s.store.Delete(ctx, record.Artifact.Key); err != nil {
				return removed, AsGoError(err)
			}
		}
		if err := s.tracker.Delete(ctx, record.ID); err != nil {
			return removed, AsGoError(err)
		}
		removed++
	}
	return removed, nil
}
