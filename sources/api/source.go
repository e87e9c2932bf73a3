// Package apisource resolves API context entries over HTTP.
package apisource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-e2w/e2w"
)

// Source fetches API entries. Calls with params default to POST with a
// JSON body; calls without params default to GET. GET params travel as
// query string values.
type Source struct {
	Client    *http.Client
	MaxBody   int64
	UserAgent string
}

// NewSource creates an HTTP-backed value source.
func NewSource(client *http.Client) *Source {
	return &Source{Client: client}
}

// Resolve issues the HTTP call and parses the JSON response.
func (s *Source) Resolve(ctx context.Context, spec e2w.ResolveSpec) (any, error) {
	if s == nil {
		return nil, e2w.NewError(e2w.KindInternal, "api source is nil", nil)
	}
	call := spec.Call
	if strings.TrimSpace(call.URL) == "" {
		return nil, e2w.NewError(e2w.KindValidation, fmt.Sprintf("api entry %q has no url", spec.Key), nil)
	}

	method := strings.ToUpper(strings.TrimSpace(call.Method))
	if method == "" {
		method = http.MethodGet
		if len(call.Params) > 0 {
			method = http.MethodPost
		}
	}

	target := call.URL
	var body io.Reader
	switch method {
	case http.MethodGet:
		if len(call.Params) > 0 {
			withQuery, err := appendQuery(call.URL, call.Params)
			if err != nil {
				return nil, e2w.NewFetchError(call.URL, err)
			}
			target = withQuery
		}
	default:
		if len(call.Params) > 0 {
			payload, err := json.Marshal(call.Params)
			if err != nil {
				return nil, e2w.NewFetchError(call.URL, err)
			}
			body = bytes.NewReader(payload)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, e2w.NewFetchError(call.URL, err)
	}

	for key, value := range spec.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		req.Header.Set(key, value)
	}
	for key, value := range call.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		req.Header.Set(key, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, e2w.NewFetchError(call.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, e2w.NewFetchError(call.URL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	reader := io.Reader(resp.Body)
	if s.MaxBody > 0 {
		reader = io.LimitReader(resp.Body, s.MaxBody)
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, e2w.NewFetchError(call.URL, err)
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, e2w.NewFetchError(call.URL, fmt.Errorf("malformed response: %w", err))
	}
	return value, nil
}

func appendQuery(rawURL string, params map[string]any) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	for key, value := range params {
		query.Set(key, fmt.Sprintf("%v", value))
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
