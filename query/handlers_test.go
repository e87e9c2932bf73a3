package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-e2w/e2w"
)

type stubService struct {
	status  func(ctx context.Context, actor e2w.Actor, exportID string) (e2w.ExportRecord, error)
	history func(ctx context.Context, actor e2w.Actor, filter e2w.ProgressFilter) ([]e2w.ExportRecord, error)
}

func (s *stubService) Render(ctx context.Context, actor e2w.Actor, req e2w.RenderRequest) (e2w.ExportResult, error) {
	_ = ctx
	_ = actor
	_ = req
	return e2w.ExportResult{}, nil
}

func (s *stubService) Status(ctx context.Context, actor e2w.Actor, exportID string) (e2w.ExportRecord, error) {
	if s.status != nil {
		return s.status(ctx, actor, exportID)
	}
	return e2w.ExportRecord{}, nil
}

func (s *stubService) History(ctx context.Context, actor e2w.Actor, filter e2w.ProgressFilter) ([]e2w.ExportRecord, error) {
	if s.history != nil {
		return s.history(ctx, actor, filter)
	}
	return nil, nil
}

func (s *stubService) Delete(ctx context.Context, actor e2w.Actor, exportID string) error {
	_ = ctx
	_ = actor
	_ = exportID
	return nil
}

func (s *stubService) Cleanup(ctx context.Context, now time.Time) (int, error) {
	_ = ctx
	_ = now
	return 0, nil
}

func TestExportStatus_Validate(t *testing.T) {
	msg := ExportStatus{}
	if err := msg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
	msg.Actor = e2w.Actor{ID: "u1"}
	if err := msg.Validate(); err == nil {
		t.Fatal("expected validation error for missing export ID")
	}
	msg.ExportID = "exp-1"
	if err := msg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestExportStatusHandler(t *testing.T) {
	want := e2w.ExportRecord{ID: "exp-1", State: e2w.StateCompleted}
	svc := &stubService{status: func(ctx context.Context, actor e2w.Actor, exportID string) (e2w.ExportRecord, error) {
		_ = ctx
		_ = actor
		if exportID != "exp-1" {
			t.Fatalf("got %q", exportID)
		}
		return want, nil
	}}

	handler := NewExportStatusHandler(svc)
	record, err := handler.Query(context.Background(), ExportStatus{
		Actor:    e2w.Actor{ID: "u1"},
		ExportID: "exp-1",
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if record.ID != want.ID || record.State != want.State {
		t.Fatalf("record %+v", record)
	}
}

func TestExportStatusHandler_RequiresService(t *testing.T) {
	handler := &ExportStatusHandler{}
	if _, err := handler.Query(context.Background(), ExportStatus{}); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestExportHistoryHandler(t *testing.T) {
	filter := e2w.ProgressFilter{Template: "report.html"}
	svc := &stubService{history: func(ctx context.Context, actor e2w.Actor, got e2w.ProgressFilter) ([]e2w.ExportRecord, error) {
		_ = ctx
		_ = actor
		if got.Template != filter.Template {
			t.Fatalf("filter not forwarded: %+v", got)
		}
		return []e2w.ExportRecord{{ID: "exp-1"}, {ID: "exp-2"}}, nil
	}}

	handler := NewExportHistoryHandler(svc)
	records, err := handler.Query(context.Background(), ExportHistory{
		Actor:  e2w.Actor{ID: "u1"},
		Filter: filter,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
}

func TestExportHistoryHandler_PropagatesError(t *testing.T) {
	boom := errors.New("tracker down")
	svc := &stubService{history: func(ctx context.Context, actor e2w.Actor, filter e2w.ProgressFilter) ([]e2w.ExportRecord, error) {
		_ = ctx
		_ = actor
		_ = filter
		return nil, boom
	}}

	handler := NewExportHistoryHandler(svc)
	if _, err := handler.Query(context.Background(), ExportHistory{Actor: e2w.Actor{ID: "u1"}}); !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}
