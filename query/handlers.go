package query

import (
	"context"

	"github.com/goliatone/go-e2w/e2w"
	"github.com/goliatone/go-errors"
)

// ExportStatusHandler returns a single export record.
type ExportStatusHandler struct {
	Service e2w.Service
}

func NewExportStatusHandler(svc e2w.Service) *ExportStatusHandler {
	return &ExportStatusHandler{Service: svc}
}

func (h *ExportStatusHandler) Query(ctx context.Context, msg ExportStatus) (e2w.ExportRecord, error) {
	if h == nil || h.Service == nil {
		return e2w.ExportRecord{}, errors.New("render service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Status(ctx, msg.Actor, msg.ExportID)
}

// ExportHistoryHandler returns export history.
type ExportHistoryHandler struct {
	Service e2w.Service
}

func NewExportHistoryHandler(svc e2w.Service) *ExportHistoryHandler {
	return &ExportHistoryHandler{Service: svc}
}

func (h *ExportHistoryHandler) Query(ctx context.Context, msg ExportHistory) ([]e2w.ExportRecord, error) {
	if h == nil || h.Service == nil {
		return nil, errors.New("render service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.History(ctx, msg.Actor, msg.Filter)
}
