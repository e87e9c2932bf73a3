package command

import (
	"context"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-e2w/e2w"
	"github.com/goliatone/go-errors"
)

// RenderExportHandler handles render commands.
type RenderExportHandler struct {
	Service e2w.Service
}

func NewRenderExportHandler(svc e2w.Service) *RenderExportHandler {
	return &RenderExportHandler{Service: svc}
}

func (h *RenderExportHandler) Execute(ctx context.Context, msg RenderExport) error {
	if h == nil || h.Service == nil {
		return errors.New("render service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	result, err := h.Service.Render(ctx, msg.Actor, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	if res := gcmd.ResultFromContext[e2w.ExportResult](ctx); res != nil {
		res.Store(result)
	}
	return nil
}

// DeleteExportHandler deletes an export.
type DeleteExportHandler struct {
	Service e2w.Service
}

func NewDeleteExportHandler(svc e2w.Service) *DeleteExportHandler {
	return &DeleteExportHandler{Service: svc}
}

func (h *DeleteExportHandler) Execute(ctx context.Context, msg DeleteExport) error {
	if h == nil || h.Service == nil {
		return errors.New("render service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Delete(ctx, msg.Actor, msg.ExportID)
}

// CleanupExportsHandler removes expired export records.
type CleanupExportsHandler struct {
	Service e2w.Service
	Clock   func() time.Time
}

func NewCleanupExportsHandler(svc e2w.Service) *CleanupExportsHandler {
	return &CleanupExportsHandler{Service: svc}
}

func (h *CleanupExportsHandler) Execute(ctx context.Context, msg CleanupExports) error {
	if h == nil || h.Service == nil {
		return errors.New("render service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	now := msg.Now
	if now.IsZero() && h.Clock != nil {
		now = h.Clock()
	}
	count, err := h.Service.Cleanup(ctx, now)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = count
	}
	if res := gcmd.ResultFromContext[int](ctx); res != nil {
		res.Store(count)
	}
	return nil
}
