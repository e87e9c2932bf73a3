package command

import (
	"time"

	"github.com/goliatone/go-e2w/e2w"
	"github.com/goliatone/go-errors"
)

// RenderExport runs a template render end to end.
type RenderExport struct {
	Actor   e2w.Actor
	Request e2w.RenderRequest
	Result  *e2w.ExportResult
}

func (RenderExport) Type() string { return "e2w:render" }

func (msg RenderExport) Validate() error {
	if msg.Actor.ID == "" {
		return errors.New("actor ID is required", errors.CategoryValidation).
			WithTextCode("ACTOR_REQUIRED")
	}
	if msg.Request.TemplatePath == "" {
		return errors.New("template path is required", errors.CategoryValidation).
			WithTextCode("TEMPLATE_REQUIRED")
	}
	return nil
}

// DeleteExport deletes an export record and its artifact.
type DeleteExport struct {
	Actor    e2w.Actor
	ExportID string
}

func (DeleteExport) Type() string { return "e2w:delete" }

func (msg DeleteExport) Validate() error {
	if msg.Actor.ID == "" {
		return errors.New("actor ID is required", errors.CategoryValidation).
			WithTextCode("ACTOR_REQUIRED")
	}
	if msg.ExportID == "" {
		return errors.New("export ID is required", errors.CategoryValidation).
			WithTextCode("EXPORT_ID_REQUIRED")
	}
	return nil
}

// CleanupExports removes expired export records.
type CleanupExports struct {
	Now    time.Time
	Result *int
}

func (CleanupExports) Type() string { return "e2w:cleanup" }

func (CleanupExports) Validate() error { return nil }
