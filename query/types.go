package query

import (
	"github.com/goliatone/go-e2w/e2w"
	"github.com/goliatone/go-errors"
)

// ExportStatus requests a single export record.
type ExportStatus struct {
	Actor    e2w.Actor
	ExportID string
}

func (ExportStatus) Type() string { return "e2w:status" }

func (msg ExportStatus) Validate() error {
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

// ExportHistory requests export history.
type ExportHistory struct {
	Actor  e2w.Actor
	Filter e2w.ProgressFilter
}

func (ExportHistory) Type() string { return "e2w:history" }

func (msg ExportHistory) Validate() error {
	if msg.Actor.ID == "" {
		return errors.New("actor ID is required", errors.CategoryValidation).
			WithTextCode("ACTOR_REQUIRED")
	}
	return nil
}
