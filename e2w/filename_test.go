package e2w

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func TestRenderFilename_ExplicitOutput(t *testing.T) {
	name, err := renderFilename(RenderRequest{
		TemplatePath: "report.html",
		OutputPath:   "/tmp/exports/summary.docx",
	}, fixedNow)
	if err != nil {
		t.Fatalf("renderFilename: %v", err)
	}
	if name != "summary.docx" {
		t.Fatalf("got %q", name)
	}
}

func TestRenderFilename_AppendsExtension(t *testing.T) {
	name, err := renderFilename(RenderRequest{
		TemplatePath: "report.html",
		OutputPath:   "summary",
	}, fixedNow)
	if err != nil {
		t.Fatalf("renderFilename: %v", err)
	}
	if name != "summary.docx" {
		t.Fatalf("got %q", name)
	}
}

func TestRenderFilename_DefaultPattern(t *testing.T) {
	name, err := renderFilename(RenderRequest{
		TemplatePath: "templates/weekly_report.html",
	}, fixedNow)
	if err != nil {
		t.Fatalf("renderFilename: %v", err)
	}
	if name != "weekly_report_20260315T103000Z.docx" {
		t.Fatalf("got %q", name)
	}
}

func TestRenderFilename_CustomPattern(t *testing.T) {
	name, err := renderFilename(RenderRequest{
		TemplatePath:    "templates/weekly_report.html",
		FilenamePattern: "{{.Template}}-{{.Date}}",
	}, fixedNow)
	if err != nil {
		t.Fatalf("renderFilename: %v", err)
	}
	if name != "weekly_report-20260315.docx" {
		t.Fatalf("got %q", name)
	}
}

func TestRenderFilename_BadPattern(t *testing.T) {
	if _, err := renderFilename(RenderRequest{
		TemplatePath:    "report.html",
		FilenamePattern: "{{.Broken",
	}, fixedNow); err == nil {
		t.Fatal("expected pattern parse error")
	}
}
