package e2w

import (
	"os"
	"strings"
	"time"
)

// Default document options mirroring the library defaults: landscape A4,
// Segoe UI 10pt body text, red italic Arial 8pt for inline error notes.
func DefaultOptions() RenderOptions {
	return RenderOptions{
		Layout: PageLayout{
			Orientation: OrientationLandscape,
			Size:        PageA4,
		},
		Font: FontFamily{
			Name:  "Segoe UI",
			Size:  10,
			Style: FontNormal,
			Color: "000000",
		},
		ErrorFont: FontFamily{
			Name:  "Arial",
			Size:  8,
			Style: FontItalic,
			Color: "FF0000",
		},
		Table:         TableFormat{Style: "TableGrid"},
		HeadingLevels: 6,
	}
}

// ResolvedRender contains validated inputs for a run.
type ResolvedRender struct {
	Request  RenderRequest
	Filename string
}

// ResolveRender validates a request and fills in defaults.
func ResolveRender(req RenderRequest, now time.Time) (ResolvedRender, error) {
	req = normalizeRequest(req)

	if strings.TrimSpace(req.TemplatePath) == "" {
		return ResolvedRender{}, NewError(KindValidation, "template path is required", nil)
	}
	info, err := os.Stat(req.TemplatePath)
	if err != nil {
		return ResolvedRender{}, NewRenderError(req.TemplatePath, err)
	}
	if info.IsDir() {
		return ResolvedRender{}, NewRenderError(req.TemplatePath, errDirectoryTemplate)
	}

	if req.Context == nil {
		req.Context = Context{}
	}
	if _, err := req.Context.APICalls(); err != nil {
		return ResolvedRender{}, err
	}

	filename, err := renderFilename(req, now)
	if err != nil {
		return ResolvedRender{}, NewError(KindValidation, "invalid output filename", err)
	}

	return ResolvedRender{Request: req, Filename: filename}, nil
}

func normalizeRequest(req RenderRequest) RenderRequest {
	defaults := DefaultOptions()
	if req.Options.Layout.Orientation == "" {
		req.Options.Layout.Orientation = defaults.Layout.Orientation
	}
	if req.Options.Layout.Size == "" {
		req.Options.Layout.Size = defaults.Layout.Size
	}
	if req.Options.Font.Name == "" {
		req.Options.Font = defaults.Font
	}
	if req.Options.ErrorFont.Name == "" {
		req.Options.ErrorFont = defaults.ErrorFont
	}
	if req.Options.Table.Style == "" {
		req.Options.Table = defaults.Table
	}
	if req.Options.HeadingLevels <= 0 {
		req.Options.HeadingLevels = defaults.HeadingLevels
	}
	return req
}

var errDirectoryTemplate = NewError(KindValidation, "template path is a directory", nil)
