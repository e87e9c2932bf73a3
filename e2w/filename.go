package e2w

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

type filenameData struct {
	Template  string
	Timestamp string
	Date      string
}

// renderFilename resolves the output filename. An explicit output path wins;
// otherwise the name derives from the template base plus a UTC timestamp.
func renderFilename(req RenderRequest, now time.Time) (string, error) {
	if req.OutputPath != "" {
		name := filepath.Base(req.OutputPath)
		if strings.TrimSpace(name) == "" || name == "." || name == string(filepath.Separator) {
			return "", fmt.Errorf("empty filename")
		}
		return ensureExtension(name), nil
	}

	base := filepath.Base(req.TemplatePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	data := filenameData{
		Template:  base,
		Timestamp: now.UTC().Format("20060102T150405Z"),
		Date:      now.UTC().Format("20060102"),
	}

	pattern := req.FilenamePattern
	if pattern == "" {
		pattern = "{{.Template}}_{{.Timestamp}}"
	}

	tmpl, err := template.New("filename").Parse(pattern)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	result := strings.TrimSpace(buf.String())
	if result == "" {
		return "", fmt.Errorf("empty filename")
	}
	return ensureExtension(result), nil
}

func ensureExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".docx") {
		return name
	}
	return name + ".docx"
}
