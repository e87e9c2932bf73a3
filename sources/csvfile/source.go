// Package csvfile loads tabular data from CSV files for table rendering.
package csvfile

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-e2w/e2w"
)

// Loader reads CSV files into table data. The first record is treated
// as the header row.
type Loader struct {
	// Root, when set, restricts lookups to paths under the directory.
	Root string
	// Comma overrides the field delimiter. Zero means ','.
	Comma rune
}

// NewLoader creates a CSV table loader rooted at dir. An empty dir
// allows absolute and working-directory relative paths.
func NewLoader(dir string) *Loader {
	return &Loader{Root: dir}
}

// Load reads the CSV file at path.
func (l *Loader) Load(path string) (e2w.TableData, error) {
	if l == nil {
		return e2w.TableData{}, e2w.NewError(e2w.KindInternal, "csv loader is nil", nil)
	}
	if path == "" {
		return e2w.TableData{}, e2w.NewError(e2w.KindValidation, "csv path is required", nil)
	}
	resolved := path
	if l.Root != "" && !filepath.IsAbs(path) {
		resolved = filepath.Join(l.Root, path)
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return e2w.TableData{}, e2w.NewError(e2w.KindNotFound, "csv file not found: "+path, err)
		}
		return e2w.TableData{}, e2w.NewError(e2w.KindInternal, "open csv "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if l.Comma != 0 {
		reader.Comma = l.Comma
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return e2w.TableData{}, nil
		}
		return e2w.TableData{}, e2w.NewError(e2w.KindValidation, "read csv header "+path, err)
	}

	data := e2w.TableData{Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e2w.TableData{}, e2w.NewError(e2w.KindValidation, "read csv row "+path, err)
		}
		row := make([]string, len(header))
		copy(row, record)
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}
