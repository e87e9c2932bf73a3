package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	docxrender "github.com/goliatone/go-e2w/adapters/docx"
	storefs "github.com/goliatone/go-e2w/adapters/store/fs"
	"github.com/goliatone/go-e2w/adapters/template/pongo"
	"github.com/goliatone/go-e2w/command"
	"github.com/goliatone/go-e2w/e2w"
	apisource "github.com/goliatone/go-e2w/sources/api"
	"github.com/goliatone/go-e2w/sources/csvfile"
)

// NewRenderCmd creates the render subcommand.
func NewRenderCmd() *cobra.Command {
	var (
		templatePath string
		contextPath  string
		outputPath   string
		pageSize     string
		landscape    bool
		verbose      bool
		fontName     string
		fontSize     int
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template into a .docx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadContext(contextPath)
			if err != nil {
				return err
			}

			opts := e2w.DefaultOptions()
			if pageSize != "" {
				opts.Layout.Size = e2w.PageSize(pageSize)
			}
			if !landscape {
				opts.Layout.Orientation = e2w.OrientationPortrait
			}
			if fontName != "" {
				opts.Font.Name = fontName
			}
			if fontSize > 0 {
				opts.Font.Size = fontSize
			}

			runner := e2w.NewRunner()
			runner.Timeout = timeout
			runner.Logger = newStderrLogger(cmd.ErrOrStderr(), verbose)
			if err := runner.Sources.Register(e2w.SourceAPI, apisource.NewSource(&http.Client{Timeout: timeout})); err != nil {
				return err
			}
			renderer := &docxrender.Renderer{
				Templates: &pongo.Engine{},
				Tables:    csvfile.NewLoader(filepath.Dir(templatePath)),
			}
			if err := runner.Renderers.Register(e2w.FormatDOCX, renderer); err != nil {
				return err
			}

			outDir := filepath.Dir(outputPath)
			if outputPath == "" {
				outDir = "."
			}
			runner.Store = storefs.NewStore(outDir)
			tracker := e2w.NewMemoryTracker()
			runner.Tracker = tracker

			svc := e2w.NewService(e2w.ServiceConfig{
				Runner:  runner,
				Tracker: tracker,
				Store:   runner.Store,
			})

			var result e2w.ExportResult
			msg := command.RenderExport{
				Actor: e2w.Actor{ID: "cli"},
				Request: e2w.RenderRequest{
					TemplatePath: templatePath,
					Context:      data,
					OutputPath:   outputPath,
					Options:      opts,
				},
				Result: &result,
			}
			if err := msg.Validate(); err != nil {
				return err
			}
			if err := command.NewRenderExportHandler(svc).Execute(cmd.Context(), msg); err != nil {
				return err
			}

			target := result.Filename
			if result.Artifact != nil {
				target = filepath.Join(outDir, result.Artifact.Key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", target, result.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "Path to the HTML template file")
	cmd.Flags().StringVar(&contextPath, "context", "", "Path to a YAML or JSON context file")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output .docx path (defaults to a generated name)")
	cmd.Flags().StringVar(&pageSize, "page-size", "", "Page size: a3, a4, a5, letter, legal, tabloid")
	cmd.Flags().BoolVar(&landscape, "landscape", true, "Use landscape orientation")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log fetch and render progress to stderr")
	cmd.Flags().StringVar(&fontName, "font", "", "Default font family")
	cmd.Flags().IntVar(&fontSize, "font-size", 0, "Default font size in points")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall render timeout")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

// loadContext reads the context file. YAML is a superset of JSON, so a
// single decoder covers both formats.
func loadContext(path string) (e2w.Context, error) {
	if path == "" {
		return e2w.Context{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse context file %s: %w", path, err)
	}
	return e2w.Context(data), nil
}
