// e2w renders HTML-tagged templates into Word documents.
//
// Usage:
//
//	e2w render --template report.html --context context.yml --output report.docx
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-e2w/cmd/e2w/internal/cli"
)

// version is set through ldflags during builds.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "e2w",
		Short:         "e2w renders HTML templates into .docx documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewRenderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
