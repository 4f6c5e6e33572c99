// Package formatting renders reconcile results for the command line.
//
// The same report can be written as a table for people, or as JSON or YAML
// for scripts. Document payloads are never printed, only their metadata.
package formatting

import (
	"fmt"
	"io"

	"docsync/internal/api"
	"docsync/internal/reconciler"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ValidFormats lists the accepted --output values.
var ValidFormats = []OutputFormat{FormatTable, FormatJSON, FormatYAML}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Report is what a single reconcile pass produced.
type Report struct {
	Tick      *reconciler.TickResult `json:"tick"`
	Documents []api.DocumentSummary  `json:"documents"`
}

// Formatter writes reports in one output format.
type Formatter interface {
	FormatReport(w io.Writer, report Report) error
}

// New returns the formatter for options.Format.
func New(options Options) (Formatter, error) {
	switch options.Format {
	case FormatTable, "":
		return &TableFormatter{options: options}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (valid: table, json, yaml)", options.Format)
	}
}
