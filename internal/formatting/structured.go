package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"docsync/internal/api"
)

// JSONFormatter writes reports as JSON indented by two spaces.
type JSONFormatter struct{}

// FormatReport implements Formatter.
func (f *JSONFormatter) FormatReport(w io.Writer, report Report) error {
	out, err := json.MarshalIndent(normalize(report), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// YAMLFormatter writes reports as YAML, using the JSON field names.
type YAMLFormatter struct{}

// FormatReport implements Formatter.
func (f *YAMLFormatter) FormatReport(w io.Writer, report Report) error {
	out, err := yaml.Marshal(normalize(report))
	if err != nil {
		return fmt.Errorf("failed to encode report as YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// normalize makes empty document lists render as [] rather than null.
func normalize(report Report) Report {
	if report.Documents == nil {
		report.Documents = []api.DocumentSummary{}
	}
	return report
}
