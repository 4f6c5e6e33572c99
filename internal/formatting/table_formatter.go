package formatting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"docsync/internal/api"
	"docsync/internal/reconciler"
	pkgstrings "docsync/pkg/strings"
)

const shortIDLength = 12

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) *TableFormatter {
	return &TableFormatter{options: options}
}

// FormatReport writes a summary line, the resolved documents and any
// failures.
func (f *TableFormatter) FormatReport(w io.Writer, report Report) error {
	var b strings.Builder

	if tick := report.Tick; tick != nil {
		b.WriteString(f.summary(tick))
		b.WriteString("\n")
		if tick.SourceError != nil {
			fmt.Fprintf(&b, "%s %s\n", f.color(text.FgRed, "Source error:"), tick.SourceError.Message)
		}
	}

	if len(report.Documents) == 0 {
		fmt.Fprintf(&b, "%s\n", f.color(text.FgYellow, "No documents resolved"))
	} else {
		b.WriteString(f.documentsTable(report.Documents))
		b.WriteString("\n")
	}

	if report.Tick != nil && len(report.Tick.Failures) > 0 {
		b.WriteString(f.failuresTable(report.Tick.Failures))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) summary(tick *reconciler.TickResult) string {
	status := f.color(text.FgGreen, "OK")
	if !tick.OK() {
		status = f.color(text.FgRed, "FAILED")
	}
	return fmt.Sprintf("%s %s: %d routes, %d resolved, %d added, %d updated, %d unchanged, %d pruned in %s",
		status,
		tick.Source,
		tick.Routes,
		tick.Resolved,
		tick.Added,
		tick.Updated,
		tick.Unchanged,
		tick.Pruned,
		tick.Duration().Round(time.Millisecond),
	)
}

func (f *TableFormatter) documentsTable(docs []api.DocumentSummary) string {
	t := f.createTable()
	t.AppendHeader(f.header("CONTEXT PATH", "NAME", "TITLE", "VERSION", "FORMAT", "CONTEXT ID", "SOURCE"))
	for _, d := range docs {
		t.AppendRow(table.Row{
			d.ContextPath,
			d.Name,
			pkgstrings.SingleLine(d.Title, pkgstrings.DefaultMessageMaxLen),
			d.Version,
			d.Format,
			pkgstrings.Prefix(d.ContextID, shortIDLength),
			d.Source,
		})
	}
	return t.Render()
}

func (f *TableFormatter) failuresTable(failures []reconciler.Failure) string {
	t := f.createTable()
	t.AppendHeader(f.header("ROUTE", "KIND", "CLASS", "ERROR"))
	for _, fl := range failures {
		t.AppendRow(table.Row{
			fl.Route,
			fl.Kind,
			f.color(text.FgRed, string(fl.Class)),
			pkgstrings.SingleLine(fl.Message, pkgstrings.DefaultMessageMaxLen),
		})
	}
	return t.Render()
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = f.color(text.FgHiCyan, c)
	}
	return row
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
