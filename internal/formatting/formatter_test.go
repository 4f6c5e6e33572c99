package formatting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"docsync/internal/api"
	"docsync/internal/reconciler"
)

func sampleReport() Report {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return Report{
		Tick: &reconciler.TickResult{
			ID:         "tick-1",
			Source:     "static",
			StartedAt:  start,
			FinishedAt: start.Add(250 * time.Millisecond),
			Routes:     2,
			Resolved:   1,
			Added:      1,
			Failures: []reconciler.Failure{{
				Route:   "orders",
				Kind:    api.ResolverKindHTTP,
				Class:   reconciler.ClassFetch,
				Message: "unexpected status 500 from http://orders/openapi.json",
			}},
		},
		Documents: []api.DocumentSummary{{
			ContextPath: "/pets",
			ContextID:   "0123456789abcdef0123",
			Name:        "pets",
			Title:       "Petstore",
			Version:     "1.0.0",
			Format:      "openapi3",
			Source:      "/srv/docs/pets/openapi.json",
		}},
	}
}

func TestNew(t *testing.T) {
	for _, f := range ValidFormats {
		_, err := New(Options{Format: f})
		assert.NoError(t, err, f)
	}

	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{}).FormatReport(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "FAILED static: 2 routes, 1 resolved, 1 added, 0 updated, 0 unchanged, 0 pruned in 250ms")
	assert.Contains(t, out, "CONTEXT PATH")
	assert.Contains(t, out, "Petstore")
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abcdef0123")
	assert.Contains(t, out, "unexpected status 500")
	assert.Contains(t, out, "fetch")
	// Colors are off.
	assert.NotContains(t, out, "\x1b[")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	report := Report{Tick: &reconciler.TickResult{
		Source:      "disk:/srv/docs",
		SourceError: &reconciler.Failure{Class: reconciler.ClassSource, Message: "permission denied"},
	}}
	require.NoError(t, NewTableFormatter(Options{}).FormatReport(&buf, report))

	assert.Contains(t, buf.String(), "Source error: permission denied")
	assert.Contains(t, buf.String(), "No documents resolved")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatReport(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	tick := decoded["tick"].(map[string]interface{})
	assert.Equal(t, "tick-1", tick["id"])
	docs := decoded["documents"].([]interface{})
	require.Len(t, docs, 1)
	assert.Equal(t, "/pets", docs[0].(map[string]interface{})["contextPath"])

	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \""), "expected two-space indentation, got %q", buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
}

func TestStructuredFormatters_EmptyDocuments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatReport(&buf, Report{}))
	assert.Contains(t, buf.String(), `"documents": []`)

	buf.Reset()
	require.NoError(t, (&YAMLFormatter{}).FormatReport(&buf, Report{}))
	assert.Contains(t, buf.String(), "documents: []")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).FormatReport(&buf, sampleReport()))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.NotNil(t, decoded.Tick)
	assert.Equal(t, 2, decoded.Tick.Routes)
	require.Len(t, decoded.Tick.Failures, 1)
	assert.Equal(t, reconciler.ClassFetch, decoded.Tick.Failures[0].Class)
	require.Len(t, decoded.Documents, 1)
	assert.Equal(t, "Petstore", decoded.Documents[0].Title)
}
