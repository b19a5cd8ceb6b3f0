package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/discovery"
)

func TestClampWidth(t *testing.T) {
	assert.Equal(t, MinTerminalWidth, clampWidth(10))
	assert.Equal(t, 80, clampWidth(80))
	assert.Equal(t, MaxContentWidth, clampWidth(500))
}

func TestRenderHeaderKeepsFieldOrder(t *testing.T) {
	out := RenderHeader("Script Library", "premiere list", []Field{
		F("Source", "built-in"),
		F("Scripts", "4"),
	}, 80)

	assert.Contains(t, out, "SCRIPT LIBRARY")
	assert.Contains(t, out, "premiere list")
	src := strings.Index(out, "Source:")
	scripts := strings.Index(out, "Scripts:")
	require.True(t, src >= 0 && scripts >= 0)
	assert.Less(t, src, scripts)
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   []string
	}{
		{
			name:   "success",
			result: Result{Type: ResultSuccess, Title: "Config written", Details: []Field{F("Path", "/tmp/x")}},
			want:   []string{SuccessMarker, "Config written", "Path:", "/tmp/x"},
		},
		{
			name:   "failure with hints",
			result: Result{Type: ResultFailure, Title: "Fetch failed", Error: errors.New("connection refused"), Hints: []string{"Is the server running?"}},
			want:   []string{FailureMarker, "connection refused", "Troubleshooting:", "Is the server running?"},
		},
		{
			name:   "warning",
			result: Result{Type: ResultWarning, Title: "No libraries"},
			want:   []string{WarningMarker, "No libraries"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.Render(80)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderCatalogTable(t *testing.T) {
	out := RenderCatalogTable(card.FromCatalog(catalog.Default()), 100)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5, "header plus one row per script")
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Midnight in the Alley")
	assert.Contains(t, lines[3], "Neural Highway")
	assert.Contains(t, lines[3], "David Kim")
}

func TestPrinterCatalogAndScript(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(90)
	assert.Equal(t, 90, p.Width())

	cat := catalog.Default()
	p.PrintCatalog(cat)
	assert.Contains(t, buf.String(), "Coffee Shop Serenade")

	buf.Reset()
	r, ok := cat.Get("2")
	require.True(t, ok)
	p.PrintScript(r)
	assert.Contains(t, buf.String(), "Coffee Shop Serenade")
	assert.Contains(t, buf.String(), "Michael Chen")
}

func TestPrinterLibraries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLibraries(nil)
	assert.Contains(t, buf.String(), "No libraries found")

	buf.Reset()
	p.PrintLibraries([]*discovery.Library{{
		Name:     "Studio Vault",
		IP:       "192.168.1.20",
		Port:     8080,
		Metadata: map[string]string{discovery.TXTScripts: "4", discovery.TXTVersion: "1.0.0"},
	}})
	out := buf.String()
	assert.Contains(t, out, "Studio Vault")
	assert.Contains(t, out, "http://192.168.1.20:8080")
	assert.Contains(t, out, "1.0.0")
}
