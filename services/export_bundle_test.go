package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerquote/quote"
)

func TestGenerateJSON(t *testing.T) {
	_, exp := sampleExport(t)

	raw, err := GenerateJSON(exp)
	require.NoError(t, err)

	var back quote.Export
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, exp.Lines, back.Lines)
	assert.Equal(t, exp.Totals, back.Totals)
	assert.Equal(t, exp.Selection, back.Selection)
	assert.True(t, exp.GeneratedAt.Equal(back.GeneratedAt))
}

func TestGenerateBundle(t *testing.T) {
	data := sampleData(t)
	_, exp := sampleExport(t)

	raw, err := GenerateBundle(context.Background(), data, exp)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	files := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = body
	}

	require.Len(t, files, 4)
	assert.True(t, bytes.HasPrefix(files["quote-LD-2291.pdf"], []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(files["quote-LD-2291.xlsx"], []byte("PK")))
	assert.Contains(t, string(files["quote-LD-2291.txt"]), "Lead LD-2291")

	var payload map[string]any
	require.NoError(t, json.Unmarshal(files["quote-LD-2291.json"], &payload))
	assert.Equal(t, "2026.10-1", payload["catalogVersion"])
}

func TestGenerateBundleHonoursCancelledContext(t *testing.T) {
	data := sampleData(t)
	_, exp := sampleExport(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateBundle(ctx, data, exp)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBundleFileBase(t *testing.T) {
	tests := []struct {
		lead string
		want string
	}{
		{"", "quote-draft"},
		{"LD-2291", "quote-LD-2291"},
		{"Smith / 12 Mill Ln", "quote-Smith---12-Mill-Ln"},
		{"***", "quote-draft"},
	}
	for _, tt := range tests {
		exp := quote.Export{Selection: quote.State{Lead: tt.lead}}
		assert.Equal(t, tt.want, BundleFileBase(exp), tt.lead)
	}
}
