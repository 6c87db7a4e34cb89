package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"boilerquote/quote"
)

// GenerateJSON renders the export payload as indented JSON.
func GenerateJSON(exp quote.Export) ([]byte, error) {
	b, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode quote export: %w", err)
	}
	return b, nil
}

// BundleFileBase is the file name stem used inside and for the bundle.
func BundleFileBase(exp quote.Export) string {
	lead := exp.Selection.Lead
	if lead == "" {
		lead = "draft"
	}
	return "quote-" + sanitizeFilename(lead)
}

// GenerateBundle builds the PDF, the workbook and the JSON payload
// concurrently and zips them with the plain-text summary. All three are
// rendered from the same data, so they agree with each other.
func GenerateBundle(ctx context.Context, data ExportData, exp quote.Export) ([]byte, error) {
	var pdf, xlsx, js []byte

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pdf, err = GeneratePDF(data)
		return err
	})
	g.Go(func() error {
		var err error
		xlsx, err = GenerateExcel(data)
		return err
	})
	g.Go(func() error {
		var err error
		js, err = GenerateJSON(exp)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build bundle: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := data.Summary
	if data.Spec != "" {
		text += "\n\n" + data.Spec
	}
	if data.Notes != "" {
		text += "\n\n" + data.Notes
	}

	base := BundleFileBase(exp)
	files := []struct {
		name string
		body []byte
	}{
		{base + ".pdf", pdf},
		{base + ".xlsx", xlsx},
		{base + ".json", js},
		{base + ".txt", []byte(text + "\n")},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := exp.GeneratedAt
	if modified.IsZero() {
		modified = time.Now()
	}
	for _, file := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: file.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", file.name, err)
		}
		if _, err := w.Write(file.body); err != nil {
			return nil, fmt.Errorf("write %s: %w", file.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeFilename keeps letters, digits, dash and underscore.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ' || r == '/' || r == '.':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "draft"
	}
	return string(out)
}
