package services

import (
	"context"
	"fmt"
	"slices"

	"boilerquote/quote"
)

// Export formats.
const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"
	FormatJSON  = "json"
	FormatZip   = "zip"
)

type exportFormat struct {
	contentType string
	extension   string
}

var exportFormats = map[string]exportFormat{
	FormatPDF:   {"application/pdf", ".pdf"},
	FormatExcel: {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
	FormatJSON:  {"application/json", ".json"},
	FormatZip:   {"application/zip", ".zip"},
}

// UnknownFormatError is returned by Render for a format it does not produce.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown export format %q", e.Format)
}

// ExportFormats lists the supported formats in a stable order.
func ExportFormats() []string {
	out := make([]string, 0, len(exportFormats))
	for f := range exportFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ContentType and FileName describe the download for format.
func ContentType(format string) string {
	return exportFormats[format].contentType
}

func FileName(exp quote.Export, format string) string {
	return BundleFileBase(exp) + exportFormats[format].extension
}

// Render produces the document bytes for format from one export snapshot.
func Render(ctx context.Context, format string, exp quote.Export, data ExportData) ([]byte, error) {
	switch format {
	case FormatPDF:
		return GeneratePDF(data)
	case FormatExcel:
		return GenerateExcel(data)
	case FormatJSON:
		return GenerateJSON(exp)
	case FormatZip:
		return GenerateBundle(ctx, data, exp)
	}
	return nil, &UnknownFormatError{Format: format}
}
