package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	quoteSheet = "Quote"
	notesSheet = "Notes"
)

// GenerateExcel creates a workbook with the priced lines on one sheet and the
// summary, spec and notes text on another. Amounts are written as numbers
// with a currency format so the sheet can be re-totalled.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, quoteSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 16, 52, 10, 16}
	for i, col := range columns {
		if err := f.SetColWidth(quoteSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	gbp := `"£"#,##0.00`
	lineStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create line style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &gbp,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}
	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &gbp,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	if err := f.MergeCell(quoteSheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(quoteSheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(quoteSheet, "A1", lastCol+"1", titleStyle)

	if data.ReferenceNumber != "" {
		if err := f.MergeCell(quoteSheet, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge ref: %w", err)
		}
		f.SetCellValue(quoteSheet, "A2", "Ref: "+data.ReferenceNumber)
		f.SetCellStyle(quoteSheet, "A2", lastCol+"2", subtitleStyle)
	}

	if err := f.MergeCell(quoteSheet, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(quoteSheet, "A3", fmt.Sprintf("Date: %s  Price book: %s", data.CreatedDate, data.CatalogVersion))
	f.SetCellStyle(quoteSheet, "A3", lastCol+"3", subtitleStyle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Section", "Description", "Hours", "Cost"}
	for i, h := range headers {
		f.SetCellValue(quoteSheet, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(quoteSheet, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(quoteSheet, "A"+rowStr, r.Index)
		f.SetCellValue(quoteSheet, "B"+rowStr, sanitizeExcelCell(r.Section))
		f.SetCellValue(quoteSheet, "C"+rowStr, sanitizeExcelCell(r.Description))
		f.SetCellValue(quoteSheet, "D"+rowStr, r.Hours)
		f.SetCellValue(quoteSheet, "E"+rowStr, r.Cost)
		f.SetCellStyle(quoteSheet, "A"+rowStr, "D"+rowStr, lineStyle)
		f.SetCellStyle(quoteSheet, "E"+rowStr, "E"+rowStr, moneyStyle)
		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++
	summary := []struct {
		label string
		value float64
		money bool
	}{
		{"Parts:", data.Parts, true},
		{"Labour hours:", data.Hours, false},
		{"Labour rate:", data.LabourRate, true},
		{"Labour:", data.Labour, true},
		{"Grand total:", data.GrandTotal, true},
	}
	for _, s := range summary {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(quoteSheet, "D"+rowStr, s.label)
		f.SetCellStyle(quoteSheet, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(quoteSheet, "E"+rowStr, s.value)
		if s.money {
			f.SetCellStyle(quoteSheet, "E"+rowStr, "E"+rowStr, summaryValueStyle)
		}
		row++
	}

	if err := writeNotesSheet(f, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// writeNotesSheet puts each text block under a heading, one line per row.
func writeNotesSheet(f *excelize.File, data ExportData) error {
	if _, err := f.NewSheet(notesSheet); err != nil {
		return fmt.Errorf("create notes sheet: %w", err)
	}
	if err := f.SetColWidth(notesSheet, "A", "A", 100); err != nil {
		return fmt.Errorf("set notes width: %w", err)
	}
	heading, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return fmt.Errorf("create notes heading style: %w", err)
	}

	blocks := []struct{ title, body string }{
		{"Customer", strings.Join(data.CustomerLines, "\n")},
		{"Checks", strings.Join(nonEmpty(data.Clearance, data.Headroom), "\n")},
		{"Summary", data.Summary},
		{"Specification", data.Spec},
		{"Installation notes", data.Notes},
	}
	row := 1
	for _, b := range blocks {
		body := strings.TrimSpace(b.body)
		if body == "" {
			continue
		}
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(notesSheet, cell, b.title)
		f.SetCellStyle(notesSheet, cell, cell, heading)
		row++
		for _, l := range strings.Split(body, "\n") {
			f.SetCellValue(notesSheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(l))
			row++
		}
		row++
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
