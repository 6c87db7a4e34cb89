package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	mutedColor  = &props.Color{Red: 80, Green: 80, Blue: 80}
	footerColor = &props.Color{Red: 140, Green: 140, Blue: 140}
)

// GeneratePDF creates a PDF quote using maroto/v2 and returns the raw bytes.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addCustomer(m, data)

	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}

	addSummary(m, data)
	addTextBlock(m, "Checks", strings.Join(nonEmpty(data.Clearance, data.Headroom), "\n"))
	addTextBlock(m, "Summary", data.Summary)
	addTextBlock(m, "Specification", data.Spec)
	addTextBlock(m, "Installation notes", data.Notes)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, company, reference and date.
func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	if data.CompanyName != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(data.CompanyName, props.Text{Size: 10, Align: align.Center, Color: mutedColor}),
				),
			),
		)
	}

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Reference: %s", data.ReferenceNumber), props.Text{
					Size:  9,
					Align: align.Left,
					Color: mutedColor,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: mutedColor,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addCustomer(m core.Maroto, data ExportData) {
	if len(data.CustomerLines) == 0 {
		return
	}
	for i, l := range data.CustomerLines {
		style := props.Text{Size: 9, Align: align.Left}
		if i == 0 {
			style.Style = fontstyle.Bold
		}
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(l, style))))
	}
	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the line table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Section", headerTextLeft)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Hours", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Cost", headerText)).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds a single line row, shading alternate rows.
func addTableRow(m core.Maroto, r ExportRow, shaded bool) {
	baseText := props.Text{Size: 8, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, baseText)),
		col.New(2).Add(text.New(r.Section, leftText)),
		col.New(5).Add(text.New(r.Description, leftText)),
		col.New(2).Add(text.New(formatQty(r.Hours), rightText)),
		col.New(2).Add(text.New(FormatGBP(r.Cost), rightText)),
	}
	if shaded {
		cell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
		for i := range cols {
			cols[i] = cols[i].WithStyle(cell)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

// addSummary adds the parts, labour and grand total rows.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	rows := [][2]string{
		{"Parts", FormatGBP(data.Parts)},
		{fmt.Sprintf("Labour (%s @ %s/hr)", FormatHours(data.Hours), FormatGBP(data.LabourRate)), FormatGBP(data.Labour)},
		{"Grand total", FormatGBP(data.GrandTotal)},
	}
	for _, r := range rows {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(r[0], labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(r[1], valueStyle)).WithStyle(summaryCell),
			),
		)
	}
}

// addTextBlock adds a titled block of plain text, one row per line.
func addTextBlock(m core.Maroto, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	m.AddRows(row.New(6))
	m.AddRows(row.New(7).Add(col.New(12).Add(text.New(title, props.Text{Size: 10, Style: fontstyle.Bold}))))
	for _, l := range strings.Split(body, "\n") {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(l, props.Text{Size: 8}))))
	}
}

// addFooter adds the generated-date and price book line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s from price book %s", data.CreatedDate, data.CatalogVersion),
					props.Text{Size: 7, Align: align.Left, Color: footerColor},
				),
			),
		),
	)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
