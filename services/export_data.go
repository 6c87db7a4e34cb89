package services

import (
	"strconv"
	"strings"

	"boilerquote/catalog"
	"boilerquote/quote"
)

// ExportRow is one priced line in a PDF or Excel quote.
type ExportRow struct {
	Index       string
	Section     string
	Description string
	Cost        float64
	Hours       float64
}

// ExportData holds everything the document exporters need. It is built once
// from an export payload, so every format shows the same figures.
type ExportData struct {
	Title           string
	CompanyName     string
	ReferenceNumber string
	CreatedDate     string
	CatalogVersion  string
	CustomerLines   []string
	Rows            []ExportRow
	Parts           float64
	Hours           float64
	LabourRate      float64
	Labour          float64
	GrandTotal      float64
	Clearance       string
	Headroom        string
	Summary         string
	Notes           string
	Spec            string
}

var sectionByKind = map[string]string{
	quote.KindBasePack:       "Removal",
	quote.KindConversionPack: "Conversion",
	quote.KindBoiler:         "Boiler",
	quote.KindFlue:           "Flue",
	quote.KindGas:            "Gas",
	quote.KindCondensate:     "Condensate",
	quote.KindComponent:      "Components",
	quote.KindExtra:          "Extras",
}

// NewExportData lays out exp for the document exporters.
func NewExportData(cat *catalog.Catalog, exp quote.Export, companyName, reference string) ExportData {
	s := exp.Selection

	title := "Boiler Replacement Quote"
	if s.Lead != "" {
		title += " " + s.Lead
	}
	data := ExportData{
		Title:           title,
		CompanyName:     companyName,
		ReferenceNumber: reference,
		CreatedDate:     exp.GeneratedAt.Format("2006-01-02 15:04 MST"),
		CatalogVersion:  exp.CatalogVersion,
		Parts:           exp.Totals.Parts,
		Hours:           exp.Totals.Hours,
		LabourRate:      exp.Totals.LabourRate,
		Labour:          exp.Totals.Labour,
		GrandTotal:      exp.Totals.GrandTotal,
		Clearance:       quote.CheckClearance(cat, s).Message,
		Headroom:        quote.CheckHeadroom(cat, s).Message,
		Summary:         CustomerSummary(cat, s, exp.Totals),
		Notes:           BuildNotes(s.Notes),
		Spec:            SpecText(cat, s),
	}

	if c := cat.Customer(s.CustomerID); c != nil {
		for _, l := range []string{c.Name, c.Address, c.Contact, c.Phone, c.Email, c.AccountRef} {
			if l = strings.TrimSpace(l); l != "" {
				data.CustomerLines = append(data.CustomerLines, l)
			}
		}
	}

	data.Rows = make([]ExportRow, 0, len(exp.Lines))
	for i, l := range exp.Lines {
		data.Rows = append(data.Rows, ExportRow{
			Index:       strconv.Itoa(i + 1),
			Section:     sectionByKind[l.Kind()],
			Description: l.Label,
			Cost:        l.Cost,
			Hours:       l.Hours,
		})
	}
	return data
}
