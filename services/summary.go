package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"boilerquote/catalog"
	"boilerquote/quote"
)

// CustomerSummary is the short plain-text paragraph read back to the customer.
func CustomerSummary(cat *catalog.Catalog, s quote.State, totals quote.Totals) string {
	lead := s.Lead
	if lead == "" {
		lead = "(no lead ref)"
	}
	system := "system"
	if sys := cat.SystemOption(s.NewSystemID); sys != nil {
		system = sys.Name
	}

	lines := []string{fmt.Sprintf("Lead %s: Proposed %s replacement.", lead, system)}
	if c := cat.Customer(s.CustomerID); c != nil {
		lines = append(lines, fmt.Sprintf("Customer: %s, %s.", c.Name, c.Address))
	}
	if b := cat.Boiler(s.BoilerID); b != nil {
		lines = append(lines, fmt.Sprintf("Boiler: %s.", b.Name))
	}
	if m := s.Measurements; m.Height > 0 && m.Width > 0 && m.Depth > 0 {
		lines = append(lines, fmt.Sprintf("Available space measured: %sx%sx%s mm (HxWxD).", formatQty(m.Height), formatQty(m.Width), formatQty(m.Depth)))
	}
	if needs := strings.TrimSpace(s.Needs); needs != "" {
		lines = append(lines, fmt.Sprintf("Customer priorities: %s.", needs))
	}
	lines = append(lines,
		fmt.Sprintf("Estimated parts %s, labour %s @ %s/hr = %s. Total %s (excl. VAT adjustments, if any).",
			FormatGBP(totals.Parts), FormatHours(totals.Hours), FormatGBP(totals.LabourRate), FormatGBP(totals.Labour), FormatGBP(totals.GrandTotal)),
		"Detailed depot notes and spec are included below.",
	)
	return strings.Join(lines, "\n")
}

// SpecText describes the selected boiler's case and clearances next to the
// measured space and the clearance check outcome. It is empty without a boiler.
func SpecText(cat *catalog.Catalog, s quote.State) string {
	b := cat.Boiler(s.BoilerID)
	if b == nil {
		return ""
	}
	c := b.RequiredClearance
	lines := []string{
		fmt.Sprintf("Model: %s (%s, %s kW)", b.Name, b.Type, formatQty(b.Output)),
		fmt.Sprintf("Case: H%s W%s D%s mm", formatQty(b.Case.Height), formatQty(b.Case.Width), formatQty(b.Case.Depth)),
		fmt.Sprintf("Minimum space: H%s W%s D%s mm", formatQty(b.MinSpace.Height), formatQty(b.MinSpace.Width), formatQty(b.MinSpace.Depth)),
		fmt.Sprintf("Clearances (mm): above %s, below %s, left %s, right %s, front %s",
			formatQty(c.Top), formatQty(c.Bottom), formatQty(c.Left), formatQty(c.Right), formatQty(c.Front)),
	}

	check := quote.CheckClearance(cat, s)
	if check.Status != quote.CheckIncomplete {
		m := s.Measurements
		lines = append(lines, fmt.Sprintf("Measured space: H%s W%s D%s mm - %s",
			formatQty(m.Height), formatQty(m.Width), formatQty(m.Depth), strings.ToUpper(string(check.Status))))
	}
	if notes := strings.TrimSpace(s.Measurements.Notes); notes != "" {
		lines = append(lines, "Notes: "+notes)
	}
	if f := cat.Flue(s.FlueID()); f != nil {
		head := quote.CheckHeadroom(cat, s)
		lines = append(lines, fmt.Sprintf("Flue: %s - %s", f.Name, head.Message))
	}
	return strings.Join(lines, "\n")
}

// Notes sections in output order, with their header labels.
var noteSections = []struct {
	category string
	header   string
}{
	{catalog.SnippetBoiler, "Boiler"},
	{catalog.SnippetFlue, "Flue"},
	{catalog.SnippetPipework, "Pipework"},
	{catalog.SnippetCylinder, "Cylinder"},
	{catalog.SnippetControls, "Controls"},
	{catalog.SnippetAdditional, "Additional Products"},
	{catalog.SnippetNotes, "Site Notes"},
}

// BuildNotes flattens the notes into depot text: each non-empty section in a
// fixed order, optionally preceded by a [Header] line, then the free notes.
func BuildNotes(n quote.Notes) string {
	var lines []string
	header := func(h string) {
		if n.IncludeHeaders {
			lines = append(lines, "["+h+"]")
		}
	}

	for _, sec := range noteSections {
		var body []string
		for _, l := range n.Sections[sec.category] {
			if l = strings.TrimSpace(l); l != "" {
				body = append(body, l)
			}
		}
		if len(body) == 0 {
			continue
		}
		header(sec.header)
		lines = append(lines, body...)
	}
	if free := strings.TrimSpace(n.Free); free != "" {
		header("Free Notes")
		lines = append(lines, free)
	}
	return strings.Join(lines, "\n")
}

// Text format toggles for copied notes.
const (
	FormatArrows     = "arrows"
	FormatSemicolons = "semicolons"
)

const arrowPrefix = "↘️"

// ApplyFormat adds (on) or strips (off) a per-line decoration. Applying the
// same mode twice does not stack decorations. Unknown modes return text unchanged.
func ApplyFormat(text, mode string, on bool) string {
	lines := strings.Split(text, "\n")
	switch mode {
	case FormatArrows:
		for i, l := range lines {
			stripped := strings.TrimRight(strings.TrimLeft(strings.TrimPrefix(l, arrowPrefix), " \t"), " \t")
			if on {
				stripped = arrowPrefix + " " + stripped
			}
			lines[i] = stripped
		}
	case FormatSemicolons:
		for i, l := range lines {
			stripped := strings.TrimRight(strings.TrimSuffix(l, ";"), " \t")
			if on {
				stripped += ";"
			}
			lines[i] = stripped
		}
	default:
		return text
	}
	return strings.Join(lines, "\n")
}

var hwdPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)`)

// ParseHWD reads a "HxWxD" measurement in millimetres, e.g. "600x450x350"
// or "600 × 450 × 350 mm". ok is false when the text has no such triple.
func ParseHWD(text string) (m quote.Measurements, ok bool) {
	match := hwdPattern.FindStringSubmatch(text)
	if match == nil {
		return quote.Measurements{}, false
	}
	vals := make([]float64, 3)
	for i := range vals {
		v, err := strconv.ParseFloat(match[i+1], 64)
		if err != nil {
			return quote.Measurements{}, false
		}
		vals[i] = v
	}
	return quote.Measurements{Height: vals[0], Width: vals[1], Depth: vals[2]}, true
}
