package quote

import (
	"fmt"
	"strings"

	"boilerquote/catalog"
)

// Line id prefixes. A line id is "<kind>:<catalog id>".
const (
	KindBasePack       = "pack:base"
	KindConversionPack = "pack:conversion"
	KindBoiler         = "boiler"
	KindFlue           = "flue"
	KindGas            = "gas"
	KindCondensate     = "condensate"
	KindComponent      = "component"
	KindExtra          = "extra"
)

// Line is one priced entry of a quote.
type Line struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
	Hours float64 `json:"hours"`
}

// Kind returns the line's kind prefix.
func (l Line) Kind() string {
	i := strings.LastIndex(l.ID, ":")
	if i < 0 {
		return l.ID
	}
	return l.ID[:i]
}

type Totals struct {
	Parts      float64 `json:"parts"`
	Hours      float64 `json:"hours"`
	LabourRate float64 `json:"labourRate"`
	Labour     float64 `json:"labour"`
	GrandTotal float64 `json:"grandTotal"`
}

func lineID(kind, id string) string {
	return kind + ":" + id
}

// ComputeLines walks s against cat in a fixed order: base pack, conversion
// pack, boiler, flue, gas options, condensate options, components in catalog
// order, then hand-entered extras. References that do not resolve produce no
// line.
func ComputeLines(cat *catalog.Catalog, s State) []Line {
	lines := make([]Line, 0, 8)

	if p := cat.Pack(s.BasePackID); p != nil {
		lines = append(lines, Line{ID: lineID(KindBasePack, p.ID), Label: p.Name, Cost: p.Cost(), Hours: p.TotalHours()})
	}
	if p := cat.Pack(s.ConversionPackID); p != nil {
		lines = append(lines, Line{ID: lineID(KindConversionPack, p.ID), Label: p.Name, Cost: p.Cost(), Hours: p.TotalHours()})
	}
	if b := cat.Boiler(s.BoilerID); b != nil {
		lines = append(lines, Line{ID: lineID(KindBoiler, b.ID), Label: b.Name, Cost: b.Cost, Hours: b.Hours})
	}
	if l, ok := flueLine(cat, s.FlueSelection); ok {
		lines = append(lines, l)
	}
	for _, id := range s.OptionIDs.Gas {
		if o := cat.GasOption(id); o != nil {
			lines = append(lines, Line{ID: lineID(KindGas, o.ID), Label: o.Name, Cost: o.Cost, Hours: o.Hours})
		}
	}
	for _, id := range s.OptionIDs.Condensate {
		if o := cat.CondensateOption(id); o != nil {
			lines = append(lines, Line{ID: lineID(KindCondensate, o.ID), Label: o.Name, Cost: o.Cost, Hours: o.Hours})
		}
	}
	for _, c := range cat.Components() {
		qty := s.Components[c.ID]
		if qty <= 0 {
			continue
		}
		label := c.Name
		if qty > 1 {
			label = fmt.Sprintf("%s x%d", c.Name, qty)
		}
		n := float64(qty)
		lines = append(lines, Line{ID: lineID(KindComponent, c.ID), Label: label, Cost: c.Cost * n, Hours: c.Hours * n})
	}
	for _, e := range s.Extras {
		lines = append(lines, Line{ID: lineID(KindExtra, e.ID), Label: e.Label, Cost: e.Cost, Hours: e.Hours})
	}
	return lines
}

// flueLine folds the variant surcharge into the flue's own line. A variant id
// that no longer resolves prices the bare flue.
func flueLine(cat *catalog.Catalog, sel *FlueSelection) (Line, bool) {
	if sel == nil {
		return Line{}, false
	}
	f := cat.Flue(sel.FlueID)
	if f == nil {
		return Line{}, false
	}
	l := Line{ID: lineID(KindFlue, f.ID), Label: f.Name, Cost: f.Cost, Hours: f.Hours}
	if v := f.Variant(sel.VariantID); v != nil {
		l.Label = fmt.Sprintf("%s (%s)", f.Name, v.Label)
		l.Cost += v.Cost
		l.Hours += v.Hours
	}
	return l, true
}

// ComputeTotals sums lines and prices the labour. Nothing is rounded here.
func ComputeTotals(lines []Line, labourRate float64) Totals {
	t := Totals{LabourRate: labourRate}
	for _, l := range lines {
		t.Parts += l.Cost
		t.Hours += l.Hours
	}
	t.Labour = t.Hours * labourRate
	t.GrandTotal = t.Parts + t.Labour
	return t
}

// Price is ComputeLines followed by ComputeTotals at the state's labour rate.
func Price(cat *catalog.Catalog, s State) ([]Line, Totals) {
	lines := ComputeLines(cat, s)
	return lines, ComputeTotals(lines, s.LabourRate)
}
