package quote

import (
	"encoding/json"
	"time"

	"boilerquote/catalog"
	"boilerquote/errs"
)

// Marshal serializes s as a snapshot document.
func Marshal(s State) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, err, "encode quote snapshot")
	}
	return b, nil
}

// Unmarshal decodes a snapshot. Non-positive component quantities and a
// negative labour rate in the document are dropped.
func Unmarshal(raw []byte) (State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, errs.Wrap(errs.CodeValidation, err, "decode quote snapshot")
	}
	return normalize(s), nil
}

// Merge applies an imported snapshot over base. Top-level fields present in
// raw replace the corresponding fields of base; absent fields are kept.
// Nested objects (measurements, headroom, optionIds, checklists) merge key
// by key.
func Merge(base State, raw []byte) (State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return State{}, errs.Wrap(errs.CodeValidation, err, "decode imported quote")
	}

	next := base.Clone()
	// Maps and pointers decode into existing values; start those fresh so
	// the import replaces them.
	if _, ok := fields["components"]; ok {
		next.Components = nil
	}
	if _, ok := fields["flueSelection"]; ok {
		next.FlueSelection = nil
	}
	if _, ok := fields["notes"]; ok {
		next.Notes = Notes{}
	}
	if err := json.Unmarshal(raw, &next); err != nil {
		return State{}, errs.Wrap(errs.CodeValidation, err, "decode imported quote")
	}
	return normalize(next), nil
}

func normalize(s State) State {
	for id, qty := range s.Components {
		if qty <= 0 {
			delete(s.Components, id)
		}
	}
	s.LabourRate = nonNegative(s.LabourRate)
	return s
}

// Export is the quote export payload.
type Export struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	CatalogVersion string    `json:"catalogVersion"`
	Selection      State     `json:"selection"`
	Lines          []Line    `json:"lines"`
	Totals         Totals    `json:"totals"`
}

// BuildExport prices a copy of s. The payload shares no memory with s.
func BuildExport(cat *catalog.Catalog, s State, now time.Time) Export {
	snap := s.Clone()
	lines, totals := Price(cat, snap)
	return Export{
		GeneratedAt:    now.UTC(),
		CatalogVersion: cat.Version(),
		Selection:      snap,
		Lines:          lines,
		Totals:         totals,
	}
}
