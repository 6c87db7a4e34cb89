// Package quote implements the selection model of a boiler replacement quote:
// the mutable selection state, the resolver that keeps it consistent with a
// price book, the pricing aggregator and the clearance/headroom checks.
package quote

import (
	"maps"
	"slices"
)

// FlueSelection is the chosen flue and, optionally, one of its variants.
type FlueSelection struct {
	FlueID    string `json:"flueId"`
	VariantID string `json:"variantId,omitempty"`
}

// Measurements of the installation space, in millimetres. Zero means not measured.
type Measurements struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Notes  string  `json:"notes"`
}

type Headroom struct {
	// AvailableMm is nil until the engineer enters a value.
	AvailableMm          *float64 `json:"availableMm"`
	ReductionIDsSelected []string `json:"reductionIdsSelected"`
}

// OptionIDs keeps gas and condensate choices in selection order.
type OptionIDs struct {
	Gas        []string `json:"gas"`
	Condensate []string `json:"condensate"`
}

type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
	Notes string `json:"notes"`
}

type Checklists struct {
	Photos       []ChecklistItem `json:"photos"`
	Observations []ChecklistItem `json:"observations"`
}

// Checklist names accepted by UpdateChecklistItem and AddChecklistItem.
const (
	ChecklistPhotos       = "photos"
	ChecklistObservations = "observations"
)

// Extra is a hand-entered part or labour item that is not in the price book.
type Extra struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
	Hours float64 `json:"hours"`
}

// Notes are the free-text installation notes, grouped by snippet category.
type Notes struct {
	Sections       map[string][]string `json:"sections"`
	Free           string              `json:"free"`
	IncludeHeaders bool                `json:"includeHeaders"`
}

// State is one in-progress quote. Change it through Resolver so that
// dependent fields stay consistent with the catalog.
type State struct {
	CustomerID       string  `json:"customerId"`
	ExistingTypeID   string  `json:"existingTypeId"`
	BasePackID       string  `json:"basePackId"`
	NewSystemID      string  `json:"newSystemId"`
	ConversionPackID string  `json:"conversionPackId"`
	BoilerID         string  `json:"boilerId"`
	LabourRate       float64 `json:"labourRate"`

	FlueSelection *FlueSelection `json:"flueSelection"`
	Measurements  Measurements   `json:"measurements"`
	Headroom      Headroom       `json:"headroom"`
	OptionIDs     OptionIDs      `json:"optionIds"`
	// Components maps component id to a strictly positive quantity.
	Components map[string]int `json:"components"`
	Checklists Checklists     `json:"checklists"`

	Lead   string  `json:"lead"`
	Needs  string  `json:"needs"`
	Extras []Extra `json:"extras"`
	Notes  Notes   `json:"notes"`
}

// New returns an empty state with the given labour rate.
func New(labourRate float64) State {
	if labourRate < 0 {
		labourRate = 0
	}
	return State{
		LabourRate: labourRate,
		Components: map[string]int{},
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s State) Clone() State {
	out := s
	if s.FlueSelection != nil {
		fs := *s.FlueSelection
		out.FlueSelection = &fs
	}
	if s.Headroom.AvailableMm != nil {
		v := *s.Headroom.AvailableMm
		out.Headroom.AvailableMm = &v
	}
	out.Headroom.ReductionIDsSelected = slices.Clone(s.Headroom.ReductionIDsSelected)
	out.OptionIDs.Gas = slices.Clone(s.OptionIDs.Gas)
	out.OptionIDs.Condensate = slices.Clone(s.OptionIDs.Condensate)
	out.Components = maps.Clone(s.Components)
	out.Checklists.Photos = slices.Clone(s.Checklists.Photos)
	out.Checklists.Observations = slices.Clone(s.Checklists.Observations)
	out.Extras = slices.Clone(s.Extras)
	if s.Notes.Sections != nil {
		out.Notes.Sections = make(map[string][]string, len(s.Notes.Sections))
		for k, v := range s.Notes.Sections {
			out.Notes.Sections[k] = slices.Clone(v)
		}
	}
	return out
}

// FlueID is the selected flue id, or "".
func (s State) FlueID() string {
	if s.FlueSelection == nil {
		return ""
	}
	return s.FlueSelection.FlueID
}

// ComponentQuantity returns the stored quantity, 0 when absent.
func (s State) ComponentQuantity(id string) int {
	return s.Components[id]
}

// toggle adds or removes id from an ordered set, keeping first-insertion order.
func toggle(set []string, id string, on bool) []string {
	i := slices.Index(set, id)
	switch {
	case on && i < 0:
		return append(slices.Clone(set), id)
	case !on && i >= 0:
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return set
}
