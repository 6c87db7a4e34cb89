package quote

import (
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"boilerquote/catalog"
)

// Resolver applies selections to a State and clears whatever a selection
// makes incompatible. Every method is total: it takes the current state and
// returns the next one without modifying its input.
type Resolver struct {
	cat *catalog.Catalog
	// newID mints ids for checklist items and extras.
	newID func() string
}

func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat, newID: uuid.NewString}
}

func (r *Resolver) Catalog() *catalog.Catalog {
	return r.cat
}

// SetNewSystem selects the proposed system and its conversion pack. When the
// system restricts the boiler type and the current boiler does not match (or
// no longer exists), the boiler and flue are cleared together.
func (r *Resolver) SetNewSystem(s State, systemID string) State {
	next := s.Clone()
	next.NewSystemID = systemID
	next.ConversionPackID = ""

	sys := r.cat.SystemOption(systemID)
	if sys == nil {
		return next
	}
	next.ConversionPackID = sys.ConversionPackID

	if sys.BoilerType == "" || next.BoilerID == "" {
		return next
	}
	if b := r.cat.Boiler(next.BoilerID); b == nil || b.Type != sys.BoilerType {
		next.BoilerID = ""
		next = clearFlue(next)
	}
	return next
}

// SetBoiler selects a boiler and drops the flue if the boiler does not list it.
func (r *Resolver) SetBoiler(s State, boilerID string) State {
	next := s.Clone()
	next.BoilerID = boilerID

	if next.FlueSelection == nil {
		return next
	}
	b := r.cat.Boiler(boilerID)
	if b == nil || !b.AcceptsFlue(next.FlueSelection.FlueID) {
		next = clearFlue(next)
	}
	return next
}

// SetFlue selects a flue. An empty variantID picks the flue's first variant.
// Headroom reductions belong to a flue, so the selected set is reset.
func (r *Resolver) SetFlue(s State, flueID, variantID string) State {
	next := clearFlue(s.Clone())
	if flueID == "" {
		return next
	}
	if variantID == "" {
		if f := r.cat.Flue(flueID); f != nil {
			variantID = f.DefaultVariantID()
		}
	}
	next.FlueSelection = &FlueSelection{FlueID: flueID, VariantID: variantID}
	return next
}

// SetFlueVariant changes the variant of the selected flue. Unknown variants are ignored.
func (r *Resolver) SetFlueVariant(s State, variantID string) State {
	if s.FlueSelection == nil {
		return s.Clone()
	}
	f := r.cat.Flue(s.FlueSelection.FlueID)
	if f == nil || (variantID != "" && f.Variant(variantID) == nil) {
		return s.Clone()
	}
	next := s.Clone()
	next.FlueSelection.VariantID = variantID
	return next
}

// SetExistingType selects the existing system archetype and its base pack.
// Both checklists are replaced wholesale by the type's default prompts; edits
// made under the previous type are discarded.
func (r *Resolver) SetExistingType(s State, typeID string) State {
	next := s.Clone()
	next.ExistingTypeID = typeID
	next.BasePackID = ""
	next.Checklists = Checklists{}

	bt := r.cat.BoilerType(typeID)
	if bt == nil {
		return next
	}
	next.BasePackID = bt.BasePackID
	next.Checklists.Photos = r.checklistFrom(bt.DefaultPhotoPrompts)
	next.Checklists.Observations = r.checklistFrom(bt.DefaultObservationPrompts)
	return next
}

func (r *Resolver) checklistFrom(prompts []string) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(prompts))
	for _, p := range prompts {
		items = append(items, ChecklistItem{ID: r.newID(), Label: p})
	}
	return items
}

// SetComponentQuantity stores qty for a component. Quantities at or below
// zero remove the component.
func (r *Resolver) SetComponentQuantity(s State, componentID string, qty int) State {
	next := s.Clone()
	if componentID == "" {
		return next
	}
	if qty <= 0 {
		delete(next.Components, componentID)
		return next
	}
	if next.Components == nil {
		next.Components = map[string]int{}
	}
	next.Components[componentID] = qty
	return next
}

func (r *Resolver) SetCustomer(s State, customerID string) State {
	next := s.Clone()
	next.CustomerID = customerID
	return next
}

// SetLabourRate stores the hourly rate; negative and non-finite rates become 0.
func (r *Resolver) SetLabourRate(s State, rate float64) State {
	next := s.Clone()
	next.LabourRate = nonNegative(rate)
	return next
}

func (r *Resolver) SetMeasurements(s State, m Measurements) State {
	next := s.Clone()
	m.Height = nonNegative(m.Height)
	m.Width = nonNegative(m.Width)
	m.Depth = nonNegative(m.Depth)
	next.Measurements = m
	return next
}

// SetAvailableHeadroom stores the measured headroom; nil clears it.
func (r *Resolver) SetAvailableHeadroom(s State, availableMm *float64) State {
	next := s.Clone()
	if availableMm == nil {
		next.Headroom.AvailableMm = nil
		return next
	}
	v := nonNegative(*availableMm)
	next.Headroom.AvailableMm = &v
	return next
}

// ToggleReduction selects or deselects a headroom reduction. Only reductions
// offered by the selected flue can be selected.
func (r *Resolver) ToggleReduction(s State, reductionID string, on bool) State {
	next := s.Clone()
	if on {
		f := r.cat.Flue(s.FlueID())
		if f == nil || f.Headroom.Reduction(reductionID) == nil {
			return next
		}
	}
	next.Headroom.ReductionIDsSelected = toggle(next.Headroom.ReductionIDsSelected, reductionID, on)
	return next
}

func (r *Resolver) ToggleGasOption(s State, optionID string, on bool) State {
	next := s.Clone()
	if on && r.cat.GasOption(optionID) == nil {
		return next
	}
	next.OptionIDs.Gas = toggle(next.OptionIDs.Gas, optionID, on)
	return next
}

func (r *Resolver) ToggleCondensateOption(s State, optionID string, on bool) State {
	next := s.Clone()
	if on && r.cat.CondensateOption(optionID) == nil {
		return next
	}
	next.OptionIDs.Condensate = toggle(next.OptionIDs.Condensate, optionID, on)
	return next
}

// UpdateChecklistItem sets done/notes on an item in the named checklist.
// Unknown lists or ids leave the state unchanged.
func (r *Resolver) UpdateChecklistItem(s State, list, itemID string, done bool, notes string) State {
	next := s.Clone()
	items := checklistByName(&next, list)
	if items == nil {
		return next
	}
	for i := range *items {
		if (*items)[i].ID == itemID {
			(*items)[i].Done = done
			(*items)[i].Notes = notes
			break
		}
	}
	return next
}

// AddChecklistItem appends a custom prompt to the named checklist.
func (r *Resolver) AddChecklistItem(s State, list, label string) State {
	next := s.Clone()
	label = strings.TrimSpace(label)
	items := checklistByName(&next, list)
	if items == nil || label == "" {
		return next
	}
	*items = append(*items, ChecklistItem{ID: r.newID(), Label: label})
	return next
}

func checklistByName(s *State, list string) *[]ChecklistItem {
	switch list {
	case ChecklistPhotos:
		return &s.Checklists.Photos
	case ChecklistObservations:
		return &s.Checklists.Observations
	}
	return nil
}

// AddExtra appends a hand-entered part or labour line. Blank labels are ignored.
func (r *Resolver) AddExtra(s State, label string, cost, hours float64) State {
	next := s.Clone()
	label = strings.TrimSpace(label)
	if label == "" {
		return next
	}
	next.Extras = append(next.Extras, Extra{
		ID:    r.newID(),
		Label: label,
		Cost:  nonNegative(cost),
		Hours: nonNegative(hours),
	})
	return next
}

func (r *Resolver) RemoveExtra(s State, extraID string) State {
	next := s.Clone()
	next.Extras = slices.DeleteFunc(next.Extras, func(e Extra) bool { return e.ID == extraID })
	return next
}

func (r *Resolver) SetLead(s State, lead string) State {
	next := s.Clone()
	next.Lead = strings.TrimSpace(lead)
	return next
}

func (r *Resolver) SetNeeds(s State, needs string) State {
	next := s.Clone()
	next.Needs = needs
	return next
}

func (r *Resolver) SetNotes(s State, notes Notes) State {
	next := s.Clone()
	next.Notes = Notes{Free: notes.Free, IncludeHeaders: notes.IncludeHeaders}
	for k, v := range notes.Sections {
		if next.Notes.Sections == nil {
			next.Notes.Sections = map[string][]string{}
		}
		next.Notes.Sections[k] = slices.Clone(v)
	}
	return next
}

func clearFlue(s State) State {
	s.FlueSelection = nil
	s.Headroom.ReductionIDsSelected = nil
	return s
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
