// Package catalog holds the read-only price book a quote is built from:
// customers, boiler archetypes, work packs, boilers, flues, options and
// free add-on components.
package catalog

import "slices"

// Collection names accepted by ByID.
const (
	CollectionCustomers         = "customers"
	CollectionBoilerTypes       = "boilerTypes"
	CollectionPacks             = "packs"
	CollectionSystemOptions     = "systemOptions"
	CollectionBoilers           = "boilers"
	CollectionFlues             = "flues"
	CollectionGasOptions        = "gasOptions"
	CollectionCondensateOptions = "condensateOptions"
	CollectionComponents        = "components"
)

// Snippet categories used by the notes builder.
const (
	SnippetBoiler     = "boiler"
	SnippetFlue       = "flue"
	SnippetPipework   = "pipework"
	SnippetCylinder   = "cylinder"
	SnippetControls   = "controls"
	SnippetAdditional = "additional"
	SnippetNotes      = "notes"
)

type Customer struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	AccountRef string `json:"accountRef"`
	Address    string `json:"address"`
	Contact    string `json:"contact"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
}

// BoilerType is an archetype of the system being taken out.
type BoilerType struct {
	ID                        string   `json:"id" validate:"required"`
	Name                      string   `json:"name" validate:"required"`
	BasePackID                string   `json:"basePackId"`
	DefaultPhotoPrompts       []string `json:"defaultPhotoPrompts"`
	DefaultObservationPrompts []string `json:"defaultObservationPrompts"`
}

type PackPart struct {
	Name  string  `json:"name" validate:"required"`
	Cost  float64 `json:"cost" validate:"gte=0"`
	Hours float64 `json:"hours" validate:"gte=0"`
}

// Pack is a named bundle of parts and labour representing a standard scope of work.
type Pack struct {
	ID      string     `json:"id" validate:"required"`
	Name    string     `json:"name" validate:"required"`
	Summary string     `json:"summary"`
	Hours   float64    `json:"hours" validate:"gte=0"`
	Parts   []PackPart `json:"parts" validate:"dive"`
}

// Cost is the sum of the pack's part costs.
func (p Pack) Cost() float64 {
	var sum float64
	for _, part := range p.Parts {
		sum += part.Cost
	}
	return sum
}

// TotalHours is the pack's own labour plus the labour attached to its parts.
func (p Pack) TotalHours() float64 {
	sum := p.Hours
	for _, part := range p.Parts {
		sum += part.Hours
	}
	return sum
}

// SystemOption is a proposed system archetype. BoilerType, when set,
// restricts which boilers may be fitted.
type SystemOption struct {
	ID               string `json:"id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	BoilerType       string `json:"boilerType"`
	ConversionPackID string `json:"conversionPackId"`
}

// Dimensions are millimetres. Zero means "not specified".
type Dimensions struct {
	Height float64 `json:"height" validate:"gte=0"`
	Width  float64 `json:"width" validate:"gte=0"`
	Depth  float64 `json:"depth" validate:"gte=0"`
}

type Clearance struct {
	Top    float64 `json:"top" validate:"gte=0"`
	Bottom float64 `json:"bottom" validate:"gte=0"`
	Left   float64 `json:"left" validate:"gte=0"`
	Right  float64 `json:"right" validate:"gte=0"`
	Front  float64 `json:"front" validate:"gte=0"`
}

type Boiler struct {
	ID                string     `json:"id" validate:"required"`
	Name              string     `json:"name" validate:"required"`
	Type              string     `json:"type"`
	Output            float64    `json:"output" validate:"gte=0"`
	Cost              float64    `json:"cost" validate:"gte=0"`
	Hours             float64    `json:"hours" validate:"gte=0"`
	Case              Dimensions `json:"case"`
	MinSpace          Dimensions `json:"minSpace"`
	RequiredClearance Clearance  `json:"requiredClearance"`
	FlueIDs           []string   `json:"flueIds"`
}

// AcceptsFlue reports whether flueID is listed in the boiler's flueIds.
func (b Boiler) AcceptsFlue(flueID string) bool {
	return slices.Contains(b.FlueIDs, flueID)
}

type HeadroomReduction struct {
	ID    string  `json:"id" validate:"required"`
	Label string  `json:"label"`
	Value float64 `json:"value" validate:"gte=0"`
}

type Headroom struct {
	Base       float64             `json:"base" validate:"gte=0"`
	Reductions []HeadroomReduction `json:"reductions" validate:"dive"`
}

// Reduction returns the reduction with the given id, or nil.
func (h Headroom) Reduction(id string) *HeadroomReduction {
	for i := range h.Reductions {
		if h.Reductions[i].ID == id {
			r := h.Reductions[i]
			return &r
		}
	}
	return nil
}

type FlueVariant struct {
	ID    string  `json:"id" validate:"required"`
	Label string  `json:"label"`
	Cost  float64 `json:"cost" validate:"gte=0"`
	Hours float64 `json:"hours" validate:"gte=0"`
}

type Flue struct {
	ID                  string        `json:"id" validate:"required"`
	Name                string        `json:"name" validate:"required"`
	Type                string        `json:"type"`
	Cost                float64       `json:"cost" validate:"gte=0"`
	Hours               float64       `json:"hours" validate:"gte=0"`
	CompatibleBoilerIDs []string      `json:"compatibleBoilerIds"`
	HeatZones           []string      `json:"heatZones"`
	Headroom            Headroom      `json:"headroom"`
	Variants            []FlueVariant `json:"variants" validate:"dive"`
}

// Variant returns the variant with the given id, or nil.
func (f Flue) Variant(id string) *FlueVariant {
	for i := range f.Variants {
		if f.Variants[i].ID == id {
			v := f.Variants[i]
			return &v
		}
	}
	return nil
}

// DefaultVariantID is the first variant's id, or "" when the flue has none.
func (f Flue) DefaultVariantID() string {
	if len(f.Variants) == 0 {
		return ""
	}
	return f.Variants[0].ID
}

// Option is a priced gas-works or condensate choice.
type Option struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Hours       float64 `json:"hours" validate:"gte=0"`
	Description string  `json:"description"`
}

// Component is a quantity-selectable add-on.
type Component struct {
	ID       string  `json:"id" validate:"required"`
	Category string  `json:"category"`
	Name     string  `json:"name" validate:"required"`
	Cost     float64 `json:"cost" validate:"gte=0"`
	Hours    float64 `json:"hours" validate:"gte=0"`
}

// Document is the on-disk price book. Absent collections decode as empty.
type Document struct {
	Version           string              `json:"version"`
	Customers         []Customer          `json:"customers" validate:"dive"`
	BoilerTypes       []BoilerType        `json:"boilerTypes" validate:"dive"`
	Packs             []Pack              `json:"packs" validate:"dive"`
	SystemOptions     []SystemOption      `json:"systemOptions" validate:"dive"`
	Boilers           []Boiler            `json:"boilers" validate:"dive"`
	Flues             []Flue              `json:"flues" validate:"dive"`
	GasOptions        []Option            `json:"gasOptions" validate:"dive"`
	CondensateOptions []Option            `json:"condensateOptions" validate:"dive"`
	Components        []Component         `json:"components" validate:"dive"`
	Snippets          map[string][]string `json:"snippets"`
}
