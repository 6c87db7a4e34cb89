package quote

import (
	"fmt"
	"slices"

	"boilerquote/catalog"
)

// Warning reports a selection that points at an id missing from the
// catalog. The reference is treated as absent; it never stops pricing.
type Warning struct {
	Field      string `json:"field"`
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s %q not in price book", w.Field, w.Collection, w.ID)
}

// UnresolvedReferences lists every non-empty id in s that cat cannot resolve.
func UnresolvedReferences(cat *catalog.Catalog, s State) []Warning {
	var out []Warning
	check := func(field, collection, id string) {
		if id != "" && cat.ByID(collection, id) == nil {
			out = append(out, Warning{Field: field, Collection: collection, ID: id})
		}
	}

	check("customerId", catalog.CollectionCustomers, s.CustomerID)
	check("existingTypeId", catalog.CollectionBoilerTypes, s.ExistingTypeID)
	check("basePackId", catalog.CollectionPacks, s.BasePackID)
	check("newSystemId", catalog.CollectionSystemOptions, s.NewSystemID)
	check("conversionPackId", catalog.CollectionPacks, s.ConversionPackID)
	check("boilerId", catalog.CollectionBoilers, s.BoilerID)
	if s.FlueSelection != nil {
		check("flueSelection.flueId", catalog.CollectionFlues, s.FlueSelection.FlueID)
		if f := cat.Flue(s.FlueSelection.FlueID); f != nil && s.FlueSelection.VariantID != "" && f.Variant(s.FlueSelection.VariantID) == nil {
			out = append(out, Warning{Field: "flueSelection.variantId", Collection: catalog.CollectionFlues, ID: s.FlueSelection.VariantID})
		}
	}
	for _, id := range s.OptionIDs.Gas {
		check("optionIds.gas", catalog.CollectionGasOptions, id)
	}
	for _, id := range s.OptionIDs.Condensate {
		check("optionIds.condensate", catalog.CollectionCondensateOptions, id)
	}

	ids := make([]string, 0, len(s.Components))
	for id := range s.Components {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		check("components", catalog.CollectionComponents, id)
	}
	return out
}
