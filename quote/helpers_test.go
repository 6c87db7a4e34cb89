package quote

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"boilerquote/catalog"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func reload(t *testing.T, doc catalog.Document) *catalog.Catalog {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	c, err := catalog.Load(raw)
	require.NoError(t, err)
	return c
}

// newTestResolver returns a resolver that mints ids "id-1", "id-2", ...
func newTestResolver(cat *catalog.Catalog) *Resolver {
	r := NewResolver(cat)
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return r
}

func ptr(v float64) *float64 {
	return &v
}

// fullState selects something in every part of the bundled price book.
func fullState(r *Resolver) State {
	s := New(65)
	s = r.SetCustomer(s, "cust-hartley")
	s = r.SetExistingType(s, "current_regular")
	s = r.SetNewSystem(s, "new_combi")
	s = r.SetBoiler(s, "wb-4000-30c")
	s = r.SetFlue(s, "flue-horizontal", "plume-kit")
	s = r.ToggleReduction(s, "red-plume", true)
	s = r.ToggleGasOption(s, "gas-upsize-22", true)
	s = r.ToggleCondensateOption(s, "cond-external", true)
	s = r.SetComponentQuantity(s, "comp-trv", 3)
	s = r.SetComponentQuantity(s, "comp-filter", 1)
	s = r.AddExtra(s, "Scaffold tower", 150, 0)
	s = r.SetMeasurements(s, Measurements{Height: 800, Width: 450, Depth: 320, Notes: "airing cupboard"})
	s = r.SetAvailableHeadroom(s, ptr(200))
	s = r.SetLead(s, "LD-2291")
	s = r.SetNeeds(s, "Quiet boiler, more hot water")
	s = r.SetNotes(s, Notes{
		Sections:       map[string][]string{catalog.SnippetBoiler: {"Replace boiler like-for-like in same location"}},
		Free:           "Dog on site",
		IncludeHeaders: true,
	})
	return s
}
