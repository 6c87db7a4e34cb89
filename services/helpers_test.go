package services

import (
	"bytes"
	"testing"
	"time"

	"boilerquote/catalog"
	"boilerquote/quote"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	return c
}

// sampleState is a combi conversion with a flue, options, components and an extra.
func sampleState(cat *catalog.Catalog) quote.State {
	r := quote.NewResolver(cat)
	s := quote.New(65)
	s = r.SetCustomer(s, "cust-hartley")
	s = r.SetLead(s, "LD-2291")
	s = r.SetNeeds(s, "Quiet boiler")
	s = r.SetExistingType(s, "current_regular")
	s = r.SetNewSystem(s, "new_combi")
	s = r.SetBoiler(s, "wb-4000-30c")
	s = r.SetFlue(s, "flue-horizontal", "plume-kit")
	s = r.ToggleReduction(s, "red-plume", true)
	avail := 150.0
	s = r.SetAvailableHeadroom(s, &avail)
	s = r.SetMeasurements(s, quote.Measurements{Height: 800, Width: 450, Depth: 320})
	s = r.ToggleGasOption(s, "gas-upsize-22", true)
	s = r.ToggleCondensateOption(s, "cond-external", true)
	s = r.SetComponentQuantity(s, "comp-trv", 3)
	s = r.AddExtra(s, "=Scaffold tower", 150, 0)
	s = r.SetNotes(s, quote.Notes{
		Sections:       map[string][]string{catalog.SnippetBoiler: {"Replace boiler like-for-like in same location"}},
		Free:           "Dog on site",
		IncludeHeaders: true,
	})
	return s
}

func sampleExport(t *testing.T) (*catalog.Catalog, quote.Export) {
	t.Helper()
	cat := testCatalog(t)
	exp := quote.BuildExport(cat, sampleState(cat), time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC))
	return cat, exp
}

func sampleData(t *testing.T) ExportData {
	t.Helper()
	cat, exp := sampleExport(t)
	return NewExportData(cat, exp, "Northern Heating Ltd", "Q-0001")
}
