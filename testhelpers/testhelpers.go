// Package testhelpers provides utilities for testing the PocketBase host and
// the quote packages against a small, fixed price book.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"boilerquote/catalog"
	"boilerquote/collections"
	"boilerquote/quote"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}
	t.Cleanup(func() {
		_ = app.ResetBootstrapState()
	})

	if err := collections.Setup(app); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// NewSeededTestApp is NewTestApp with the bundled price book stored and active.
func NewSeededTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := NewTestApp(t)
	if err := collections.Seed(app, DefaultCatalog(t), collections.SourceBundled); err != nil {
		t.Fatalf("failed to seed price book: %v", err)
	}
	return app
}

// DefaultCatalog loads the bundled price book.
func DefaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load bundled price book: %v", err)
	}
	return cat
}

// SampleState builds a priced quote against the bundled price book: the first
// existing type, system, eligible boiler and flue, one gas and one condensate
// option and two of the first component.
func SampleState(t *testing.T, cat *catalog.Catalog, labourRate float64) quote.State {
	t.Helper()

	r := quote.NewResolver(cat)
	s := quote.New(labourRate)

	if types := cat.BoilerTypes(); len(types) > 0 {
		s = r.SetExistingType(s, types[0].ID)
	}
	if systems := cat.SystemOptions(); len(systems) > 0 {
		s = r.SetNewSystem(s, systems[0].ID)
	}
	boilers := cat.EligibleBoilers(s.NewSystemID)
	if len(boilers) == 0 {
		t.Fatalf("bundled price book has no eligible boiler for system %q", s.NewSystemID)
	}
	s = r.SetBoiler(s, boilers[0].ID)
	if flues := cat.EligibleFlues(s.BoilerID); len(flues) > 0 {
		s = r.SetFlue(s, flues[0].ID, "")
	}
	if opts := cat.GasOptions(); len(opts) > 0 {
		s = r.ToggleGasOption(s, opts[0].ID, true)
	}
	if opts := cat.CondensateOptions(); len(opts) > 0 {
		s = r.ToggleCondensateOption(s, opts[0].ID, true)
	}
	if comps := cat.Components(); len(comps) > 0 {
		s = r.SetComponentQuantity(s, comps[0].ID, 2)
	}
	if customers := cat.Customers(); len(customers) > 0 {
		s = r.SetCustomer(s, customers[0].ID)
	}
	s = r.SetLead(s, "LD-TEST")
	return s
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
