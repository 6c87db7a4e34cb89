package collections_test

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"boilerquote/collections"
	"boilerquote/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	collections.PriceBooks,
	collections.Quotes,
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	if err := collections.Setup(app); err != nil {
		t.Fatalf("second Setup() error: %v", err)
	}

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_PriceBooksFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.PriceBooks)

	for _, f := range []string{"version", "source", "document", "active", "created", "updated"} {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("price_books: missing field %q", f)
		}
	}

	sourceField := col.Fields.GetByName("source")
	if sf, ok := sourceField.(*core.SelectField); ok {
		expected := map[string]bool{
			collections.SourceBundled: true,
			collections.SourceFile:    true,
			collections.SourceImport:  true,
		}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected source value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing source value: %q", v)
		}
	} else {
		t.Errorf("source field is not a SelectField")
	}

	if _, ok := col.Fields.GetByName("document").(*core.JSONField); !ok {
		t.Errorf("document field is not a JSONField")
	}
}

func TestSetup_QuotesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.Quotes)

	for _, f := range []string{"quote_id", "lead", "customer_id", "boiler_id", "labour_rate", "selection", "created", "updated"} {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotes: missing field %q", f)
		}
	}
	if f, ok := col.Fields.GetByName("quote_id").(*core.TextField); !ok || !f.Required {
		t.Errorf("quotes.quote_id should be a required TextField")
	}
}
