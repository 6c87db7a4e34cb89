package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Collection names.
const (
	PriceBooks = "price_books"
	Quotes     = "quotes"
)

// Price book sources.
const (
	SourceBundled = "bundled"
	SourceFile    = "file"
	SourceImport  = "import"
)

// Snapshots and price books are whole JSON documents.
const maxDocumentSize = 8 << 20

// Setup creates the price_books and quotes collections when missing.
func Setup(app *pocketbase.PocketBase) error {
	if _, err := ensureCollection(app, PriceBooks, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "version", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "source",
			Required:  true,
			Values:    []string{SourceBundled, SourceFile, SourceImport},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "document", Required: true, MaxSize: maxDocumentSize})
		c.Fields.Add(&core.BoolField{Name: "active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_price_books_version", true, "version", "")
	}); err != nil {
		return err
	}

	if _, err := ensureCollection(app, Quotes, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "lead"})
		c.Fields.Add(&core.TextField{Name: "customer_id"})
		c.Fields.Add(&core.TextField{Name: "boiler_id"})
		c.Fields.Add(&core.NumberField{Name: "labour_rate"})
		c.Fields.Add(&core.JSONField{Name: "selection", Required: true, MaxSize: maxDocumentSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_quote_id", true, "quote_id", "")
	}); err != nil {
		return err
	}

	return nil
}

// ensureCollection returns the named collection, creating it with the fields
// added by addFields when it does not exist yet.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	log.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection, nil
}
