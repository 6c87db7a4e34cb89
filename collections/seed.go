package collections

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"boilerquote/catalog"
	"boilerquote/errs"
)

const unversioned = "unversioned"

// Seed stores cat in price_books under its version and makes it the active
// price book. Seeding the same version twice updates the stored document.
func Seed(app *pocketbase.PocketBase, cat *catalog.Catalog, source string) error {
	col, err := app.FindCollectionByNameOrId(PriceBooks)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	version := cat.Version()
	if version == "" {
		version = unversioned
	}
	doc, err := json.Marshal(cat.Document())
	if err != nil {
		return fmt.Errorf("seed: encode price book %s: %w", version, err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindFirstRecordByFilter(col, "version = {:version}", map[string]any{"version": version})
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("seed: find price book %s: %w", version, err)
			}
			record = core.NewRecord(col)
			record.Set("version", version)
			log.Printf("seed: storing price book %s (%s)", version, source)
		}
		record.Set("source", source)
		record.Set("document", types.JSONRaw(doc))
		record.Set("active", true)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("seed: save price book %s: %w", version, err)
		}

		others, err := txApp.FindRecordsByFilter(col, "active = true && id != {:id}", "", 0, 0, map[string]any{"id": record.Id})
		if err != nil {
			return fmt.Errorf("seed: find active price books: %w", err)
		}
		for _, other := range others {
			other.Set("active", false)
			if err := txApp.Save(other); err != nil {
				return fmt.Errorf("seed: deactivate price book %s: %w", other.GetString("version"), err)
			}
		}
		return nil
	})
}

// ActiveCatalog loads the active price book. Any failure, including there
// being no active price book, carries errs.CodeCatalogLoad.
func ActiveCatalog(ctx context.Context, app *pocketbase.PocketBase) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.CodeCatalogLoad, err, "load price book")
	}
	record, err := app.FindFirstRecordByFilter(PriceBooks, "active = true")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.New(errs.CodeCatalogLoad, "no active price book")
		}
		return nil, errs.Wrap(errs.CodeCatalogLoad, err, "find active price book")
	}

	var raw json.RawMessage
	if err := record.UnmarshalJSONField("document", &raw); err != nil {
		return nil, errs.Wrap(errs.CodeCatalogLoad, err, "decode stored price book")
	}
	return catalog.Load(raw)
}

// PriceBookVersions lists stored price book versions, newest first.
func PriceBookVersions(app *pocketbase.PocketBase) ([]string, error) {
	records, err := app.FindAllRecords(PriceBooks)
	if err != nil {
		return nil, fmt.Errorf("list price books: %w", err)
	}
	sortNewestFirst(records)
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.GetString("version"))
	}
	return out, nil
}
