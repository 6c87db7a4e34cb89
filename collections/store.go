package collections

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"boilerquote/errs"
	"boilerquote/quote"
)

// QuoteSummary is the list view of a saved quote.
type QuoteSummary struct {
	ID         string    `json:"id"`
	Lead       string    `json:"lead"`
	CustomerID string    `json:"customerId"`
	BoilerID   string    `json:"boilerId"`
	LabourRate float64   `json:"labourRate"`
	Updated    time.Time `json:"updated"`
}

// Store keeps quote snapshots in the quotes collection, one record per quote.
type Store struct {
	app *pocketbase.PocketBase
}

func NewStore(app *pocketbase.PocketBase) *Store {
	return &Store{app: app}
}

// SaveSnapshot creates or overwrites the snapshot for quoteID.
func (s *Store) SaveSnapshot(ctx context.Context, quoteID string, st quote.State) error {
	raw, err := quote.Marshal(st)
	if err != nil {
		return err
	}

	record, err := s.find(quoteID)
	if err != nil {
		if !errs.Is(err, errs.CodeNotFound) {
			return err
		}
		col, err := s.app.FindCollectionByNameOrId(Quotes)
		if err != nil {
			return errs.Wrap(errs.CodePersistence, err, "find quotes collection")
		}
		record = core.NewRecord(col)
		record.Set("quote_id", quoteID)
	}

	record.Set("lead", st.Lead)
	record.Set("customer_id", st.CustomerID)
	record.Set("boiler_id", st.BoilerID)
	record.Set("labour_rate", st.LabourRate)
	record.Set("selection", types.JSONRaw(raw))

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return errs.Wrap(errs.CodePersistence, err, fmt.Sprintf("save quote %s", quoteID))
	}
	return nil
}

// LoadSnapshot returns the stored state for quoteID.
func (s *Store) LoadSnapshot(ctx context.Context, quoteID string) (quote.State, error) {
	if err := ctx.Err(); err != nil {
		return quote.State{}, err
	}
	record, err := s.find(quoteID)
	if err != nil {
		return quote.State{}, err
	}
	return quote.Unmarshal([]byte(record.GetString("selection")))
}

// DeleteSnapshot removes the stored quote. Deleting an unknown quote is a
// NOT_FOUND error.
func (s *Store) DeleteSnapshot(ctx context.Context, quoteID string) error {
	record, err := s.find(quoteID)
	if err != nil {
		return err
	}
	if err := s.app.DeleteWithContext(ctx, record); err != nil {
		return errs.Wrap(errs.CodePersistence, err, fmt.Sprintf("delete quote %s", quoteID))
	}
	return nil
}

// List returns every stored quote, most recently updated first.
func (s *Store) List(ctx context.Context) ([]QuoteSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.app.FindAllRecords(Quotes)
	if err != nil {
		return nil, errs.Wrap(errs.CodePersistence, err, "list quotes")
	}
	slices.SortStableFunc(records, func(a, b *core.Record) int {
		return b.GetDateTime("updated").Time().Compare(a.GetDateTime("updated").Time())
	})

	out := make([]QuoteSummary, 0, len(records))
	for _, r := range records {
		out = append(out, QuoteSummary{
			ID:         r.GetString("quote_id"),
			Lead:       r.GetString("lead"),
			CustomerID: r.GetString("customer_id"),
			BoilerID:   r.GetString("boiler_id"),
			LabourRate: r.GetFloat("labour_rate"),
			Updated:    r.GetDateTime("updated").Time(),
		})
	}
	return out, nil
}

func (s *Store) find(quoteID string) (*core.Record, error) {
	record, err := s.app.FindFirstRecordByFilter(Quotes, "quote_id = {:id}", map[string]any{"id": quoteID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.New(errs.CodeNotFound, fmt.Sprintf("quote %s not found", quoteID))
		}
		return nil, errs.Wrap(errs.CodePersistence, err, fmt.Sprintf("find quote %s", quoteID))
	}
	return record, nil
}

func sortNewestFirst(records []*core.Record) {
	slices.SortStableFunc(records, func(a, b *core.Record) int {
		if c := b.GetDateTime("created").Time().Compare(a.GetDateTime("created").Time()); c != 0 {
			return c
		}
		return cmp.Compare(b.Id, a.Id)
	})
}
