// Package session owns one in-progress quote: its catalog, its selection
// state and the persistence of that state. Mutations are applied one at a
// time; readers get deep copies.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"boilerquote/catalog"
	"boilerquote/errs"
	"boilerquote/logger"
	"boilerquote/quote"
)

// Loader fetches the price book once at session start.
type Loader func(ctx context.Context) (*catalog.Catalog, error)

type Options struct {
	ID         string
	LabourRate float64
	// Initial restores a saved snapshot instead of starting empty.
	Initial   *quote.State
	Persister *Persister
	Logger    *logger.Logger
}

type Session struct {
	id        string
	cat       *catalog.Catalog
	resolver  *quote.Resolver
	persister *Persister
	log       *logger.Logger

	mu       sync.Mutex
	state    quote.State
	warnings []quote.Warning
}

// Open loads the catalog and starts a session. A failed load is terminal: no
// session is returned and the error carries errs.CodeCatalogLoad.
func Open(ctx context.Context, load Loader, opts Options) (*Session, error) {
	cat, err := load(ctx)
	if err != nil {
		if errs.Is(err, errs.CodeCatalogLoad) {
			return nil, err
		}
		return nil, errs.Wrap(errs.CodeCatalogLoad, err, "load price book")
	}
	if cat == nil {
		return nil, errs.New(errs.CodeCatalogLoad, "price book loader returned nothing")
	}
	return New(cat, opts), nil
}

// New starts a session over an already loaded catalog.
func New(cat *catalog.Catalog, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	state := quote.New(opts.LabourRate)
	if opts.Initial != nil {
		state = opts.Initial.Clone()
	}
	s := &Session{
		id:        opts.ID,
		cat:       cat,
		resolver:  quote.NewResolver(cat),
		persister: opts.Persister,
		log:       log,
		state:     state,
	}
	s.reportWarnings(context.Background(), state)
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() quote.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Mutation is one resolver operation bound to its arguments.
type Mutation func(r *quote.Resolver, st quote.State) quote.State

// Apply runs m against the current state, stores the result and schedules a
// save. It returns a copy of the new state.
func (s *Session) Apply(ctx context.Context, m Mutation) quote.State {
	s.mu.Lock()
	s.state = m(s.resolver, s.state)
	next := s.state.Clone()
	s.mu.Unlock()

	s.reportWarnings(ctx, next)
	s.persist(next)
	return next
}

// Replace swaps in a whole state, as for an import or a reset.
func (s *Session) Replace(ctx context.Context, st quote.State) quote.State {
	return s.Apply(ctx, func(*quote.Resolver, quote.State) quote.State { return st.Clone() })
}

// Reset clears the quote back to an empty state at the given labour rate.
func (s *Session) Reset(ctx context.Context, labourRate float64) quote.State {
	return s.Replace(ctx, quote.New(labourRate))
}

// Import merges a snapshot document over the current state.
func (s *Session) Import(ctx context.Context, raw []byte) (quote.State, error) {
	var mergeErr error
	next := s.Apply(ctx, func(_ *quote.Resolver, st quote.State) quote.State {
		merged, err := quote.Merge(st, raw)
		if err != nil {
			mergeErr = err
			return st
		}
		return merged
	})
	return next, mergeErr
}

// Pricing is the derived view of a state.
type Pricing struct {
	Lines    []quote.Line    `json:"lines"`
	Totals   quote.Totals    `json:"totals"`
	Warnings []quote.Warning `json:"warnings"`
}

func (s *Session) Pricing() Pricing {
	st := s.Snapshot()
	lines, totals := quote.Price(s.cat, st)
	return Pricing{Lines: lines, Totals: totals, Warnings: quote.UnresolvedReferences(s.cat, st)}
}

type Checks struct {
	Clearance quote.CheckResult `json:"clearance"`
	Headroom  quote.CheckResult `json:"headroom"`
}

func (s *Session) Checks() Checks {
	st := s.Snapshot()
	return Checks{
		Clearance: quote.CheckClearance(s.cat, st),
		Headroom:  quote.CheckHeadroom(s.cat, st),
	}
}

// Export prices a snapshot taken now; later mutations are not observed.
func (s *Session) Export(now time.Time) quote.Export {
	return quote.BuildExport(s.cat, s.Snapshot(), now)
}

func (s *Session) persist(st quote.State) {
	if s.persister == nil || s.id == "" {
		return
	}
	s.persister.Schedule(s.id, st)
}

// reportWarnings logs unresolved references when the set changes.
func (s *Session) reportWarnings(ctx context.Context, st quote.State) {
	warnings := quote.UnresolvedReferences(s.cat, st)

	s.mu.Lock()
	changed := !slices.Equal(warnings, s.warnings)
	s.warnings = warnings
	s.mu.Unlock()
	if !changed {
		return
	}

	ctx = s.log.WithQuoteID(ctx, s.id)
	for _, w := range warnings {
		wctx := s.log.WithFields(ctx, map[string]any{
			"code":       string(errs.CodeUnresolvedReference),
			"field":      w.Field,
			"collection": w.Collection,
			"ref_id":     w.ID,
		})
		s.log.Warn(wctx, "selection refers to an item missing from the price book")
	}
}
