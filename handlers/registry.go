package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"boilerquote/catalog"
	"boilerquote/collections"
	"boilerquote/errs"
	"boilerquote/logger"
	"boilerquote/quote"
	"boilerquote/session"
)

// QuoteStore is the on-device storage behind the registry.
type QuoteStore interface {
	session.SnapshotStore
	LoadSnapshot(ctx context.Context, quoteID string) (quote.State, error)
	DeleteSnapshot(ctx context.Context, quoteID string) error
	List(ctx context.Context) ([]collections.QuoteSummary, error)
}

type RegistryOptions struct {
	LabourRate  float64
	CompanyName string
	Persister   *session.Persister
	Logger      *logger.Logger
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Registry owns the open quote sessions. Sessions are opened lazily from the
// store and stay in memory until deleted.
type Registry struct {
	cat   *catalog.Catalog
	store QuoteStore
	opts  RegistryOptions

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewRegistry(cat *catalog.Catalog, store QuoteStore, opts RegistryOptions) *Registry {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Registry{
		cat:      cat,
		store:    store,
		opts:     opts,
		sessions: map[string]*session.Session{},
	}
}

func (r *Registry) Catalog() *catalog.Catalog {
	return r.cat
}

func (r *Registry) CompanyName() string {
	return r.opts.CompanyName
}

func (r *Registry) Now() time.Time {
	return r.opts.Now()
}

func (r *Registry) Logger() *logger.Logger {
	return r.opts.Logger
}

// Create starts an empty quote at the default labour rate.
func (r *Registry) Create(ctx context.Context) (*session.Session, error) {
	return r.create(ctx, quote.New(r.opts.LabourRate))
}

// CreateFrom starts a quote from an imported snapshot document, merged over
// an empty quote.
func (r *Registry) CreateFrom(ctx context.Context, raw []byte) (*session.Session, error) {
	st, err := quote.Merge(quote.New(r.opts.LabourRate), raw)
	if err != nil {
		return nil, err
	}
	return r.create(ctx, st)
}

func (r *Registry) create(ctx context.Context, st quote.State) (*session.Session, error) {
	if r.cat == nil {
		return nil, errs.New(errs.CodeCatalogLoad, "no price book loaded")
	}
	sess := session.New(r.cat, r.sessionOptions(r.opts.NewID(), &st))

	r.mu.Lock()
	r.sessions[sess.ID()] = sess
	r.mu.Unlock()

	// Save the new quote so it is listed even before its first edit.
	sess.Replace(ctx, st)
	r.opts.Logger.Info(r.opts.Logger.WithQuoteID(ctx, sess.ID()), "quote created")
	return sess, nil
}

// Get returns the open session for id, restoring it from the store when it
// is not in memory.
func (r *Registry) Get(ctx context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[id]; ok {
		return sess, nil
	}
	if r.cat == nil {
		return nil, errs.New(errs.CodeCatalogLoad, "no price book loaded")
	}
	if r.store == nil {
		return nil, errs.New(errs.CodeNotFound, "quote "+id+" not found")
	}
	st, err := r.store.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := session.New(r.cat, r.sessionOptions(id, &st))
	r.sessions[id] = sess
	return sess, nil
}

// Delete closes the session and removes its snapshot.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	_, open := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.opts.Persister != nil {
		r.opts.Persister.Forget(id)
	}
	if r.store == nil {
		if !open {
			return errs.New(errs.CodeNotFound, "quote "+id+" not found")
		}
		return nil
	}
	err := r.store.DeleteSnapshot(ctx, id)
	if err != nil && open && errs.Is(err, errs.CodeNotFound) {
		// Never saved.
		return nil
	}
	return err
}

// List flushes pending saves and lists every stored quote.
func (r *Registry) List(ctx context.Context) ([]collections.QuoteSummary, error) {
	if r.opts.Persister != nil {
		r.opts.Persister.Flush(ctx)
	}
	if r.store == nil {
		return []collections.QuoteSummary{}, nil
	}
	return r.store.List(ctx)
}

func (r *Registry) sessionOptions(id string, initial *quote.State) session.Options {
	return session.Options{
		ID:         id,
		LabourRate: r.opts.LabourRate,
		Initial:    initial,
		Persister:  r.opts.Persister,
		Logger:     r.opts.Logger,
	}
}
