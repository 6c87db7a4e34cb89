package session

import (
	"context"
	"sync"
	"time"

	"boilerquote/errs"
	"boilerquote/logger"
	"boilerquote/quote"
)

// SnapshotStore saves quote snapshots on the device.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, quoteID string, s quote.State) error
}

// Persister debounces snapshot saves per quote. A burst of mutations results
// in one save of the latest state once the quote has been idle for the
// configured delay. Save failures are logged and otherwise ignored.
type Persister struct {
	store SnapshotStore
	delay time.Duration
	log   *logger.Logger

	mu      sync.Mutex
	pending map[string]*pendingSave

	// saveMu orders saves so an older state never overwrites a newer one.
	saveMu sync.Mutex
}

type pendingSave struct {
	state quote.State
	timer *time.Timer
}

func NewPersister(store SnapshotStore, delay time.Duration, log *logger.Logger) *Persister {
	if log == nil {
		log = logger.Nop()
	}
	if delay < 0 {
		delay = 0
	}
	return &Persister{
		store:   store,
		delay:   delay,
		log:     log,
		pending: map[string]*pendingSave{},
	}
}

// Schedule queues s to be saved for quoteID, replacing any state still
// waiting for the same quote and restarting its timer.
func (p *Persister) Schedule(quoteID string, s quote.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.pending[quoteID]; ok {
		prev.timer.Stop()
	}
	p.pending[quoteID] = &pendingSave{
		state: s.Clone(),
		timer: time.AfterFunc(p.delay, func() { p.save(context.Background(), quoteID) }),
	}
}

// Forget drops any unsaved state for quoteID.
func (p *Persister) Forget(quoteID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.pending[quoteID]; ok {
		prev.timer.Stop()
		delete(p.pending, quoteID)
	}
}

// Pending reports how many quotes have unsaved state.
func (p *Persister) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Flush saves everything still pending. It waits for a save already in
// flight before starting.
func (p *Persister) Flush(ctx context.Context) {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	ids := make([]string, 0, len(p.pending))
	for id, ps := range p.pending {
		ps.timer.Stop()
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		p.saveLocked(ctx, id)
	}
}

func (p *Persister) save(ctx context.Context, quoteID string) {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	p.saveLocked(ctx, quoteID)
}

// saveLocked must be called with saveMu held.
func (p *Persister) saveLocked(ctx context.Context, quoteID string) {
	p.mu.Lock()
	ps, ok := p.pending[quoteID]
	if ok {
		delete(p.pending, quoteID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	if err := p.store.SaveSnapshot(ctx, quoteID, ps.state); err != nil {
		ctx = p.log.WithQuoteID(ctx, quoteID)
		p.log.Error(ctx, "quote snapshot not saved; continuing in memory", errs.Wrap(errs.CodePersistence, err, "save snapshot"))
	}
}
