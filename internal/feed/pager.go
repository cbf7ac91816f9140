// Package feed owns the accumulated, filterable event list shown in the
// table view: cursor pagination composed with the fixed filter set, plus the
// local reconciliation applied after writes.
package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
)

var ErrFetchInFlight = errors.New("a fetch is already in flight")

// Fetcher is the one slice of the data access layer the pager needs.
type Fetcher interface {
	ListPaginated(ctx context.Context, filter repositories.EventFilter, pageSize int, cursor string) (*repositories.EventPage, error)
}

// Pager is the pagination/filter controller. It exclusively owns the
// accumulated items, the cursor and the has-more flag; every transition is
// funneled through its mutex so the list is never a mix of two filter
// regimes. Fetches run outside the lock; a generation counter discards the
// result of any fetch superseded by a filter change while it was in flight.
type Pager struct {
	fetcher  Fetcher
	pageSize int
	timeout  time.Duration

	mu      sync.Mutex
	filter  repositories.EventFilter
	cursor  string
	items   []*models.Event
	hasMore bool
	loading bool
	gen     uint64
	lastErr error
}

func NewPager(fetcher Fetcher, pageSize int, timeout time.Duration) *Pager {
	return &Pager{
		fetcher:  fetcher,
		pageSize: pageSize,
		timeout:  timeout,
		hasMore:  true,
	}
}

// Snapshot is the view-facing read model of the pager's state.
type Snapshot struct {
	Items   []*models.Event
	HasMore bool
	Filter  repositories.EventFilter
	Err     error
}

func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]*models.Event, len(p.items))
	copy(items, p.items)
	return Snapshot{Items: items, HasMore: p.hasMore, Filter: p.filter, Err: p.lastErr}
}

// SetFilters replaces the active filters and refetches from the beginning.
// A fetch still in flight for the previous filter regime is superseded: its
// result is discarded when it lands. Setting the same filters is a no-op.
func (p *Pager) SetFilters(ctx context.Context, filter repositories.EventFilter) error {
	p.mu.Lock()
	if filter == p.filter {
		p.mu.Unlock()
		return nil
	}
	p.filter = filter
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// Refresh resets cursor, items and has-more, then fetches the first page
// under the current filters.
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	filter := p.filter
	p.cursor = ""
	p.items = nil
	p.hasMore = true
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, filter, "")

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		// Superseded while in flight; a newer transition owns the state now.
		return nil
	}
	p.loading = false
	if err != nil {
		p.lastErr = err
		return err
	}
	p.lastErr = nil
	p.items = page.Events
	p.cursor = page.NextCursor
	p.hasMore = page.HasMore
	return nil
}

// LoadMore fetches the next page and appends it. It never replaces already
// accumulated items. No-op when the listing is exhausted; concurrent calls
// are rejected rather than queued.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	if p.loading {
		p.mu.Unlock()
		return ErrFetchInFlight
	}
	p.loading = true
	gen := p.gen
	filter := p.filter
	cursor := p.cursor
	p.mu.Unlock()

	page, err := p.fetch(ctx, filter, cursor)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return nil
	}
	p.loading = false
	if err != nil {
		p.lastErr = err
		return err
	}
	p.lastErr = nil
	p.items = append(p.items, page.Events...)
	if page.NextCursor != "" {
		p.cursor = page.NextCursor
	}
	p.hasMore = page.HasMore
	return nil
}

func (p *Pager) fetch(ctx context.Context, filter repositories.EventFilter, cursor string) (*repositories.EventPage, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.fetcher.ListPaginated(ctx, filter, p.pageSize, cursor)
}
