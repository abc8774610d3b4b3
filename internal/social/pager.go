package social

import (
	"context"
	"sync"
)

// FetchPage retrieves one page of items from the remote API.
type FetchPage[T any] func(ctx context.Context, page int) ([]T, error)

// PageResult is the controller's view of the list after a load settles.
type PageResult[T any] struct {
	Items      []T
	IsLastPage bool
}

// Pager manages cursor state for a list screen. Page 1 replaces the list
// (initial load and refresh share the path); later pages append with
// de-duplication by key, guarding against overlap when the server cursor and
// the client page counter drift. A short page marks the list exhausted.
type Pager[T any] struct {
	fetch    FetchPage[T]
	key      func(T) string
	pageSize int

	mu        sync.Mutex
	items     []T
	seen      map[string]struct{}
	page      int
	exhausted bool
	gen       int
}

// DefaultPageSize matches the server's full page for feed endpoints.
const DefaultPageSize = 20

// NewPager builds a controller over fetch, identifying items by key.
func NewPager[T any](fetch FetchPage[T], key func(T) string, pageSize int) *Pager[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager[T]{
		fetch:    fetch,
		key:      key,
		pageSize: pageSize,
		seen:     make(map[string]struct{}),
	}
}

// LoadPage loads the given page. Page 1 always replaces the current list and
// supersedes any load-more still in flight; pages past the observed end are
// a no-op returning the cached list unchanged.
func (p *Pager[T]) LoadPage(ctx context.Context, page int) (PageResult[T], error) {
	if page <= 1 {
		return p.refresh(ctx)
	}
	return p.loadMore(ctx, page)
}

// Refresh reloads page 1.
func (p *Pager[T]) Refresh(ctx context.Context) (PageResult[T], error) {
	return p.refresh(ctx)
}

// LoadMore loads the page after the last one applied.
func (p *Pager[T]) LoadMore(ctx context.Context) (PageResult[T], error) {
	p.mu.Lock()
	next := p.page + 1
	p.mu.Unlock()
	return p.loadMore(ctx, next)
}

func (p *Pager[T]) refresh(ctx context.Context) (PageResult[T], error) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	fetched, err := p.fetch(ctx, 1)
	if err != nil {
		return p.snapshot(), err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// A newer refresh started while this one was in flight; its result
		// wins for page 1.
		return p.snapshotLocked(), nil
	}
	p.items = nil
	p.seen = make(map[string]struct{})
	for _, item := range fetched {
		k := p.key(item)
		if _, dup := p.seen[k]; dup {
			continue
		}
		p.seen[k] = struct{}{}
		p.items = append(p.items, item)
	}
	p.page = 1
	p.exhausted = len(fetched) < p.pageSize
	return p.snapshotLocked(), nil
}

func (p *Pager[T]) loadMore(ctx context.Context, page int) (PageResult[T], error) {
	p.mu.Lock()
	if p.exhausted {
		defer p.mu.Unlock()
		return p.snapshotLocked(), nil
	}
	gen := p.gen
	p.mu.Unlock()

	fetched, err := p.fetch(ctx, page)
	if err != nil {
		return p.snapshot(), err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// A full reload supersedes incremental growth; drop this page.
		return p.snapshotLocked(), nil
	}
	for _, item := range fetched {
		k := p.key(item)
		if _, dup := p.seen[k]; dup {
			continue
		}
		p.seen[k] = struct{}{}
		p.items = append(p.items, item)
	}
	if page > p.page {
		p.page = page
	}
	if len(fetched) < p.pageSize {
		p.exhausted = true
	}
	return p.snapshotLocked(), nil
}

// Items returns a copy of the current list.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneItems(p.items)
}

// Exhausted reports whether a short page has been observed.
func (p *Pager[T]) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exhausted
}

// Page reports the highest page applied so far; zero before the first load.
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Pager[T]) snapshot() PageResult[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pager[T]) snapshotLocked() PageResult[T] {
	return PageResult[T]{Items: cloneItems(p.items), IsLastPage: p.exhausted}
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
