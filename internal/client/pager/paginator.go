package pager

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads the page after lastID; nil means the first page.
type FetchFunc[T any] func(ctx context.Context, lastID *int) ([]T, error)

// Paginator walks a keyset-paginated listing.
type Paginator[T any] struct {
	fetch    FetchFunc[T]
	idOf     func(T) int
	pageSize int

	dmu      sync.Mutex
	debounce *Debouncer

	mu     sync.Mutex
	lastID *int
	done   bool
}

// New creates a Paginator. A page shorter than pageSize ends the listing.
func New[T any](pageSize int, fetch FetchFunc[T], idOf func(T) int) *Paginator[T] {
	return &Paginator[T]{
		fetch:    fetch,
		idOf:     idOf,
		pageSize: pageSize,
		debounce: NewDebouncer(DefaultDelay),
	}
}

// Next fetches the following page. Once Done, it returns nil without
// calling fetch.
func (p *Paginator[T]) Next(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return nil, nil
	}
	items, err := p.fetch(ctx, p.lastID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		id := p.idOf(items[len(items)-1])
		p.lastID = &id
	}
	if len(items) < p.pageSize {
		p.done = true
	}
	return items, nil
}

func (p *Paginator[T]) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Reset starts over from the first page and drops any pending LoadMore.
func (p *Paginator[T]) Reset() {
	p.debouncer().Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastID = nil
	p.done = false
}

// SetDelay changes the LoadMore debounce delay.
func (p *Paginator[T]) SetDelay(d time.Duration) {
	p.dmu.Lock()
	defer p.dmu.Unlock()
	p.debounce.Stop()
	p.debounce = NewDebouncer(d)
}

func (p *Paginator[T]) debouncer() *Debouncer {
	p.dmu.Lock()
	defer p.dmu.Unlock()
	return p.debounce
}

// LoadMore debounces a call to Next. onPage receives the items of a
// successful fetch; onErr receives failures.
func (p *Paginator[T]) LoadMore(ctx context.Context, onPage func([]T), onErr func(error)) {
	p.debouncer().Trigger(func() {
		items, err := p.Next(ctx)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		if onPage != nil {
			onPage(items)
		}
	})
}
