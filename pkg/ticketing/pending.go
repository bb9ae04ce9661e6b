package ticketing

import (
	"sync"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/google/uuid"
)

// pending holds short lived selections, such as a transfer target prompt, until they are used
// or expire.
type pending[T any] struct {
	clock clock.Clock
	ttl   time.Duration

	mu    sync.Mutex
	items map[string]*pendingItem[T]
}

type pendingItem[T any] struct {
	value T
	timer *clock.Timer
}

func newPending[T any](clk clock.Clock, ttl time.Duration) *pending[T] {
	return &pending[T]{
		clock: clk,
		ttl:   ttl,
		items: make(map[string]*pendingItem[T]),
	}
}

// put stores v and returns its session ID. The value is dropped when the TTL passes.
func (p *pending[T]) put(v T) string {
	id := uuid.NewString()
	item := &pendingItem[T]{value: v}

	p.mu.Lock()
	p.items[id] = item
	p.mu.Unlock()

	timer := p.clock.AfterFunc(p.ttl, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.items[id] == item {
			delete(p.items, id)
		}
	})

	p.mu.Lock()
	item.timer = timer
	p.mu.Unlock()
	return id
}

// take removes and returns the value of a session.
func (p *pending[T]) take(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	delete(p.items, id)
	item.timer.Stop()
	return item.value, true
}

// peek returns the value of a session without removing it.
func (p *pending[T]) peek(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return item.value, true
}

func (p *pending[T]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// stop drops every session.
func (p *pending[T]) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, item := range p.items {
		item.timer.Stop()
		delete(p.items, id)
	}
}
