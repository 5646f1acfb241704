// Package store keeps the items of a session in one pool and hands out
// handles to them.
//
// A Handle stays cheap to copy and never keeps an item alive on its own:
// after Clear every handle issued earlier resolves to "absent", so readers
// such as the header renderer never see items from a previous reload.
package store

import (
	"context"
	"sync"

	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/itemchan"
)

// Handle refers to one item of a Pool generation.
type Handle struct {
	index      int
	generation uint64
}

// Pool owns items. It is safe for concurrent use.
type Pool struct {
	mu         sync.RWMutex
	items      []*item.Item
	generation uint64
	reserve    int
	pending    int
	reserved   []Handle
	header     map[int]struct{} // indexes of reserved items
}

// New returns an empty pool.
func New() *Pool { return &Pool{header: make(map[int]struct{})} }

// Reserve makes the next n appended items header items, counting those
// already reserved. Items appended before the call stay regular items.
// Reserved items stay in the pool but are listed by Reserved instead of
// Items. Clear restores the reservation.
func (p *Pool) Reserve(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reserve = max(n, 0)
	p.pending = p.reserve - len(p.reserved)
	if p.pending < 0 {
		p.pending = 0
	}
}

// Append adds items and returns their handles.
func (p *Pool) Append(items ...*item.Item) []Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	handles := make([]Handle, len(items))
	for i, it := range items {
		h := Handle{index: len(p.items), generation: p.generation}
		p.items = append(p.items, it)
		if p.pending > 0 {
			p.pending--
			p.reserved = append(p.reserved, h)
			if p.header == nil {
				p.header = make(map[int]struct{})
			}
			p.header[h.index] = struct{}{}
		}
		handles[i] = h
	}
	return handles
}

// Get resolves h. It reports false for handles issued before the last
// Clear.
func (p *Pool) Get(h Handle) (*item.Item, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if h.generation != p.generation || h.index < 0 || h.index >= len(p.items) {
		return nil, false
	}
	return p.items[h.index], true
}

// Reserved returns the handles of the header items.
func (p *Pool) Reserved() []Handle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Handle(nil), p.reserved...)
}

// Items returns the items that are not reserved, in insertion order.
func (p *Pool) Items() []*item.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*item.Item, 0, len(p.items)-len(p.header))
	for i, it := range p.items {
		if _, ok := p.header[i]; ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Len returns the number of items including reserved ones.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Generation counts the calls to Clear.
func (p *Pool) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// Clear drops every item and invalidates all handles.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.reserved = nil
	clear(p.header)
	p.pending = p.reserve
	p.generation++
}

// Consume appends everything rx delivers until the stream ends or ctx is
// done. It returns the number of items appended.
func (p *Pool) Consume(ctx context.Context, rx *itemchan.Receiver) (int, error) {
	n := 0
	for {
		it, ok := rx.Recv(ctx)
		if !ok {
			return n, ctx.Err()
		}
		p.Append(it)
		n++
	}
}
