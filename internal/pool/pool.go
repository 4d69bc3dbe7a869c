// Package pool provides concurrency-safe rotating selection over fixed item
// lists. Wallets, RPC endpoints and spam strategies all rotate through the
// same pool type; they differ only in element type.
package pool

import (
	"errors"
	"math/rand/v2"
	"sync"
)

var (
	// ErrEmpty is returned when selecting from a pool with no items loaded.
	ErrEmpty = errors.New("pool is empty")
	// ErrUnknownMode is returned for a selection mode outside the known set.
	ErrUnknownMode = errors.New("unknown selection mode")
)

// Mode determines how an item is picked from a pool.
type Mode int

const (
	// ByIndex returns the item at the caller-supplied index, wrapped into
	// range. It never advances the rotation cursor.
	ByIndex Mode = iota
	// Random returns a uniformly random item.
	Random
	// RoundRobin returns items in load order, advancing a shared cursor.
	RoundRobin
)

// String returns the flag-style name of the mode.
func (m Mode) String() string {
	switch m {
	case ByIndex:
		return "index"
	case Random:
		return "random"
	case RoundRobin:
		return "round-robin"
	default:
		return "unknown"
	}
}

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "index":
		return ByIndex, nil
	case "random":
		return Random, nil
	case "round-robin":
		return RoundRobin, nil
	default:
		return 0, ErrUnknownMode
	}
}

// Pool is a rotating selection pool over a fixed list of items. The item list
// is immutable between Load calls; only the round-robin cursor mutates, always
// under the pool's lock. Items are returned by reference and must be treated
// as read-only by callers.
type Pool[T any] struct {
	mu    sync.Mutex
	items []T
	next  int
}

// New creates a pool loaded with the given items.
func New[T any](items []T) *Pool[T] {
	p := &Pool[T]{}
	p.Load(items)
	return p
}

// Load replaces the pool contents and resets the rotation cursor. It takes a
// private copy of the slice so later mutation by the caller cannot reach the
// pool.
func (p *Pool[T]) Load(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = make([]T, len(items))
	copy(p.items, items)
	p.next = 0
}

// Len returns the number of loaded items.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Select picks an item according to mode. The idx argument is only consulted
// for ByIndex and may be any integer, including negative values. Selecting
// from an empty pool returns ErrEmpty.
func (p *Pool[T]) Select(mode Mode, idx int) (T, error) {
	var zero T

	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.items)
	if n == 0 {
		return zero, ErrEmpty
	}

	switch mode {
	case ByIndex:
		i := idx % n
		if i < 0 {
			i += n
		}
		return p.items[i], nil
	case Random:
		return p.items[rand.IntN(n)], nil
	case RoundRobin:
		// Read-then-advance under the lock so no two callers observe the
		// same cursor value.
		i := p.next
		p.next = (p.next + 1) % n
		return p.items[i], nil
	default:
		return zero, ErrUnknownMode
	}
}
