package dashboard

import (
	"slices"
	"sync"
)

// Busy tracks the operations in flight. It replaces a single shared
// "busy" boolean: each operation registers itself and only clears its own
// registration, so overlapping operations cannot clear each other.
//
// The zero Busy is ready to use.
type Busy struct {
	mu  sync.Mutex
	ops map[uint64]string
	seq uint64
}

// Begin registers an operation named op and returns the function that ends it.
// Calling the returned function more than once has no further effect.
func (b *Busy) Begin(op string) (done func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ops == nil {
		b.ops = make(map[uint64]string)
	}
	b.seq++
	id := b.seq
	b.ops[id] = op

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.ops, id)
		})
	}
}

// IsBusy reports whether at least one operation is in flight.
func (b *Busy) IsBusy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ops) > 0
}

// InFlight returns the names of the operations in flight, in start order.
func (b *Busy) InFlight() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]uint64, 0, len(b.ops))
	for id := range b.ops {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, b.ops[id])
	}
	return res
}
