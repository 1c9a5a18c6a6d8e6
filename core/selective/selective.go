package selective

import (
	"reflect"
	"sync"
)

// Predicate reports whether a registered entry applies to the criterion.
// Predicates must be total and side-effect free.
type Predicate[C any] func(C) bool

// Producer constructs a new product from the input. Producers must be total;
// a producer that can fail should return a product encoding that failure
// (for example a nop implementation) rather than panic.
type Producer[P, I any] func(I) P

type entry[P, C, I any] struct {
	pred  Predicate[C]
	build Producer[P, I]
}

// Registry holds (predicate, producer) entries for one (P, C, I)
// parameterization. Entries are matched in registration order. The zero
// value is not usable; create instances with New or obtain the process-wide
// one with Shared.
type Registry[P, C, I any] struct {
	mu      sync.RWMutex
	entries []entry[P, C, I]
	seen    map[uintptr]struct{}
}

// New returns an empty registry.
func New[P, C, I any]() *Registry[P, C, I] {
	return &Registry[P, C, I]{seen: make(map[uintptr]struct{})}
}

// Register adds a (predicate, producer) entry. Entries are identified by the
// predicate's code pointer: registering a second producer under the same
// predicate is a silent no-op and the first producer is kept. Nil arguments
// are ignored.
//
// Because identity is the code pointer, distinct closures built from the
// same function literal count as one entry; use named functions when
// separate entries are required.
func (r *Registry[P, C, I]) Register(pred Predicate[C], build Producer[P, I]) {
	if pred == nil || build == nil {
		return
	}
	id := reflect.ValueOf(pred).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[id]; dup {
		return
	}
	r.seen[id] = struct{}{}
	r.entries = append(r.entries, entry[P, C, I]{pred: pred, build: build})
}

// ProduceAll constructs one product per entry whose predicate holds for
// criterion, in registration order. It returns nil when nothing matches.
// Ownership of every returned product passes to the caller; the registry
// keeps no reference.
func (r *Registry[P, C, I]) ProduceAll(criterion C, in I) []P {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []P
	for _, e := range r.entries {
		if e.pred(criterion) {
			out = append(out, e.build(in))
		}
	}
	return out
}

// ProduceFirst constructs a product from the first entry (registration
// order) whose predicate holds for criterion. The boolean is false when no
// entry matched; the product is then the zero value of P.
func (r *Registry[P, C, I]) ProduceFirst(criterion C, in I) (P, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.pred(criterion) {
			return e.build(in), true
		}
	}
	var zero P
	return zero, false
}

// Len reports the number of registered entries.
func (r *Registry[P, C, I]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
