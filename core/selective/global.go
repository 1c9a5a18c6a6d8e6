package selective

import (
	"reflect"
	"sync"
)

// Shared registries are keyed by the (Product, Criterion, Input) type triple.
// The map lives in this package, so Go's init ordering guarantees it exists
// before any importing package's init runs, and per-triple registries are
// created lazily under the lock. Storage is never torn down; it lives for
// the process.
type tripleKey struct {
	product, criterion, input reflect.Type
}

var (
	sharedMu sync.Mutex
	shared   = make(map[tripleKey]any)
)

func typeFor[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Shared returns the process-wide registry for the (P, C, I) triple,
// creating it on first use. Registries for different triples are fully
// independent.
func Shared[P, C, I any]() *Registry[P, C, I] {
	key := tripleKey{typeFor[P](), typeFor[C](), typeFor[I]()}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if r, ok := shared[key]; ok {
		return r.(*Registry[P, C, I])
	}
	r := New[P, C, I]()
	shared[key] = r
	return r
}

// Register adds an entry to the shared registry for the (P, C, I) triple.
// Safe to call from init in any package initialization order.
func Register[P, C, I any](pred Predicate[C], build Producer[P, I]) {
	Shared[P, C, I]().Register(pred, build)
}

// ProduceAll queries the shared registry for the (P, C, I) triple.
func ProduceAll[P, C, I any](criterion C, in I) []P {
	return Shared[P, C, I]().ProduceAll(criterion, in)
}

// ProduceFirst queries the shared registry for the (P, C, I) triple.
func ProduceFirst[P, C, I any](criterion C, in I) (P, bool) {
	return Shared[P, C, I]().ProduceFirst(criterion, in)
}
