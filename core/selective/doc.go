// Package selective implements a predicate-keyed construction registry.
//
// Unlike a name-keyed factory, entries are selected by evaluating arbitrary
// predicates against a runtime criterion. Each entry pairs a Predicate with
// a Producer; queries construct a value for every matching entry
// (ProduceAll) or for the first match in registration order (ProduceFirst).
// The registry never inspects the criterion itself, so selection logic is
// entirely up to the registrants.
//
// Packages typically register their concrete types from init:
//
//	func init() {
//	    selective.Register[codec.Decoder](isJSONStream, newJSONDecoder)
//	}
//
// and assembly code later instantiates whatever matched:
//
//	dec, ok := selective.ProduceFirst[codec.Decoder](spec, opts)
//
// Shared registries are scoped per (Product, Criterion, Input) type triple
// and created lazily on first use, so init-time registration is safe in any
// package initialization order.
package selective
