// Package codec defines the decoder contract and the selective registry
// through which concrete decoders are chosen for a stream. Decoders register
// themselves from init (see infra/codec); assembly code selects one per
// stream without naming concrete types.
package codec

import (
	"github.com/nmarchais/selekt/core/logger"
	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/core/selective"
)

// Decoder turns a raw envelope into decoded records.
type Decoder interface {
	Name() string
	Decode(env model.Envelope) ([]model.Record, error)
}

// StreamSpec is the selection criterion for decoders. Predicates typically
// match on ContentType, falling back to Topic conventions.
type StreamSpec struct {
	Stream      string
	Topic       string
	ContentType string
}

// Options is the input forwarded to whichever decoder producer is selected.
type Options struct {
	Stream string
	Conf   map[string]any
	Log    logger.Logger
}

// Predicate and Producer alias the registry function types for registrants.
type (
	Predicate = selective.Predicate[StreamSpec]
	Producer  = selective.Producer[Decoder, Options]
)

// Register adds a decoder rule to the shared registry. Intended to be called
// from init; duplicate predicates are ignored.
func Register(pred Predicate, build Producer) {
	selective.Register[Decoder](pred, build)
}

// Select constructs the first registered decoder whose predicate matches
// spec. The boolean is false when no decoder applies.
func Select(spec StreamSpec, opts Options) (Decoder, bool) {
	return selective.ProduceFirst[Decoder](spec, opts)
}

// SelectAll constructs every registered decoder matching spec, in
// registration order. Used by the routes dry-run command.
func SelectAll(spec StreamSpec, opts Options) []Decoder {
	return selective.ProduceAll[Decoder](spec, opts)
}

// NopDecoder decodes nothing. Producers return it when their configuration
// turns out to be unusable, so construction itself never fails.
type NopDecoder struct{}

func (NopDecoder) Name() string { return "nop" }

func (NopDecoder) Decode(model.Envelope) ([]model.Record, error) { return nil, nil }
