// Package sink defines the record sink contract and the selective registry
// through which concrete sinks are attached to routes. Concrete sinks
// register themselves from init (see infra/sink); a route may match several
// registered rules, in which case every matching sink is constructed.
package sink

import (
	"context"

	"github.com/nmarchais/selekt/core/logger"
	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/core/selective"
)

// Sink receives decoded records.
type Sink interface {
	Name() string
	Write(ctx context.Context, recs []model.Record) error
	Close() error
}

// RouteSpec is the selection criterion for sinks. Kind names the sink type
// requested by configuration; Labels carry free-form route metadata that
// predicates may match on.
type RouteSpec struct {
	Stream string
	Kind   string
	Labels map[string]string
}

// Params is the input forwarded to whichever sink producers are selected.
type Params struct {
	Stream string
	Conf   map[string]any
	Log    logger.Logger
}

// Predicate and Producer alias the registry function types for registrants.
type (
	Predicate = selective.Predicate[RouteSpec]
	Producer  = selective.Producer[Sink, Params]
)

// Register adds a sink rule to the shared registry. Intended to be called
// from init; duplicate predicates are ignored.
func Register(pred Predicate, build Producer) {
	selective.Register[Sink](pred, build)
}

// Build constructs every registered sink whose predicate matches spec, in
// registration order. An empty result means the route is unroutable.
func Build(spec RouteSpec, params Params) []Sink {
	return selective.ProduceAll[Sink](spec, params)
}

// BuildFirst constructs the first matching sink only.
func BuildFirst(spec RouteSpec, params Params) (Sink, bool) {
	return selective.ProduceFirst[Sink](spec, params)
}

// NopSink discards all records. Producers return it when their
// configuration turns out to be unusable, so construction never fails.
type NopSink struct{}

func (NopSink) Name() string { return "nop" }

func (NopSink) Write(context.Context, []model.Record) error { return nil }

func (NopSink) Close() error { return nil }
