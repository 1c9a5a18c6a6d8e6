package sink

import (
	"context"

	"github.com/nmarchais/selekt/core/model"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) Name() string { return "multi" }

// Write forwards the records to all sinks, returning the first error
// encountered.
func (m *MultiSink) Write(ctx context.Context, recs []model.Record) error {
	for _, s := range m.Sinks {
		if err := s.Write(ctx, recs); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
