package sink

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/nmarchais/selekt/core/model"
	coresink "github.com/nmarchais/selekt/core/sink"
	"github.com/nmarchais/selekt/pkg/export"
)

// StdoutSink writes records as JSON lines to standard output. It also
// attaches to any route labeled echo=true, so a route can mirror records to
// the console next to its primary sink.
type StdoutSink struct {
	mu  sync.Mutex
	out io.Writer
}

func isStdoutRoute(spec coresink.RouteSpec) bool {
	return spec.Kind == "stdout" || spec.Labels["echo"] == "true"
}

func newStdoutSink(coresink.Params) coresink.Sink {
	return &StdoutSink{out: os.Stdout}
}

func (s *StdoutSink) Name() string { return "stdout" }

func (s *StdoutSink) Write(_ context.Context, recs []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.WriteJSONL(s.out, recs)
}

func (s *StdoutSink) Close() error { return nil }
