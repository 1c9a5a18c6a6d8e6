package sink

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/nmarchais/selekt/core/conf"
	"github.com/nmarchais/selekt/core/logger"
	"github.com/nmarchais/selekt/core/model"
	coresink "github.com/nmarchais/selekt/core/sink"
	"github.com/nmarchais/selekt/pkg/export"
)

// fileConf holds the settings of the file sink.
type fileConf struct {
	Path string `json:"path"`
	// Format is "jsonl" (default) or "csv".
	Format string `json:"format"`
}

// FileSink appends records to a local file in JSONL or CSV format.
type FileSink struct {
	mu     sync.Mutex
	f      *os.File
	format string
}

func isFileRoute(spec coresink.RouteSpec) bool { return spec.Kind == "file" }

// newFileSink opens the target file. On unusable configuration it logs and
// returns a NopSink so the producer stays total.
func newFileSink(params coresink.Params) coresink.Sink {
	var c fileConf
	if err := conf.Decode(params.Conf, &c); err != nil {
		logSinkErr(params.Log, params.Stream, err)
		return coresink.NopSink{}
	}
	if c.Path == "" {
		logSinkErr(params.Log, params.Stream, fmt.Errorf("file sink: path is required"))
		return coresink.NopSink{}
	}
	if c.Format == "" {
		c.Format = "jsonl"
	}
	if c.Format != "jsonl" && c.Format != "csv" {
		logSinkErr(params.Log, params.Stream, fmt.Errorf("file sink: unknown format %s", c.Format))
		return coresink.NopSink{}
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logSinkErr(params.Log, params.Stream, fmt.Errorf("file sink: %w", err))
		return coresink.NopSink{}
	}
	return &FileSink{f: f, format: c.Format}
}

func logSinkErr(log logger.Logger, stream string, err error) {
	if log != nil {
		log.Errorf("stream %s: %v", stream, err)
	}
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Write(_ context.Context, recs []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.format == "csv" {
		return export.WriteCSV(s.f, recs)
	}
	return export.WriteJSONL(s.f, recs)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
