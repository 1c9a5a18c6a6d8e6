package app

import (
	"context"
	"fmt"

	"github.com/nmarchais/selekt/config"
	"github.com/nmarchais/selekt/core/codec"
	"github.com/nmarchais/selekt/core/logger"
	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/core/sink"
	"github.com/nmarchais/selekt/infra/metrics"
)

// StreamPipeline holds the decoder and sinks constructed for one stream.
type StreamPipeline struct {
	Stream  string
	Decoder codec.Decoder
	Sinks   []sink.Sink
}

// BuildPipeline selects a decoder and constructs all matching sinks for the
// stream. Selection is first-match for decoders and every-match for sinks;
// a route matching several registered rules gets all of them.
func BuildPipeline(sc config.StreamConfig, log logger.Logger) (*StreamPipeline, error) {
	spec := codec.StreamSpec{Stream: sc.Name, Topic: sc.Topic, ContentType: sc.ContentType}
	dec, ok := codec.Select(spec, codec.Options{Stream: sc.Name, Conf: sc.Decoder, Log: log})
	if !ok {
		return nil, fmt.Errorf("stream %s: no decoder matches content type %s", sc.Name, sc.ContentType)
	}

	var sinks []sink.Sink
	for i, rc := range sc.Routes {
		built := sink.Build(
			sink.RouteSpec{Stream: sc.Name, Kind: rc.Kind, Labels: rc.Labels},
			sink.Params{Stream: sc.Name, Conf: rc.Conf, Log: log},
		)
		if len(built) == 0 {
			return nil, fmt.Errorf("stream %s: route %d (%s) matches no sink", sc.Name, i, rc.Kind)
		}
		sinks = append(sinks, built...)
	}
	return &StreamPipeline{Stream: sc.Name, Decoder: dec, Sinks: sinks}, nil
}

// Handle decodes one envelope and fans the records out to every sink.
func (p *StreamPipeline) Handle(ctx context.Context, env model.Envelope, m *metrics.PipelineMetrics, log logger.Logger) {
	if m != nil {
		m.RecordEnvelope(p.Stream)
	}
	recs, err := p.Decoder.Decode(env)
	if err != nil {
		if m != nil {
			m.RecordDecodeError(p.Stream)
		}
		log.Errorf("stream %s: decode %s: %v", p.Stream, env.ID, err)
		return
	}
	if len(recs) == 0 {
		return
	}
	if m != nil {
		m.RecordRecords(p.Stream, len(recs))
	}
	for _, s := range p.Sinks {
		if err := s.Write(ctx, recs); err != nil {
			if m != nil {
				m.RecordSinkError(p.Stream, s.Name())
			}
			log.Errorf("stream %s: sink %s: %v", p.Stream, s.Name(), err)
		}
	}
}

// Close releases every sink.
func (p *StreamPipeline) Close() error {
	var first error
	for _, s := range p.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
