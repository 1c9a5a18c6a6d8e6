// Package app assembles the routing service from configuration. Concrete
// decoders and sinks are never named here: they are constructed through the
// shared selective registries populated by the infra packages' init.
package app

import (
	"context"
	"fmt"

	"github.com/nmarchais/selekt/config"
	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/infra/logger"
	"github.com/nmarchais/selekt/infra/metrics"
	"github.com/nmarchais/selekt/infra/mqtt"
	"github.com/nmarchais/selekt/internal/eventbus"

	// register built-in decoders and sinks
	_ "github.com/nmarchais/selekt/infra/codec"
	_ "github.com/nmarchais/selekt/infra/sink"
)

// Service orchestrates the source, the per-stream pipelines and metrics.
type Service struct {
	pipelines   map[string]*StreamPipeline
	bus         *eventbus.TypedBus[model.Envelope]
	source      *mqtt.Source
	metrics     *metrics.PipelineMetrics
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	pipelines := make(map[string]*StreamPipeline, len(cfg.Streams))
	subs := make([]mqtt.Subscription, 0, len(cfg.Streams))
	for _, sc := range cfg.Streams {
		p, err := BuildPipeline(sc, logg)
		if err != nil {
			return nil, err
		}
		pipelines[sc.Name] = p
		subs = append(subs, mqtt.Subscription{
			Stream:      sc.Name,
			Topic:       sc.Topic,
			ContentType: sc.ContentType,
			QoS:         sc.QoS,
		})
		logg.Infof("stream %s: decoder %s, %d sink(s)", sc.Name, p.Decoder.Name(), len(p.Sinks))
	}

	var pm *metrics.PipelineMetrics
	if cfg.Metrics.PrometheusEnabled {
		var err error
		pm, err = metrics.NewPipelineMetrics()
		if err != nil {
			return nil, fmt.Errorf("pipeline metrics: %w", err)
		}
	}

	bus := eventbus.NewTyped[model.Envelope](64)
	source, err := mqtt.NewSource(cfg.MQTT, subs, bus)
	if err != nil {
		return nil, fmt.Errorf("mqtt source: %w", err)
	}

	return &Service{
		pipelines:   pipelines,
		bus:         bus,
		source:      source,
		metrics:     pm,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run consumes envelopes until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-sub:
			if !ok {
				return nil
			}
			s.dispatch(ctx, env)
		}
	}
}

func (s *Service) dispatch(ctx context.Context, env model.Envelope) {
	p, ok := s.pipelines[env.Stream]
	if !ok {
		s.log.Warnf("envelope %s references unknown stream %s", env.ID, env.Stream)
		return
	}
	p.Handle(ctx, env, s.metrics, s.log)
}

// Close releases the source, the bus and every pipeline.
func (s *Service) Close() error {
	s.source.Close()
	s.bus.Close()
	var first error
	for _, p := range s.pipelines {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
