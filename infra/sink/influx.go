package sink

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nmarchais/selekt/core/conf"
	"github.com/nmarchais/selekt/core/model"
	coresink "github.com/nmarchais/selekt/core/sink"
	"github.com/nmarchais/selekt/infra/logger"
)

// influxConf holds the settings of the InfluxDB sink.
type influxConf struct {
	URL         string `json:"url"`
	Token       string `json:"token"`
	Org         string `json:"org"`
	Bucket      string `json:"bucket"`
	Measurement string `json:"measurement"`
}

// InfluxSink writes records to an InfluxDB instance using the official client.
type InfluxSink struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	measurement string
	log         logger.Logger
}

func isInfluxRoute(spec coresink.RouteSpec) bool { return spec.Kind == "influx" }

// newInfluxSink pings the InfluxDB instance and returns a NopSink when the
// health check fails, so construction itself never fails.
func newInfluxSink(params coresink.Params) coresink.Sink {
	var c influxConf
	if err := conf.Decode(params.Conf, &c); err != nil {
		logSinkErr(params.Log, params.Stream, fmt.Errorf("influx sink: %w", err))
		return coresink.NopSink{}
	}
	if c.Measurement == "" {
		c.Measurement = "selekt_record"
	}
	sink := NewInfluxSink(c.URL, c.Token, c.Org, c.Bucket, c.Measurement)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coresink.NopSink{}
	}
	return sink
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket, measurement string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:      client,
		writeAPI:    client.WriteAPIBlocking(org, bucket),
		measurement: measurement,
		log:         logger.New("influx-sink"),
	}
}

func (s *InfluxSink) Name() string { return "influx" }

// Write converts each record to a point tagged with its stream.
func (s *InfluxSink) Write(ctx context.Context, recs []model.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement(s.measurement).
			AddTag("stream", r.Stream).
			AddTag("record_id", r.ID).
			SetTime(r.Time)
		for k, v := range r.Fields {
			p.AddField(k, v)
		}
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
