// Package metrics exposes Prometheus instrumentation for the routing
// pipeline and the HTTP endpoint serving it.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics counts envelopes, records and errors per stream.
type PipelineMetrics struct {
	envelopes    *prometheus.CounterVec
	records      *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	sinkErrors   *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline counters on the default
// Prometheus registerer.
func NewPipelineMetrics() (*PipelineMetrics, error) {
	return NewPipelineMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewPipelineMetricsWithRegistry registers the counters on the provided
// registerer. A nil registerer defaults to the global one.
func NewPipelineMetricsWithRegistry(reg prometheus.Registerer) (*PipelineMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	envelopes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "selekt_envelopes_total",
		Help: "Total number of envelopes received per stream",
	}, []string{"stream"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "selekt_records_total",
		Help: "Total number of decoded records per stream",
	}, []string{"stream"})
	decodeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "selekt_decode_errors_total",
		Help: "Total number of envelopes that failed decoding per stream",
	}, []string{"stream"})
	sinkErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "selekt_sink_errors_total",
		Help: "Total number of failed sink writes per stream and sink",
	}, []string{"stream", "sink"})

	register := func(c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				return are.ExistingCollector.(*prometheus.CounterVec), nil
			}
			return nil, err
		}
		return c, nil
	}

	m := &PipelineMetrics{}
	var err error
	if m.envelopes, err = register(envelopes); err != nil {
		return nil, err
	}
	if m.records, err = register(records); err != nil {
		return nil, err
	}
	if m.decodeErrors, err = register(decodeErrors); err != nil {
		return nil, err
	}
	if m.sinkErrors, err = register(sinkErrors); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordEnvelope counts one received envelope.
func (m *PipelineMetrics) RecordEnvelope(stream string) {
	m.envelopes.WithLabelValues(stream).Inc()
}

// RecordRecords counts decoded records.
func (m *PipelineMetrics) RecordRecords(stream string, n int) {
	m.records.WithLabelValues(stream).Add(float64(n))
}

// RecordDecodeError counts one failed decode.
func (m *PipelineMetrics) RecordDecodeError(stream string) {
	m.decodeErrors.WithLabelValues(stream).Inc()
}

// RecordSinkError counts one failed sink write.
func (m *PipelineMetrics) RecordSinkError(stream, sink string) {
	m.sinkErrors.WithLabelValues(stream, sink).Inc()
}
