package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/nmarchais/selekt/config"
	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/infra/logger"
	"github.com/nmarchais/selekt/infra/metrics"
)

func jsonStream(t *testing.T, routes ...config.RouteConfig) config.StreamConfig {
	t.Helper()
	return config.StreamConfig{
		Name:        "sensors",
		Topic:       "sensors/+",
		ContentType: "application/json",
		Routes:      routes,
	}
}

func TestBuildPipeline_SelectsDecoderAndSinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	p, err := BuildPipeline(jsonStream(t,
		config.RouteConfig{Kind: "file", Conf: map[string]any{"path": path}},
	), logger.NopLogger{})
	require.NoError(t, err)
	require.Equal(t, "json", p.Decoder.Name())
	require.Len(t, p.Sinks, 1)
	require.NoError(t, p.Close())
}

func TestBuildPipeline_EchoLabelFansOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	p, err := BuildPipeline(jsonStream(t,
		config.RouteConfig{Kind: "file", Labels: map[string]string{"echo": "true"}, Conf: map[string]any{"path": path}},
	), logger.NopLogger{})
	require.NoError(t, err)
	// stdout via echo label + file
	require.Len(t, p.Sinks, 2)
	require.NoError(t, p.Close())
}

func TestBuildPipeline_UnroutableKind(t *testing.T) {
	_, err := BuildPipeline(jsonStream(t, config.RouteConfig{Kind: "kafka"}), logger.NopLogger{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "matches no sink")
}

func TestStreamPipeline_HandleWritesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	p, err := BuildPipeline(jsonStream(t,
		config.RouteConfig{Kind: "file", Conf: map[string]any{"path": path}},
	), logger.NopLogger{})
	require.NoError(t, err)

	pm, err := metrics.NewPipelineMetricsWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	env := model.NewEnvelope("sensors/a", "application/json", []byte(`[{"v":1},{"v":2}]`))
	env.Stream = "sensors"
	p.Handle(context.Background(), env, pm, logger.NopLogger{})
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
}

func TestStreamPipeline_HandleDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	p, err := BuildPipeline(jsonStream(t,
		config.RouteConfig{Kind: "file", Conf: map[string]any{"path": path}},
	), logger.NopLogger{})
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	env := model.NewEnvelope("sensors/a", "application/json", []byte(`{broken`))
	env.Stream = "sensors"
	// must not panic and must not write anything
	p.Handle(context.Background(), env, nil, logger.NopLogger{})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}
