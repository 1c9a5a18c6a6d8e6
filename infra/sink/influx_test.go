package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nmarchais/selekt/core/model"
)

func TestInfluxSink_Write(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewInfluxSink(srv.URL, "token", "org", "bucket", "selekt_record")
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := model.Record{ID: "r1", Stream: "sensors", Fields: map[string]any{"power": 3.5}, Time: ts}

	if err := s.Write(context.Background(), []model.Record{rec}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	line := strings.TrimSpace(body)
	if !strings.HasPrefix(line, "selekt_record,") {
		t.Fatalf("unexpected measurement: %s", line)
	}
	for _, want := range []string{"stream=sensors", "record_id=r1", "power=3.5"} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %q in line protocol: %s", want, line)
		}
	}
}

func TestNewInfluxSink_FailingHealthFallsBackToNop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	s := newInfluxSink(params("s", map[string]any{
		"url":    srv.URL + "/api/v2/write",
		"token":  "tok",
		"org":    "org",
		"bucket": "bucket",
	}))
	if _, ok := s.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
}

func TestNewInfluxSink_PassingHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"influxdb","status":"pass"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := newInfluxSink(params("s", map[string]any{"url": srv.URL, "token": "t", "org": "o", "bucket": "b"}))
	if s.Name() != "influx" {
		t.Fatalf("expected influx sink got %s", s.Name())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
