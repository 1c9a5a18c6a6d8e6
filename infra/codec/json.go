package codec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	corecodec "github.com/nmarchais/selekt/core/codec"
	"github.com/nmarchais/selekt/core/conf"
	"github.com/nmarchais/selekt/core/logger"
	"github.com/nmarchais/selekt/core/model"
)

// jsonConf holds optional settings for the JSON decoder.
type jsonConf struct {
	// TimeField names a payload field parsed as RFC3339 and used as the
	// record time instead of the envelope arrival time.
	TimeField string `json:"time_field"`
}

// JSONDecoder decodes JSON object or array payloads into records.
type JSONDecoder struct {
	stream    string
	timeField string
	log       logger.Logger
}

func isJSONStream(spec corecodec.StreamSpec) bool {
	return strings.Contains(strings.ToLower(spec.ContentType), "json")
}

func newJSONDecoder(opts corecodec.Options) corecodec.Decoder {
	var c jsonConf
	if err := conf.Decode(opts.Conf, &c); err != nil {
		if opts.Log != nil {
			opts.Log.Errorf("json decoder conf for stream %s: %v", opts.Stream, err)
		}
		return corecodec.NopDecoder{}
	}
	return &JSONDecoder{stream: opts.Stream, timeField: c.TimeField, log: opts.Log}
}

func (d *JSONDecoder) Name() string { return "json" }

// Decode accepts a single object or an array of objects.
func (d *JSONDecoder) Decode(env model.Envelope) ([]model.Record, error) {
	trimmed := strings.TrimLeftFunc(string(env.Payload), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	var objs []map[string]any
	switch {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(env.Payload, &objs); err != nil {
			return nil, fmt.Errorf("json array payload: %w", err)
		}
	default:
		var obj map[string]any
		if err := json.Unmarshal(env.Payload, &obj); err != nil {
			return nil, fmt.Errorf("json payload: %w", err)
		}
		objs = []map[string]any{obj}
	}

	recs := make([]model.Record, 0, len(objs))
	for _, fields := range objs {
		recs = append(recs, model.Record{
			ID:     uuid.NewString(),
			Stream: d.stream,
			Fields: fields,
			Time:   d.recordTime(fields, env.Received),
		})
	}
	return recs, nil
}

func (d *JSONDecoder) recordTime(fields map[string]any, fallback time.Time) time.Time {
	if d.timeField == "" {
		return fallback
	}
	raw, ok := fields[d.timeField].(string)
	if !ok {
		return fallback
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if d.log != nil {
			d.log.Warnf("stream %s: field %s is not RFC3339: %v", d.stream, d.timeField, err)
		}
		return fallback
	}
	return ts
}
