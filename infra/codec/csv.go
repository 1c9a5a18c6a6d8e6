package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/google/uuid"

	corecodec "github.com/nmarchais/selekt/core/codec"
	"github.com/nmarchais/selekt/core/conf"
	"github.com/nmarchais/selekt/core/logger"
	"github.com/nmarchais/selekt/core/model"
)

// csvConf holds optional settings for the CSV decoder.
type csvConf struct {
	// Delimiter is a single-character field separator, "," by default.
	Delimiter string `json:"delimiter"`
	// Columns names the fields when payloads carry no header row.
	Columns []string `json:"columns"`
}

// CSVDecoder decodes CSV payloads into one record per row. The first row is
// treated as a header unless Columns is configured.
type CSVDecoder struct {
	stream  string
	comma   rune
	columns []string
	log     logger.Logger
}

func isCSVStream(spec corecodec.StreamSpec) bool {
	ct := strings.ToLower(spec.ContentType)
	return strings.Contains(ct, "csv") || strings.HasSuffix(spec.Topic, ".csv")
}

func newCSVDecoder(opts corecodec.Options) corecodec.Decoder {
	var c csvConf
	if err := conf.Decode(opts.Conf, &c); err != nil {
		if opts.Log != nil {
			opts.Log.Errorf("csv decoder conf for stream %s: %v", opts.Stream, err)
		}
		return corecodec.NopDecoder{}
	}
	comma := ','
	if c.Delimiter != "" {
		comma = rune(c.Delimiter[0])
	}
	return &CSVDecoder{stream: opts.Stream, comma: comma, columns: c.Columns, log: opts.Log}
}

func (d *CSVDecoder) Name() string { return "csv" }

func (d *CSVDecoder) Decode(env model.Envelope) ([]model.Record, error) {
	r := csv.NewReader(bytes.NewReader(env.Payload))
	r.Comma = d.comma
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv payload: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := d.columns
	if len(header) == 0 {
		header = rows[0]
		rows = rows[1:]
	}

	recs := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = row[i]
			}
		}
		recs = append(recs, model.Record{
			ID:     uuid.NewString(),
			Stream: d.stream,
			Fields: fields,
			Time:   env.Received,
		})
	}
	return recs, nil
}
