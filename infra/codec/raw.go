package codec

import (
	"github.com/google/uuid"

	corecodec "github.com/nmarchais/selekt/core/codec"
	"github.com/nmarchais/selekt/core/model"
)

// RawDecoder is the catch-all decoder: the payload becomes a single record
// with the bytes under a "raw" field. It matches any stream, so it must be
// registered after the structured decoders.
type RawDecoder struct {
	stream string
}

func anyStream(corecodec.StreamSpec) bool { return true }

func newRawDecoder(opts corecodec.Options) corecodec.Decoder {
	return &RawDecoder{stream: opts.Stream}
}

func (d *RawDecoder) Name() string { return "raw" }

func (d *RawDecoder) Decode(env model.Envelope) ([]model.Record, error) {
	return []model.Record{{
		ID:     uuid.NewString(),
		Stream: d.stream,
		Fields: map[string]any{"raw": string(env.Payload), "topic": env.Topic},
		Time:   env.Received,
	}}, nil
}
