// Package codec provides the built-in decoders. Importing the package wires
// them into the shared decoder registry; the raw catch-all is registered
// last so the structured decoders win first-match selection.
package codec

import corecodec "github.com/nmarchais/selekt/core/codec"

func init() {
	corecodec.Register(isJSONStream, newJSONDecoder)
	corecodec.Register(isCSVStream, newCSVDecoder)
	corecodec.Register(anyStream, newRawDecoder)
}
