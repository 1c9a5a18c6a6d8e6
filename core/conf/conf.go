// Package conf decodes raw configuration maps into typed structs. Concrete
// decoders and sinks receive their settings as a map[string]any and are
// responsible for decoding it themselves.
package conf

import "github.com/mitchellh/mapstructure"

// Decode fills out the provided struct using json tags.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
