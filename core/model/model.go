// Package model defines the data types flowing through the routing pipeline.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is one raw message received from a source before decoding.
type Envelope struct {
	ID          string    `json:"id"`
	Stream      string    `json:"stream"`
	Topic       string    `json:"topic"`
	ContentType string    `json:"content_type"`
	Payload     []byte    `json:"payload"`
	Received    time.Time `json:"received"`
}

// NewEnvelope stamps a raw payload with a fresh ID and the current time.
func NewEnvelope(topic, contentType string, payload []byte) Envelope {
	return Envelope{
		ID:          uuid.NewString(),
		Topic:       topic,
		ContentType: contentType,
		Payload:     payload,
		Received:    time.Now(),
	}
}

// Record is one decoded unit of data produced from an envelope.
type Record struct {
	ID     string         `json:"id"`
	Stream string         `json:"stream"`
	Fields map[string]any `json:"fields"`
	Time   time.Time      `json:"time"`
}
