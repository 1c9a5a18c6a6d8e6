package config

import "fmt"

// StreamConfig binds one broker topic to a decoder and a set of routes.
type StreamConfig struct {
	// Name identifies the stream in logs and metrics.
	Name string `json:"name"`
	// Topic is the broker topic filter to subscribe.
	Topic string `json:"topic"`
	// ContentType drives decoder selection, e.g. "application/json".
	ContentType string `json:"content_type"`
	// QoS is the subscription quality of service (0..2).
	QoS byte `json:"qos"`
	// Decoder carries raw settings for the selected decoder.
	Decoder map[string]any `json:"decoder"`
	// Routes lists the destinations for decoded records.
	Routes []RouteConfig `json:"routes"`
}

// RouteConfig describes one destination for a stream's records. Kind and
// Labels form the selection criterion; Conf carries raw settings decoded by
// whichever sinks are constructed.
type RouteConfig struct {
	Kind   string            `json:"kind"`
	Labels map[string]string `json:"labels"`
	Conf   map[string]any    `json:"conf"`
}

// SetDefaults applies sane defaults.
func (c *StreamConfig) SetDefaults() {
	if c.ContentType == "" {
		c.ContentType = "application/octet-stream"
	}
}

// Validate checks mandatory fields.
func (c StreamConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("stream name is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("stream %s: topic is required", c.Name)
	}
	if c.QoS > 2 {
		return fmt.Errorf("stream %s: qos must be 0..2", c.Name)
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("stream %s: at least one route is required", c.Name)
	}
	for i, r := range c.Routes {
		if r.Kind == "" && len(r.Labels) == 0 {
			return fmt.Errorf("stream %s: route %d needs a kind or labels", c.Name, i)
		}
	}
	return nil
}
