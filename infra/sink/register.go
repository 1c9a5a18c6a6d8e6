// Package sink provides the built-in record sinks. Importing the package
// wires them into the shared sink registry.
package sink

import coresink "github.com/nmarchais/selekt/core/sink"

func init() {
	coresink.Register(isStdoutRoute, newStdoutSink)
	coresink.Register(isFileRoute, newFileSink)
	coresink.Register(isInfluxRoute, newInfluxSink)
}
