// Package metrics exports Prometheus counters for formatting passes and
// serves them, together with a health probe, over HTTP in watch mode.
package metrics
