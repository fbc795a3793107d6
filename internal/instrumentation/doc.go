// Package instrumentation provides OpenTelemetry metrics and tracing for
// the command server, plus structured audit logging for command
// invocations.
//
// Metrics cover command invocations and duration, outbound provider API
// operations, OAuth token refreshes, and rate-limiter throttling. The
// default exporter is Prometheus, served by the dedicated metrics HTTP
// server; OTLP and stdout exporters are available for development.
//
// High-cardinality labels (account names) are off by default and gated
// behind METRICS_DETAILED_LABELS.
package instrumentation
