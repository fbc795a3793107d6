// Package server provides the shared runtime state for the atomd command
// server.
//
// ServerContext holds the loaded configuration, the credential manager, and
// lazily created service clients. Google and Outlook clients are cached per
// account; Asana, GitHub and GitLab clients are token-configured singletons.
// A per-account rate limiter pool throttles Gmail API calls.
//
// MetricsServer serves Prometheus metrics on a dedicated local port, and
// HealthChecker exposes /healthz, /readyz and /healthz/detailed on the same
// mux so the desktop shell has a single endpoint to poll during startup and
// shutdown.
package server
