package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrCommand   = "command"
	attrStatus    = "status"
	attrService   = "service"
	attrOperation = "operation"
	attrProvider  = "provider"
	attrResult    = "result"
	attrAccount   = "account"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Command metrics
	commandInvocationsTotal metric.Int64Counter
	commandDuration         metric.Float64Histogram

	// Outbound provider API metrics
	providerAPIOperationsTotal   metric.Int64Counter
	providerAPIOperationDuration metric.Float64Histogram

	// OAuth metrics
	tokenRefreshTotal metric.Int64Counter

	// Rate limiter metrics
	rateLimitThrottleTotal metric.Int64Counter

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.commandInvocationsTotal, err = meter.Int64Counter(
		"command_invocations_total",
		metric.WithDescription("Total number of command invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command_invocations_total counter: %w", err)
	}

	m.commandDuration, err = meter.Float64Histogram(
		"command_duration_seconds",
		metric.WithDescription("Command execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command_duration_seconds histogram: %w", err)
	}

	m.providerAPIOperationsTotal, err = meter.Int64Counter(
		"provider_api_operations_total",
		metric.WithDescription("Total number of outbound provider API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_api_operations_total counter: %w", err)
	}

	m.providerAPIOperationDuration, err = meter.Float64Histogram(
		"provider_api_operation_duration_seconds",
		metric.WithDescription("Outbound provider API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_api_operation_duration_seconds histogram: %w", err)
	}

	m.tokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.rateLimitThrottleTotal, err = meter.Int64Counter(
		"rate_limit_throttle_total",
		metric.WithDescription("Total number of requests delayed by the rate limiter"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate_limit_throttle_total counter: %w", err)
	}

	return m, nil
}

// RecordCommandInvocation records a command invocation with its status and
// duration. The account label is only added when detailed labels are
// enabled; account names can be email addresses and would otherwise blow
// up metric cardinality.
func (m *Metrics) RecordCommandInvocation(ctx context.Context, command, status, account string, duration time.Duration) {
	if m.commandInvocationsTotal == nil || m.commandDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrCommand, command),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.commandInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.commandDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordProviderAPIOperation records an outbound API operation.
//
// Parameters:
//   - service: integration name (asana, github, gitlab, gmail, calendar, drive, outlook, backend)
//   - operation: operation type (list, get, create, send, etc.)
//   - status: result status ("success" or "error")
//   - duration: time taken for the operation
func (m *Metrics) RecordProviderAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.providerAPIOperationsTotal == nil || m.providerAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.providerAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.providerAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTokenRefresh records an OAuth token refresh attempt.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordTokenRefresh(ctx context.Context, provider, result string) {
	if m.tokenRefreshTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrProvider, provider),
		attribute.String(attrResult, result),
	}

	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitThrottle records a request that had to wait on the rate
// limiter.
func (m *Metrics) RecordRateLimitThrottle(ctx context.Context, service string) {
	if m.rateLimitThrottleTotal == nil {
		return // Instrumentation not initialized
	}

	m.rateLimitThrottleTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrService, service),
	))
}
