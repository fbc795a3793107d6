package instrumentation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// CommandInvocation captures all information about a command invocation for
// audit logging.
//
// The Account field may contain PII (an email address). General logs use
// AccountDomain(); full account names only appear when PII logging is
// explicitly enabled.
type CommandInvocation struct {
	// Command name
	Command string

	// Account the command ran against (default, work@example.com, ...)
	Account string

	// Target information
	ServiceName string // Integration (asana, github, gmail, ...)
	Operation   string // Operation type (list, get, create, send)
	Mocked      bool   // Whether the command served mock data

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// AccountDomain returns the domain portion of the account for
// lower-cardinality logging.
func (ci *CommandInvocation) AccountDomain() string {
	return ExtractAccountDomain(ci.Account)
}

// Status returns "success" or "error" based on the Success field.
func (ci *CommandInvocation) Status() string {
	if ci.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging with
// cardinality-controlled values. For full audit logging, use LogAuditAttrs.
func (ci *CommandInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("command", ci.Command),
		slog.Duration("duration", ci.Duration),
		slog.Bool("success", ci.Success),
	}

	if ci.Account != "" && ci.Account != "default" {
		attrs = append(attrs, slog.String("account_domain", ci.AccountDomain()))
	}
	if ci.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ci.ServiceName))
	}
	if ci.Operation != "" {
		attrs = append(attrs, slog.String("operation", ci.Operation))
	}
	if ci.Mocked {
		attrs = append(attrs, slog.Bool("mocked", true))
	}
	if ci.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ci.TraceID))
	}
	if ci.Error != "" {
		attrs = append(attrs, slog.String("error", ci.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging, including
// the full account name. Route these logs to storage with appropriate
// access controls.
func (ci *CommandInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("command", ci.Command),
		slog.Duration("duration", ci.Duration),
		slog.Bool("success", ci.Success),
	}

	if ci.Account != "" {
		attrs = append(attrs, slog.String("account", ci.Account))
	}
	if ci.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ci.ServiceName))
	}
	if ci.Operation != "" {
		attrs = append(attrs, slog.String("operation", ci.Operation))
	}
	if ci.Mocked {
		attrs = append(attrs, slog.Bool("mocked", true))
	}
	if ci.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ci.TraceID))
	}
	if ci.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ci.SpanID))
	}
	if ci.Error != "" {
		attrs = append(attrs, slog.String("error", ci.Error))
	}

	return attrs
}

// NewCommandInvocation creates a new CommandInvocation with timing started.
// Call Complete() when the command finishes.
func NewCommandInvocation(command string) *CommandInvocation {
	return &CommandInvocation{
		Command:   command,
		StartTime: time.Now(),
	}
}

// WithAccount sets the account the command ran against.
func (ci *CommandInvocation) WithAccount(account string) *CommandInvocation {
	ci.Account = account
	return ci
}

// WithService sets the service integration and operation.
func (ci *CommandInvocation) WithService(serviceName, operation string) *CommandInvocation {
	ci.ServiceName = serviceName
	ci.Operation = operation
	return ci
}

// WithMocked marks the invocation as served from mock data.
func (ci *CommandInvocation) WithMocked(mocked bool) *CommandInvocation {
	ci.Mocked = mocked
	return ci
}

// WithSpanContext extracts trace context from the current span.
func (ci *CommandInvocation) WithSpanContext(ctx context.Context) *CommandInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ci.TraceID = span.SpanContext().TraceID().String()
		ci.SpanID = span.SpanContext().SpanID().String()
	}
	return ci
}

// Complete marks the invocation as completed and calculates duration.
// Returns the same CommandInvocation for method chaining.
func (ci *CommandInvocation) Complete(success bool, err error) *CommandInvocation {
	ci.Duration = time.Since(ci.StartTime)
	ci.Success = success
	if err != nil {
		ci.Error = err.Error()
	}
	return ci
}

// AuditLogger provides structured audit logging for command invocations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, PII is not included in logs.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogCommandInvocation logs a command invocation. When the logger is
// configured with IncludePII, full account names are logged; otherwise
// only domain-based identifiers are used.
func (al *AuditLogger) LogCommandInvocation(ci *CommandInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ci.LogAuditAttrs()
	} else {
		attrs = ci.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ci.Success {
		al.logger.Info("command_executed", args...)
	} else {
		al.logger.Warn("command_failed", args...)
	}
}

// ExtractAccountDomain extracts the domain part from an account that looks
// like an email address. Non-email accounts reduce to "unknown" so they
// cannot blow up label cardinality.
func ExtractAccountDomain(account string) string {
	if account == "" {
		return "unknown"
	}

	parts := strings.Split(account, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for provider API metrics.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationSend   = "send"
	OperationSearch = "search"
)
