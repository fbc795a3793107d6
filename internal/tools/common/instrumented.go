package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
)

// InstrumentedHandler wraps a command handler with metrics and audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedHandler("my_command", sc, handler))
func InstrumentedHandler(
	command string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return InstrumentedHandlerWithService(command, "", "", sc, handler)
}

// InstrumentedHandlerWithService is like InstrumentedHandler but also records
// the provider service and operation type for more detailed metrics.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedHandlerWithService("gmail_search", instrumentation.ServiceGmail, instrumentation.OperationSearch, sc, handler))
func InstrumentedHandlerWithService(
	command string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// No instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewCommandInvocation(command).
			WithSpanContext(ctx).
			WithMocked(sc.UseMock())
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}

		account := GetAccountFromArgs(request.GetArguments())
		invocation.WithAccount(account)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		// A handler error and an IsError result both count as failures;
		// handlers report user-visible failures through the result.
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			invocation.Complete(false, err)
		} else {
			invocation.Complete(true, nil)
		}

		if metrics != nil {
			metrics.RecordCommandInvocation(ctx, command, status, account, duration)
			if serviceName != "" {
				metrics.RecordProviderAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}

		if auditLogger != nil {
			auditLogger.LogCommandInvocation(invocation)
		}

		return result, err
	}
}
