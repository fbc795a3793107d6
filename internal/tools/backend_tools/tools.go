package backend_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

// RegisterBackendTools registers the local backend pass-through commands
// with the MCP server.
func RegisterBackendTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	forwardTool := mcp.NewTool("backend_forward",
		mcp.WithDescription("Forward a command to the local backend process and return its raw JSON response"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("The backend command name"),
		),
		mcp.WithString("params",
			mcp.Description("JSON-encoded parameter object for the backend command"),
		),
	)

	s.AddTool(forwardTool, common.InstrumentedHandlerWithService("backend_forward", instrumentation.ServiceBackend, instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			command, ok := args["command"].(string)
			if !ok || command == "" {
				return mcp.NewToolResultError("command is required"), nil
			}

			var params json.RawMessage
			if paramsStr, ok := args["params"].(string); ok && paramsStr != "" {
				if !json.Valid([]byte(paramsStr)) {
					return mcp.NewToolResultError("params must be valid JSON"), nil
				}
				params = json.RawMessage(paramsStr)
			}

			response, err := sc.BackendClient().Forward(ctx, command, params)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to forward command: %v", err)), nil
			}
			return mcp.NewToolResultText(string(response)), nil
		}))

	healthTool := mcp.NewTool("backend_health",
		mcp.WithDescription("Check whether the local backend process is reachable"),
	)

	s.AddTool(healthTool, common.InstrumentedHandlerWithService("backend_health", instrumentation.ServiceBackend, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			status := map[string]string{"status": "up"}
			if err := sc.BackendClient().Health(ctx); err != nil {
				status["status"] = "down"
				status["error"] = err.Error()
			}

			result, _ := json.MarshalIndent(status, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
