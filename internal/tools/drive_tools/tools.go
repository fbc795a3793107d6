package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/drive"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

func getClient(sc *server.ServerContext, account string) *drive.Client {
	if sc.UseMock() {
		return nil
	}
	return sc.DriveClientForAccount(account)
}

// RegisterDriveTools registers all Drive-related commands with the MCP
// server. All Drive commands are read-only.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List recent files in Google Drive"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to return (default: 20)"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedHandlerWithService("drive_list_files", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)
			limit := intArg(args, "limit", 20)

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().DriveFiles(limit))
			}

			files, err := client.ListFiles(ctx, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
			}
			return jsonResult(files)
		}))

	searchFilesTool := mcp.NewTool("drive_search_files",
		mcp.WithDescription("Search Google Drive by file name and content"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to return (default: 20)"),
		),
	)

	s.AddTool(searchFilesTool, common.InstrumentedHandlerWithService("drive_search_files", instrumentation.ServiceDrive, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			query, ok := args["query"].(string)
			if !ok || query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}
			limit := intArg(args, "limit", 20)

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().DriveFiles(limit))
			}

			files, err := client.SearchFiles(ctx, query, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to search files: %v", err)), nil
			}
			return jsonResult(files)
		}))

	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get file metadata by ID"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The file ID"),
		),
	)

	s.AddTool(getFileTool, common.InstrumentedHandlerWithService("drive_get_file", instrumentation.ServiceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().DriveFile(fileID))
			}

			file, err := client.GetFile(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
			}
			return jsonResult(file)
		}))

	return nil
}

// intArg reads a numeric argument; JSON numbers decode as float64.
func intArg(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return def
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}
