package gitlab_tools

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

func useMock(sc *server.ServerContext) bool {
	return sc.UseMock() || sc.GitLabClient() == nil
}

// RegisterGitLabTools registers all GitLab-related commands with the MCP
// server. All GitLab commands are read-only.
func RegisterGitLabTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listProjectsTool := mcp.NewTool("gitlab_list_projects",
		mcp.WithDescription("List GitLab projects the token's user is a member of, most recently active first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of projects to return (default: 20)"),
		),
	)

	s.AddTool(listProjectsTool, common.InstrumentedHandlerWithService("gitlab_list_projects", instrumentation.ServiceGitLab, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			limit := intArg(args, "limit", 20)

			if useMock(sc) {
				return jsonResult(sc.Mock().GitLabProjects(limit))
			}

			projects, err := sc.GitLabClient().ListProjects(ctx, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
			}
			return jsonResult(projects)
		}))

	listMergeRequestsTool := mcp.NewTool("gitlab_list_merge_requests",
		mcp.WithDescription("List merge requests in a GitLab project"),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("The numeric project ID"),
		),
		mcp.WithString("state",
			mcp.Description("Merge request state: opened, closed, merged or all (default: opened)"),
		),
	)

	s.AddTool(listMergeRequestsTool, common.InstrumentedHandlerWithService("gitlab_list_merge_requests", instrumentation.ServiceGitLab, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID := intArg(args, "project_id", 0)
			if projectID <= 0 {
				return mcp.NewToolResultError("project_id is required"), nil
			}
			state, _ := args["state"].(string)

			if useMock(sc) {
				return jsonResult(sc.Mock().GitLabMergeRequests(10))
			}

			mrs, err := sc.GitLabClient().ListMergeRequests(ctx, projectID, state)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list merge requests: %v", err)), nil
			}
			return jsonResult(mrs)
		}))

	listPipelinesTool := mcp.NewTool("gitlab_list_pipelines",
		mcp.WithDescription("List recent pipelines in a GitLab project"),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("The numeric project ID"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of pipelines to return (default: 20)"),
		),
	)

	s.AddTool(listPipelinesTool, common.InstrumentedHandlerWithService("gitlab_list_pipelines", instrumentation.ServiceGitLab, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID := intArg(args, "project_id", 0)
			if projectID <= 0 {
				return mcp.NewToolResultError("project_id is required"), nil
			}
			limit := intArg(args, "limit", 20)

			if useMock(sc) {
				return jsonResult(sc.Mock().GitLabPipelines(limit))
			}

			pipelines, err := sc.GitLabClient().ListPipelines(ctx, projectID, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list pipelines: %v", err)), nil
			}
			return jsonResult(pipelines)
		}))

	getPipelineTool := mcp.NewTool("gitlab_get_pipeline",
		mcp.WithDescription("Get a single pipeline by ID"),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("The numeric project ID"),
		),
		mcp.WithNumber("pipeline_id",
			mcp.Required(),
			mcp.Description("The numeric pipeline ID"),
		),
	)

	s.AddTool(getPipelineTool, common.InstrumentedHandlerWithService("gitlab_get_pipeline", instrumentation.ServiceGitLab, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID := intArg(args, "project_id", 0)
			if projectID <= 0 {
				return mcp.NewToolResultError("project_id is required"), nil
			}
			pipelineID := intArg(args, "pipeline_id", 0)
			if pipelineID <= 0 {
				return mcp.NewToolResultError("pipeline_id is required"), nil
			}

			if useMock(sc) {
				return jsonResult(sc.Mock().GitLabPipeline(pipelineID))
			}

			pipeline, err := sc.GitLabClient().GetPipeline(ctx, projectID, pipelineID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get pipeline: %v", err)), nil
			}
			return jsonResult(pipeline)
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
