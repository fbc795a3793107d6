package asana_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/asana"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/batch"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

// useMock reports whether the command should serve generated data: either
// mock mode is on, or no Asana token is configured.
func useMock(sc *server.ServerContext) bool {
	return sc.UseMock() || sc.AsanaClient() == nil
}

// RegisterAsanaTools registers all Asana-related commands with the MCP server
func RegisterAsanaTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listWorkspacesTool := mcp.NewTool("asana_list_workspaces",
		mcp.WithDescription("List Asana workspaces visible to the configured token"),
	)

	s.AddTool(listWorkspacesTool, common.InstrumentedHandlerWithService("asana_list_workspaces", instrumentation.ServiceAsana, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if useMock(sc) {
				return jsonResult(sc.Mock().AsanaWorkspaces(3))
			}

			workspaces, err := sc.AsanaClient().ListWorkspaces(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list workspaces: %v", err)), nil
			}
			return jsonResult(workspaces)
		}))

	listProjectsTool := mcp.NewTool("asana_list_projects",
		mcp.WithDescription("List projects in an Asana workspace"),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The GID of the workspace"),
		),
	)

	s.AddTool(listProjectsTool, common.InstrumentedHandlerWithService("asana_list_projects", instrumentation.ServiceAsana, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			workspaceID, ok := args["workspace_id"].(string)
			if !ok || workspaceID == "" {
				return mcp.NewToolResultError("workspace_id is required"), nil
			}

			if useMock(sc) {
				return jsonResult(sc.Mock().AsanaProjects(8))
			}

			projects, err := sc.AsanaClient().ListProjects(ctx, workspaceID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
			}
			return jsonResult(projects)
		}))

	listTasksTool := mcp.NewTool("asana_list_tasks",
		mcp.WithDescription("List tasks in an Asana project"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The GID of the project"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedHandlerWithService("asana_list_tasks", instrumentation.ServiceAsana, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID, ok := args["project_id"].(string)
			if !ok || projectID == "" {
				return mcp.NewToolResultError("project_id is required"), nil
			}

			if useMock(sc) {
				return jsonResult(sc.Mock().AsanaTasks(20))
			}

			tasks, err := sc.AsanaClient().ListTasks(ctx, projectID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
			}
			return jsonResult(tasks)
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createTaskTool := mcp.NewTool("asana_create_task",
		mcp.WithDescription("Create a task in an Asana project"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Task name"),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The GID of the project to create the task in"),
		),
		mcp.WithString("notes",
			mcp.Description("Task notes or description"),
		),
		mcp.WithString("due_on",
			mcp.Description("Due date (YYYY-MM-DD)"),
		),
		mcp.WithString("assignee",
			mcp.Description("Assignee GID or email"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedHandlerWithService("asana_create_task", instrumentation.ServiceAsana, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}
			projectID, ok := args["project_id"].(string)
			if !ok || projectID == "" {
				return mcp.NewToolResultError("project_id is required"), nil
			}

			input := asana.TaskInput{
				Name:      name,
				ProjectID: projectID,
			}
			if notes, ok := args["notes"].(string); ok {
				input.Notes = notes
			}
			if dueOn, ok := args["due_on"].(string); ok {
				input.DueOn = dueOn
			}
			if assignee, ok := args["assignee"].(string); ok {
				input.Assignee = assignee
			}

			if useMock(sc) {
				task := sc.Mock().AsanaTasks(1)[0]
				task.Name = name
				task.Notes = input.Notes
				task.Completed = false
				return jsonResult(task)
			}

			task, err := sc.AsanaClient().CreateTask(ctx, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
		}))

	completeTaskTool := mcp.NewTool("asana_complete_task",
		mcp.WithDescription("Mark one or more Asana tasks as completed"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Task GID (string) or array of task GIDs to complete"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedHandlerWithService("asana_complete_task", instrumentation.ServiceAsana, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskIDs, err := batch.ParseStringOrArray(args["task_id"], "task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if useMock(sc) {
				results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
					return fmt.Sprintf("Task %s completed", taskID), nil
				})
				return mcp.NewToolResultText(batch.FormatResults(results)), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				task, err := sc.AsanaClient().CompleteTask(ctx, taskID)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s (%s) completed", taskID, task.Name), nil
			})
			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}
