package github_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/githubapi"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

func useMock(sc *server.ServerContext) bool {
	return sc.UseMock() || sc.GitHubClient() == nil
}

// RegisterGitHubTools registers all GitHub-related commands with the MCP server
func RegisterGitHubTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listReposTool := mcp.NewTool("github_list_repos",
		mcp.WithDescription("List repositories for the authenticated user, most recently updated first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of repositories to return (default: 30)"),
		),
	)

	s.AddTool(listReposTool, common.InstrumentedHandlerWithService("github_list_repos", instrumentation.ServiceGitHub, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			limit := intArg(args, "limit", 30)

			if useMock(sc) {
				return jsonResult(sc.Mock().GitHubRepos(limit))
			}

			repos, err := sc.GitHubClient().ListRepos(ctx, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list repositories: %v", err)), nil
			}
			return jsonResult(repos)
		}))

	listIssuesTool := mcp.NewTool("github_list_issues",
		mcp.WithDescription("List issues in a repository (pull requests excluded)"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Repository owner"),
		),
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("Repository name"),
		),
		mcp.WithString("state",
			mcp.Description("Issue state: open, closed or all (default: open)"),
		),
	)

	s.AddTool(listIssuesTool, common.InstrumentedHandlerWithService("github_list_issues", instrumentation.ServiceGitHub, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			owner, ok := args["owner"].(string)
			if !ok || owner == "" {
				return mcp.NewToolResultError("owner is required"), nil
			}
			repo, ok := args["repo"].(string)
			if !ok || repo == "" {
				return mcp.NewToolResultError("repo is required"), nil
			}
			state, _ := args["state"].(string)

			if useMock(sc) {
				return jsonResult(sc.Mock().GitHubIssues(15))
			}

			issues, err := sc.GitHubClient().ListIssues(ctx, owner, repo, state)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list issues: %v", err)), nil
			}
			return jsonResult(issues)
		}))

	getIssueTool := mcp.NewTool("github_get_issue",
		mcp.WithDescription("Get a single issue by number"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Repository owner"),
		),
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("Repository name"),
		),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Issue number"),
		),
	)

	s.AddTool(getIssueTool, common.InstrumentedHandlerWithService("github_get_issue", instrumentation.ServiceGitHub, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			owner, ok := args["owner"].(string)
			if !ok || owner == "" {
				return mcp.NewToolResultError("owner is required"), nil
			}
			repo, ok := args["repo"].(string)
			if !ok || repo == "" {
				return mcp.NewToolResultError("repo is required"), nil
			}
			number := intArg(args, "number", 0)
			if number <= 0 {
				return mcp.NewToolResultError("number is required"), nil
			}

			if useMock(sc) {
				return jsonResult(sc.Mock().GitHubIssue(number))
			}

			issue, err := sc.GitHubClient().GetIssue(ctx, owner, repo, number)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get issue: %v", err)), nil
			}
			return jsonResult(issue)
		}))

	listPullRequestsTool := mcp.NewTool("github_list_pull_requests",
		mcp.WithDescription("List pull requests in a repository"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Repository owner"),
		),
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("Repository name"),
		),
		mcp.WithString("state",
			mcp.Description("Pull request state: open, closed or all (default: open)"),
		),
	)

	s.AddTool(listPullRequestsTool, common.InstrumentedHandlerWithService("github_list_pull_requests", instrumentation.ServiceGitHub, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			owner, ok := args["owner"].(string)
			if !ok || owner == "" {
				return mcp.NewToolResultError("owner is required"), nil
			}
			repo, ok := args["repo"].(string)
			if !ok || repo == "" {
				return mcp.NewToolResultError("repo is required"), nil
			}
			state, _ := args["state"].(string)

			if useMock(sc) {
				return jsonResult(sc.Mock().GitHubPullRequests(10))
			}

			prs, err := sc.GitHubClient().ListPullRequests(ctx, owner, repo, state)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list pull requests: %v", err)), nil
			}
			return jsonResult(prs)
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createIssueTool := mcp.NewTool("github_create_issue",
		mcp.WithDescription("Create an issue in a repository"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Repository owner"),
		),
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("Repository name"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Issue title"),
		),
		mcp.WithString("body",
			mcp.Description("Issue body"),
		),
		mcp.WithString("labels",
			mcp.Description("Comma-separated list of labels"),
		),
	)

	s.AddTool(createIssueTool, common.InstrumentedHandlerWithService("github_create_issue", instrumentation.ServiceGitHub, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			owner, ok := args["owner"].(string)
			if !ok || owner == "" {
				return mcp.NewToolResultError("owner is required"), nil
			}
			repo, ok := args["repo"].(string)
			if !ok || repo == "" {
				return mcp.NewToolResultError("repo is required"), nil
			}
			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}

			input := githubapi.IssueInput{Title: title}
			if body, ok := args["body"].(string); ok {
				input.Body = body
			}
			if labels, ok := args["labels"].(string); ok && labels != "" {
				input.Labels = splitCommaList(labels)
			}

			if useMock(sc) {
				issue := sc.Mock().GitHubIssue(1)
				issue.Title = title
				issue.Body = input.Body
				issue.State = "open"
				return jsonResult(issue)
			}

			issue, err := sc.GitHubClient().CreateIssue(ctx, owner, repo, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create issue: %v", err)), nil
			}

			result, _ := json.MarshalIndent(issue, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Issue created successfully:\n%s", string(result))), nil
		}))
}

// intArg reads a numeric argument; JSON numbers decode as float64.
func intArg(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return def
}

// splitCommaList parses a comma-separated list, dropping empty entries.
func splitCommaList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}
