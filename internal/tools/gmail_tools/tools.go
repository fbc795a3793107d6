package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/gmail"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/batch"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

// getClient returns the Gmail client for the account, or nil when the
// command should fall back to generated data.
func getClient(sc *server.ServerContext, account string) *gmail.Client {
	if sc.UseMock() {
		return nil
	}
	return sc.GmailClientForAccount(account)
}

// RegisterGmailTools registers all Gmail-related commands with the MCP server
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listMessagesTool := mcp.NewTool("gmail_list_messages",
		mcp.WithDescription("List recent inbox messages"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return (default: 20)"),
		),
	)

	s.AddTool(listMessagesTool, common.InstrumentedHandlerWithService("gmail_list_messages", instrumentation.ServiceGmail, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)
			limit := intArg(args, "limit", 20)

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().GmailMessages(limit))
			}

			messages, err := client.ListMessages(ctx, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list messages: %v", err)), nil
			}
			return jsonResult(messages)
		}))

	getMessageTool := mcp.NewTool("gmail_get_message",
		mcp.WithDescription("Get a single message including its body"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The message ID"),
		),
	)

	s.AddTool(getMessageTool, common.InstrumentedHandlerWithService("gmail_get_message", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().GmailMessage(messageID))
			}

			message, err := client.GetMessage(ctx, messageID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
			}
			return jsonResult(message)
		}))

	searchTool := mcp.NewTool("gmail_search",
		mcp.WithDescription("Search messages with a Gmail query string"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g. 'from:ci@example.com is:unread')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return (default: 20)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedHandlerWithService("gmail_search", instrumentation.ServiceGmail, instrumentation.OperationSearch, sc,
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
				return jsonResult(sc.Mock().GmailMessages(limit))
			}

			messages, err := client.Search(ctx, query, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to search messages: %v", err)), nil
			}
			return jsonResult(messages)
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	sendMessageTool := mcp.NewTool("gmail_send_message",
		mcp.WithDescription("Send an email from the account's Gmail address"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Comma-separated list of recipient addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Message subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Plain-text message body"),
		),
	)

	s.AddTool(sendMessageTool, common.InstrumentedHandlerWithService("gmail_send_message", instrumentation.ServiceGmail, instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			to, ok := args["to"].(string)
			if !ok || to == "" {
				return mcp.NewToolResultError("to is required"), nil
			}
			subject, ok := args["subject"].(string)
			if !ok || subject == "" {
				return mcp.NewToolResultError("subject is required"), nil
			}
			body, ok := args["body"].(string)
			if !ok || body == "" {
				return mcp.NewToolResultError("body is required"), nil
			}

			input := gmail.MessageInput{
				To:      parseRecipients(to),
				Subject: subject,
				Body:    body,
			}

			client := getClient(sc, account)
			if client == nil {
				if sc.UseMock() {
					return mcp.NewToolResultText(fmt.Sprintf("Message to %s sent (mock)", to)), nil
				}
				return mcp.NewToolResultError(fmt.Sprintf("no Google account connected for %q", account)), nil
			}

			message, err := client.SendMessage(ctx, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
			}

			result, _ := json.MarshalIndent(message, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Message sent successfully:\n%s", string(result))), nil
		}))

	archiveThreadTool := mcp.NewTool("gmail_archive_thread",
		mcp.WithDescription("Archive one or more threads by removing them from the inbox"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("thread_id",
			mcp.Required(),
			mcp.Description("Thread ID (string) or array of thread IDs to archive"),
		),
	)

	s.AddTool(archiveThreadTool, common.InstrumentedHandlerWithService("gmail_archive_thread", instrumentation.ServiceGmail, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			threadIDs, err := batch.ParseStringOrArray(args["thread_id"], "thread_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client := getClient(sc, account)
			if client == nil {
				if sc.UseMock() {
					results := batch.ProcessBatch(threadIDs, func(threadID string) (string, error) {
						return fmt.Sprintf("Thread %s archived (mock)", threadID), nil
					})
					return mcp.NewToolResultText(batch.FormatResults(results)), nil
				}
				return mcp.NewToolResultError(fmt.Sprintf("no Google account connected for %q", account)), nil
			}

			results := batch.ProcessBatch(threadIDs, func(threadID string) (string, error) {
				if err := client.ArchiveThread(ctx, threadID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Thread %s archived", threadID), nil
			})
			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
}

// parseRecipients parses a comma-separated list of email addresses
func parseRecipients(to string) []string {
	var recipients []string
	for _, addr := range strings.Split(to, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	return recipients
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
