package outlook_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/outlook"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

// DefaultListWindow is how far ahead outlook_list_events looks when no
// explicit range is given.
const DefaultListWindow = 7 * 24 * time.Hour

func getClient(sc *server.ServerContext, account string) *outlook.Client {
	if sc.UseMock() {
		return nil
	}
	return sc.OutlookClientForAccount(account)
}

// RegisterOutlookTools registers all Outlook-related commands with the MCP server
func RegisterOutlookTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listMessagesTool := mcp.NewTool("outlook_list_messages",
		mcp.WithDescription("List recent Outlook inbox messages"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return (default: 20)"),
		),
	)

	s.AddTool(listMessagesTool, common.InstrumentedHandlerWithService("outlook_list_messages", instrumentation.ServiceOutlook, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)
			limit := intArg(args, "limit", 20)

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().OutlookMessages(limit))
			}

			messages, err := client.ListMessages(ctx, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list messages: %v", err)), nil
			}
			return jsonResult(messages)
		}))

	listEventsTool := mcp.NewTool("outlook_list_events",
		mcp.WithDescription("List Outlook calendar events within a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("from",
			mcp.Description("Range start (RFC3339, default: now)"),
		),
		mcp.WithString("to",
			mcp.Description("Range end (RFC3339, default: one week from now)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedHandlerWithService("outlook_list_events", instrumentation.ServiceOutlook, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			from := time.Now()
			if fromStr, ok := args["from"].(string); ok && fromStr != "" {
				t, err := time.Parse(time.RFC3339, fromStr)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("invalid from time: %v", err)), nil
				}
				from = t
			}

			to := from.Add(DefaultListWindow)
			if toStr, ok := args["to"].(string); ok && toStr != "" {
				t, err := time.Parse(time.RFC3339, toStr)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("invalid to time: %v", err)), nil
				}
				to = t
			}

			client := getClient(sc, account)
			if client == nil {
				return jsonResult(sc.Mock().OutlookEvents(10, from, to))
			}

			events, err := client.ListEvents(ctx, from, to)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
			}
			return jsonResult(events)
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	sendMessageTool := mcp.NewTool("outlook_send_message",
		mcp.WithDescription("Send an email from the account's Outlook address"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
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

	s.AddTool(sendMessageTool, common.InstrumentedHandlerWithService("outlook_send_message", instrumentation.ServiceOutlook, instrumentation.OperationSend, sc,
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

			input := outlook.MessageInput{
				To:      parseRecipients(to),
				Subject: subject,
				Body:    body,
			}

			client := getClient(sc, account)
			if client == nil {
				if sc.UseMock() {
					return mcp.NewToolResultText(fmt.Sprintf("Message to %s sent (mock)", to)), nil
				}
				return mcp.NewToolResultError(fmt.Sprintf("no Microsoft account connected for %q", account)), nil
			}

			if err := client.SendMessage(ctx, input); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Message to %s sent successfully", to)), nil
		}))

	createEventTool := mcp.NewTool("outlook_create_event",
		mcp.WithDescription("Create an event on the account's Outlook calendar"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Event start (RFC3339)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Event end (RFC3339)"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("body",
			mcp.Description("Event body text"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedHandlerWithService("outlook_create_event", instrumentation.ServiceOutlook, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			subject, ok := args["subject"].(string)
			if !ok || subject == "" {
				return mcp.NewToolResultError("subject is required"), nil
			}

			startStr, ok := args["start"].(string)
			if !ok || startStr == "" {
				return mcp.NewToolResultError("start is required"), nil
			}
			start, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid start time: %v", err)), nil
			}

			endStr, ok := args["end"].(string)
			if !ok || endStr == "" {
				return mcp.NewToolResultError("end is required"), nil
			}
			end, err := time.Parse(time.RFC3339, endStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid end time: %v", err)), nil
			}
			if !end.After(start) {
				return mcp.NewToolResultError("end must be after start"), nil
			}

			input := outlook.EventInput{
				Subject: subject,
				Start:   start,
				End:     end,
			}
			if location, ok := args["location"].(string); ok {
				input.Location = location
			}
			if body, ok := args["body"].(string); ok {
				input.Body = body
			}
			if attendees, ok := args["attendees"].(string); ok {
				input.Attendees = parseRecipients(attendees)
			}

			client := getClient(sc, account)
			if client == nil {
				if sc.UseMock() {
					events := sc.Mock().OutlookEvents(1, start, end)
					events[0].Subject = subject
					return jsonResult(events[0])
				}
				return mcp.NewToolResultError(fmt.Sprintf("no Microsoft account connected for %q", account)), nil
			}

			event, err := client.CreateEvent(ctx, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
			}

			result, _ := json.MarshalIndent(event, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Event created successfully:\n%s", string(result))), nil
		}))
}

// parseRecipients parses a comma-separated list of email addresses
func parseRecipients(s string) []string {
	var recipients []string
	for _, addr := range strings.Split(s, ",") {
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
