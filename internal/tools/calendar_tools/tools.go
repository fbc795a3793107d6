package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/calendar"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

// DefaultListWindow is how far ahead calendar_list_events looks when no
// explicit range is given.
const DefaultListWindow = 7 * 24 * time.Hour

func getClient(sc *server.ServerContext, account string) *calendar.Client {
	if sc.UseMock() {
		return nil
	}
	return sc.CalendarClientForAccount(account)
}

// RegisterCalendarTools registers all Calendar-related commands with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List events on the primary calendar within a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("from",
			mcp.Description("Range start (RFC3339, default: now)"),
		),
		mcp.WithString("to",
			mcp.Description("Range end (RFC3339, default: one week from now)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedHandlerWithService("calendar_list_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
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
				return jsonResult(sc.Mock().CalendarEvents(10, from, to))
			}

			events, err := client.ListEvents(ctx, from, to)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
			}
			return jsonResult(events)
		}))

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create an event on the primary calendar"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("summary",
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
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedHandlerWithService("calendar_create_event", instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			summary, ok := args["summary"].(string)
			if !ok || summary == "" {
				return mcp.NewToolResultError("summary is required"), nil
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

			input := calendar.EventInput{
				Summary: summary,
				Start:   start,
				End:     end,
			}
			if location, ok := args["location"].(string); ok {
				input.Location = location
			}
			if description, ok := args["description"].(string); ok {
				input.Description = description
			}
			if attendees, ok := args["attendees"].(string); ok {
				input.Attendees = parseAttendees(attendees)
			}

			client := getClient(sc, account)
			if client == nil {
				if sc.UseMock() {
					events := sc.Mock().CalendarEvents(1, start, end)
					events[0].Summary = summary
					return jsonResult(events[0])
				}
				return mcp.NewToolResultError(fmt.Sprintf("no Google account connected for %q", account)), nil
			}

			event, err := client.CreateEvent(ctx, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
			}

			result, _ := json.MarshalIndent(event, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Event created successfully:\n%s", string(result))), nil
		}))

	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete an event from the primary calendar"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)

	s.AddTool(deleteEventTool, common.InstrumentedHandlerWithService("calendar_delete_event", instrumentation.ServiceCalendar, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			eventID, ok := args["event_id"].(string)
			if !ok || eventID == "" {
				return mcp.NewToolResultError("event_id is required"), nil
			}

			client := getClient(sc, account)
			if client == nil {
				if sc.UseMock() {
					return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted (mock)", eventID)), nil
				}
				return mcp.NewToolResultError(fmt.Sprintf("no Google account connected for %q", account)), nil
			}

			if err := client.DeleteEvent(ctx, eventID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted successfully", eventID)), nil
		}))

	return nil
}

// parseAttendees parses a comma-separated list of email addresses
func parseAttendees(attendeesStr string) []string {
	var attendees []string
	for _, email := range strings.Split(attendeesStr, ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			attendees = append(attendees, email)
		}
	}
	return attendees
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}
