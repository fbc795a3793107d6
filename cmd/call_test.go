package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestJSONRPCError(t *testing.T) {
	tests := []struct {
		name string
		msg  interface{}
		want string
	}{
		{
			name: "success response",
			msg: map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      1,
				"result":  map[string]interface{}{},
			},
			want: "",
		},
		{
			name: "error response",
			msg: map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      1,
				"error": map[string]interface{}{
					"code":    -32601,
					"message": "method not found",
				},
			},
			want: "method not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsonRPCError(tt.msg); got != tt.want {
				t.Errorf("jsonRPCError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintToolResultError(t *testing.T) {
	msg := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      2,
		"result": map[string]interface{}{
			"isError": true,
			"content": []map[string]interface{}{
				{"type": "text", "text": "Failed to list messages: boom"},
			},
		},
	}

	err := printToolResult(msg)
	if err == nil {
		t.Fatal("expected error for isError result")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not contain tool error text", err)
	}
}

// Exercises the in-process message path end to end against a mock-mode
// server: initialize, then call a read command.
func TestHandleMessageRoundTrip(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))

	if err := registerAllTools(s, sc, true); err != nil {
		t.Fatalf("registerAllTools() error = %v", err)
	}

	ctx := context.Background()

	initMsg := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.0"}}}`)
	if errMsg := jsonRPCError(s.HandleMessage(ctx, initMsg)); errMsg != "" {
		t.Fatalf("initialize failed: %s", errMsg)
	}

	callMsg := []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"asana_list_workspaces","arguments":{}}}`)
	response := s.HandleMessage(ctx, callMsg)
	if errMsg := jsonRPCError(response); errMsg != "" {
		t.Fatalf("tools/call failed: %s", errMsg)
	}

	raw, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var envelope struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Result.IsError {
		t.Fatalf("tool returned error: %+v", envelope.Result.Content)
	}
	if len(envelope.Result.Content) == 0 || envelope.Result.Content[0].Text == "" {
		t.Error("expected non-empty text content from mock workspaces")
	}
}
