package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/config"
	"github.com/rush86999/atom-sub000/internal/logging"
	"github.com/rush86999/atom-sub000/internal/server"
)

func newCallCmd() *cobra.Command {
	var (
		paramsJSON string
		yolo       bool
		configPath string
		mockMode   bool
		debugMode  bool
	)

	cmd := &cobra.Command{
		Use:   "call <command>",
		Short: "Invoke a single command and print the result",
		Long: `Invoke a named command directly from the terminal, without a connected
shell. Useful for scripting and for testing account connections.

Examples:
  atomd call gmail_list_messages --params '{"limit": 5}'
  atomd call asana_list_workspaces
  atomd call calendar_create_event --yolo --params '{"summary": "Standup", ...}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(args[0], paramsJSON, yolo, configPath, mockMode, debugMode)
		},
	}

	cmd.Flags().StringVar(&paramsJSON, "params", "{}", "Command parameters as a JSON object")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations. Default is read-only mode.")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML config file. Env vars override file values.")
	cmd.Flags().BoolVar(&mockMode, "mock", false, "Serve generated fixture data instead of calling real APIs")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runCall(command, paramsJSON string, yolo bool, configPath string, mockMode, debugMode bool) error {
	var arguments map[string]interface{}
	if err := json.Unmarshal([]byte(paramsJSON), &arguments); err != nil {
		return fmt.Errorf("invalid --params JSON: %w", err)
	}

	ctx := context.Background()
	logger := logging.Setup(debugMode)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if mockMode {
		cfg.UseMock = true
	}

	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}
	manager := auth.NewManager(store,
		auth.NewGoogleProvider(cfg.Google),
		auth.NewMicrosoftProvider(cfg.Microsoft),
		auth.NewGitHubProvider(cfg.GitHubApp),
	)

	serverContext := server.NewServerContext(ctx, &cfg, manager, logger)
	defer func() { _ = serverContext.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("atomd", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := registerAllTools(mcpSrv, serverContext, !yolo); err != nil {
		return err
	}

	// Drive the server directly over its message handler: initialize the
	// session, then issue a single tools/call.
	initMsg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]interface{}{
			"protocolVersion": "2025-03-26",
			"capabilities":    map[string]interface{}{},
			"clientInfo": map[string]interface{}{
				"name":    "atomd-call",
				"version": version,
			},
		},
	})
	if err != nil {
		return err
	}
	if errMsg := jsonRPCError(mcpSrv.HandleMessage(ctx, initMsg)); errMsg != "" {
		return fmt.Errorf("initialize failed: %s", errMsg)
	}

	callMsg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      command,
			"arguments": arguments,
		},
	})
	if err != nil {
		return err
	}

	response := mcpSrv.HandleMessage(ctx, callMsg)
	if errMsg := jsonRPCError(response); errMsg != "" {
		return fmt.Errorf("%s failed: %s", command, errMsg)
	}

	return printToolResult(response)
}

// jsonRPCError returns the error message of a JSON-RPC error response, or ""
// for a success response.
func jsonRPCError(msg interface{}) string {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err.Error()
	}
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err.Error()
	}
	if envelope.Error != nil {
		return envelope.Error.Message
	}
	return ""
}

// printToolResult prints the text content of a tools/call response. Tool-level
// errors (isError in the result) become process errors so scripts see a
// non-zero exit status.
func printToolResult(msg interface{}) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
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
		return err
	}

	for _, content := range envelope.Result.Content {
		if content.Type == "text" {
			if envelope.Result.IsError {
				return fmt.Errorf("%s", content.Text)
			}
			fmt.Println(content.Text)
		}
	}
	return nil
}
