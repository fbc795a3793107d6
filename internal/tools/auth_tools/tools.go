package auth_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/common"
)

// knownProviders is the order providers appear in status reports.
var knownProviders = []string{auth.ProviderGoogle, auth.ProviderMicrosoft, auth.ProviderGitHub}

// connectionStatus is one row of the auth_connection_status report.
type connectionStatus struct {
	Provider string `json:"provider"`
	Account  string `json:"account"`
	Status   string `json:"status"`
}

// RegisterAuthTools registers account connection commands with the MCP server
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	statusTool := mcp.NewTool("auth_connection_status",
		mcp.WithDescription("Report the connection state (connected, expired or not_connected) per provider for an account"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default')"),
		),
		mcp.WithString("provider",
			mcp.Description("Limit the report to one provider: google, microsoft or github"),
		),
	)

	s.AddTool(statusTool, common.InstrumentedHandler("auth_connection_status", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			providers := knownProviders
			if p, ok := args["provider"].(string); ok && p != "" {
				if _, known := sc.Auth().Provider(p); !known {
					return mcp.NewToolResultError(fmt.Sprintf("unknown provider %q", p)), nil
				}
				providers = []string{p}
			}

			statuses := make([]connectionStatus, 0, len(providers))
			for _, p := range providers {
				statuses = append(statuses, connectionStatus{
					Provider: p,
					Account:  account,
					Status:   string(sc.Auth().Status(p, account)),
				})
			}

			result, _ := json.MarshalIndent(statuses, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	authURLTool := mcp.NewTool("auth_auth_url",
		mcp.WithDescription("Get the consent URL for connecting a provider account"),
		mcp.WithString("provider",
			mcp.Required(),
			mcp.Description("Provider to authorize: google, microsoft or github"),
		),
	)

	s.AddTool(authURLTool, common.InstrumentedHandler("auth_auth_url", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			providerName, ok := args["provider"].(string)
			if !ok || providerName == "" {
				return mcp.NewToolResultError("provider is required"), nil
			}

			provider, ok := sc.Auth().Provider(providerName)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("unknown provider %q", providerName)), nil
			}

			// The UI holds on to the state value and passes it back with the
			// authorization code.
			state := uuid.NewString()
			result, _ := json.MarshalIndent(map[string]string{
				"auth_url": provider.AuthURL(state),
				"state":    state,
			}, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	saveCodeTool := mcp.NewTool("auth_save_auth_code",
		mcp.WithDescription("Exchange an authorization code and persist the resulting token"),
		mcp.WithString("provider",
			mcp.Required(),
			mcp.Description("Provider the code belongs to: google, microsoft or github"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The authorization code from the consent flow"),
		),
		mcp.WithString("account",
			mcp.Description("Account name to store the token under (default: 'default')"),
		),
	)

	s.AddTool(saveCodeTool, common.InstrumentedHandler("auth_save_auth_code", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := common.GetAccountFromArgs(args)

			providerName, ok := args["provider"].(string)
			if !ok || providerName == "" {
				return mcp.NewToolResultError("provider is required"), nil
			}
			code, ok := args["code"].(string)
			if !ok || code == "" {
				return mcp.NewToolResultError("code is required"), nil
			}

			if err := sc.Auth().Connect(ctx, providerName, account, code); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to save authorization: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Account %q connected to %s", account, providerName)), nil
		}))

	if !readOnly {
		disconnectTool := mcp.NewTool("auth_disconnect",
			mcp.WithDescription("Remove the stored credential for a provider account"),
			mcp.WithString("provider",
				mcp.Required(),
				mcp.Description("Provider to disconnect: google, microsoft or github"),
			),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default')"),
			),
		)

		s.AddTool(disconnectTool, common.InstrumentedHandler("auth_disconnect", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args, _ := request.Params.Arguments.(map[string]interface{})
				account := common.GetAccountFromArgs(args)

				providerName, ok := args["provider"].(string)
				if !ok || providerName == "" {
					return mcp.NewToolResultError("provider is required"), nil
				}
				if _, known := sc.Auth().Provider(providerName); !known {
					return mcp.NewToolResultError(fmt.Sprintf("unknown provider %q", providerName)), nil
				}

				if err := sc.Auth().Disconnect(providerName, account); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to disconnect: %v", err)), nil
				}

				// Cached clients hold the old token source.
				sc.InvalidateAccount(account)

				return mcp.NewToolResultText(fmt.Sprintf("Account %q disconnected from %s", account, providerName)), nil
			}))
	}

	return nil
}
