package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/config"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/logging"
	"github.com/rush86999/atom-sub000/internal/server"
	"github.com/rush86999/atom-sub000/internal/tools/asana_tools"
	"github.com/rush86999/atom-sub000/internal/tools/auth_tools"
	"github.com/rush86999/atom-sub000/internal/tools/backend_tools"
	"github.com/rush86999/atom-sub000/internal/tools/calendar_tools"
	"github.com/rush86999/atom-sub000/internal/tools/drive_tools"
	"github.com/rush86999/atom-sub000/internal/tools/github_tools"
	"github.com/rush86999/atom-sub000/internal/tools/gitlab_tools"
	"github.com/rush86999/atom-sub000/internal/tools/gmail_tools"
	"github.com/rush86999/atom-sub000/internal/tools/outlook_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., "localhost:9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		yolo           bool
		configPath     string
		mockMode       bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the command server",
		Long: `Start the command server the desktop shell connects to.

Supports multiple transport types:
  - stdio: Standard input/output (default, used by the embedded shell)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (sending mail, creating
  and deleting events, disconnecting accounts).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			return runServe(transport, debugMode, httpAddr, yolo, configPath, mockMode, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "localhost:8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (sending mail, creating events, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML config file. Env vars override file values.")
	cmd.Flags().BoolVar(&mockMode, "mock", false, "Serve generated fixture data for every command. Can also use USE_MOCK env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport string, debugMode bool, httpAddr string, yolo bool, configPath string, mockMode bool, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.Setup(debugMode)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if mockMode {
		cfg.UseMock = true
	}

	if metricsConfig.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}
	if os.Getenv("METRICS_ENABLED") == "false" {
		metricsConfig.Enabled = false
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

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil && transport != "stdio" {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	serverContext := server.NewServerContext(shutdownCtx, &cfg, manager, logger)
	defer func() {
		if err := serverContext.Shutdown(); err != nil && transport != "stdio" {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))

		// Token refresh outcomes feed the refresh counter.
		metrics := provider.Metrics()
		manager.SetRefreshObserver(func(providerName, result string) {
			metrics.RecordTokenRefresh(shutdownCtx, providerName, result)
		})
	}

	// Start metrics server if enabled and not in stdio mode (stdio owns the
	// process's stdout and typically runs embedded, where a metrics port is
	// just an attack surface).
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		healthChecker := server.NewHealthChecker(serverContext)

		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			HealthChecker:           healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server stopped with error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}()
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("atomd", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	if transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, httpAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv)

	fmt.Printf("Starting atomd with streamable-http transport on %s\n", addr)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}

// registerAllTools registers every command family with the MCP server.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Asana",
			register: func() error {
				return asana_tools.RegisterAsanaTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "GitHub",
			register: func() error {
				return github_tools.RegisterGitHubTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "GitLab",
			register: func() error {
				return gitlab_tools.RegisterGitLabTools(mcpSrv, sc)
			},
		},
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, sc)
			},
		},
		{
			name: "Outlook",
			register: func() error {
				return outlook_tools.RegisterOutlookTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Auth",
			register: func() error {
				return auth_tools.RegisterAuthTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Backend",
			register: func() error {
				return backend_tools.RegisterBackendTools(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
