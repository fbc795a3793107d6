package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the atomd application
var rootCmd = &cobra.Command{
	Use:   "atomd",
	Short: "Local command server for the Atom desktop shell",
	Long: `atomd is the local backend the Atom desktop shell talks to. It exposes
named JSON-in/JSON-out commands for Asana, GitHub, GitLab, Gmail, Google
Calendar, Google Drive and Outlook, plus a pass-through to the local
backend process.

It can run as:
  - An MCP server over stdio for the embedded shell (default)
  - An MCP server over streamable HTTP
  - A one-shot command invoker from the terminal (atomd call)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "atomd version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newVersionCmd())
}
