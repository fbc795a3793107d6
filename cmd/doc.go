// Package cmd implements the atomd command-line interface.
//
// The root command defaults to serve, which runs the MCP server the desktop
// shell connects to over stdio (or streamable HTTP for out-of-process use).
// The call subcommand invokes a single named command from the terminal and
// prints its JSON result, which is handy for scripting and for checking
// account connections without starting the shell.
package cmd
