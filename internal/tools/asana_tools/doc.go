// Package asana_tools provides commands for Asana workspaces, projects and
// tasks. Commands serve generated data when mock mode is on or no Asana
// token is configured.
package asana_tools
