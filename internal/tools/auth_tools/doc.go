// Package auth_tools provides commands for connecting, inspecting and
// disconnecting provider accounts: consent URLs, authorization code
// exchange and per-provider connection status.
package auth_tools
