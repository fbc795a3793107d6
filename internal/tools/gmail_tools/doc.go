// Package gmail_tools provides commands for listing, searching, sending and
// archiving Gmail messages. Outbound API calls go through the per-account
// rate limiter held by the server context.
package gmail_tools
