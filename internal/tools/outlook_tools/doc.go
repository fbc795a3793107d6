// Package outlook_tools provides commands for Outlook mail and calendar via
// the Microsoft Graph API.
package outlook_tools
