// Package outlook provides a minimal Microsoft Graph client for Outlook
// mail and calendar. Tokens come from a TokenFunc so the credential
// manager can refresh them between requests.
package outlook
