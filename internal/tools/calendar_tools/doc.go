// Package calendar_tools provides commands for listing, creating and
// deleting events on the account's primary Google Calendar.
package calendar_tools
