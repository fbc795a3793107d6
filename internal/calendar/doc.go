// Package calendar wraps the Google Calendar API for the primary calendar.
package calendar
