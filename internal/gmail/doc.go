// Package gmail wraps the Gmail API for listing, searching, sending, and
// archiving mail. Outbound calls are rate limited per account.
package gmail
