// Package ratelimit bounds outbound request rates for API clients.
//
// The previous fixed-window implementation counted requests per one-second
// window and slept callers for the remainder of the window. That
// check-then-sleep sequence raced under concurrent use: several callers
// could observe the same count and all sleep the same duration. This
// package serializes waits through golang.org/x/time/rate reservations
// instead.
package ratelimit
