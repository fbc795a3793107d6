// Package google provides the shared OAuth HTTP client used by the Gmail,
// Calendar, and Drive service wrappers.
package google
