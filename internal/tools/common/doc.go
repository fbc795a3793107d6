// Package common provides shared utilities for command implementations.
// It contains the account argument helper and the instrumented handler
// wrapper used across all command packages.
package common
