// Package batch provides helpers for commands that operate on one item or
// many: argument parsing for string-or-array parameters, per-item execution
// with isolated failures, and aggregated JSON result formatting.
package batch
