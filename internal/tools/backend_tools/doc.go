// Package backend_tools provides the generic pass-through to the local
// backend process: command forwarding and a health probe.
package backend_tools
