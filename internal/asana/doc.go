// Package asana provides a minimal client for the Asana REST API,
// covering workspaces, projects, and tasks. Authentication uses a
// personal access token.
package asana
