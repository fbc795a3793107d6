// Package github_tools provides commands for GitHub repositories, issues and
// pull requests via the GitHub REST API.
package github_tools
