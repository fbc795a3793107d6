// Package githubapi provides a minimal client for the GitHub REST API,
// covering repositories, issues, and pull requests.
package githubapi
