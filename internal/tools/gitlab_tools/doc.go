// Package gitlab_tools provides read-only commands for GitLab projects,
// merge requests and CI pipelines via the GitLab REST v4 API.
package gitlab_tools
