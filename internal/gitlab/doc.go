// Package gitlab provides a minimal client for the GitLab REST v4 API,
// covering projects, merge requests, and pipelines.
package gitlab
