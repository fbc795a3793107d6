package gitlab

import "time"

// Project represents a GitLab project
type Project struct {
	ID                int
	PathWithNamespace string
	Description       string
	DefaultBranch     string
	WebURL            string
	LastActivityAt    time.Time
}

// MergeRequest represents a GitLab merge request
type MergeRequest struct {
	IID          int
	Title        string
	State        string // "opened", "merged", "closed"
	Author       string
	SourceBranch string
	TargetBranch string
	Draft        bool
	WebURL       string
	CreatedAt    time.Time
}

// Pipeline represents a GitLab CI pipeline
type Pipeline struct {
	ID        int
	Status    string
	Ref       string
	SHA       string
	WebURL    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GitLab API response types
type gitlabProject struct {
	ID                int       `json:"id"`
	PathWithNamespace string    `json:"path_with_namespace"`
	Description       string    `json:"description"`
	DefaultBranch     string    `json:"default_branch"`
	WebURL            string    `json:"web_url"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

type gitlabMergeRequest struct {
	IID    int    `json:"iid"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Author struct {
		Username string `json:"username"`
	} `json:"author"`
	SourceBranch string    `json:"source_branch"`
	TargetBranch string    `json:"target_branch"`
	Draft        bool      `json:"draft"`
	WebURL       string    `json:"web_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type gitlabPipeline struct {
	ID        int       `json:"id"`
	Status    string    `json:"status"`
	Ref       string    `json:"ref"`
	SHA       string    `json:"sha"`
	WebURL    string    `json:"web_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toProject converts a GitLab API project to our Project type
func toProject(p gitlabProject) Project {
	return Project{
		ID:                p.ID,
		PathWithNamespace: p.PathWithNamespace,
		Description:       p.Description,
		DefaultBranch:     p.DefaultBranch,
		WebURL:            p.WebURL,
		LastActivityAt:    p.LastActivityAt,
	}
}

// toMergeRequest converts a GitLab API merge request to our MergeRequest type
func toMergeRequest(mr gitlabMergeRequest) MergeRequest {
	return MergeRequest{
		IID:          mr.IID,
		Title:        mr.Title,
		State:        mr.State,
		Author:       mr.Author.Username,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		Draft:        mr.Draft,
		WebURL:       mr.WebURL,
		CreatedAt:    mr.CreatedAt,
	}
}

// toPipeline converts a GitLab API pipeline to our Pipeline type
func toPipeline(p gitlabPipeline) Pipeline {
	return Pipeline{
		ID:        p.ID,
		Status:    p.Status,
		Ref:       p.Ref,
		SHA:       p.SHA,
		WebURL:    p.WebURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
