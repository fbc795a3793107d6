package githubapi

import "time"

// Repo represents a GitHub repository
type Repo struct {
	FullName    string
	Description string
	Private     bool
	HTMLURL     string
	UpdatedAt   time.Time
}

// Issue represents a GitHub issue
type Issue struct {
	Number    int
	Title     string
	Body      string
	State     string // "open" or "closed"
	Author    string
	Labels    []string
	HTMLURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PullRequest represents a GitHub pull request
type PullRequest struct {
	Number    int
	Title     string
	State     string
	Author    string
	Head      string
	Base      string
	Draft     bool
	HTMLURL   string
	CreatedAt time.Time
}

// IssueInput represents the input for creating an issue
type IssueInput struct {
	Title  string
	Body   string
	Labels []string
}

// GitHub API response types
type githubRepo struct {
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type githubIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	HTMLURL     string    `json:"html_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

type githubPull struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Draft     bool      `json:"draft"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
}

// toRepo converts a GitHub API repository to our Repo type
func toRepo(r githubRepo) Repo {
	return Repo{
		FullName:    r.FullName,
		Description: r.Description,
		Private:     r.Private,
		HTMLURL:     r.HTMLURL,
		UpdatedAt:   r.UpdatedAt,
	}
}

// toIssue converts a GitHub API issue to our Issue type
func toIssue(i githubIssue) Issue {
	labels := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = l.Name
	}
	return Issue{
		Number:    i.Number,
		Title:     i.Title,
		Body:      i.Body,
		State:     i.State,
		Author:    i.User.Login,
		Labels:    labels,
		HTMLURL:   i.HTMLURL,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// toPullRequest converts a GitHub API pull request to our PullRequest type
func toPullRequest(p githubPull) PullRequest {
	return PullRequest{
		Number:    p.Number,
		Title:     p.Title,
		State:     p.State,
		Author:    p.User.Login,
		Head:      p.Head.Ref,
		Base:      p.Base.Ref,
		Draft:     p.Draft,
		HTMLURL:   p.HTMLURL,
		CreatedAt: p.CreatedAt,
	}
}
