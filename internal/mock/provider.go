package mock

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/rush86999/atom-sub000/internal/asana"
	"github.com/rush86999/atom-sub000/internal/calendar"
	"github.com/rush86999/atom-sub000/internal/drive"
	"github.com/rush86999/atom-sub000/internal/githubapi"
	"github.com/rush86999/atom-sub000/internal/gitlab"
	"github.com/rush86999/atom-sub000/internal/gmail"
	"github.com/rush86999/atom-sub000/internal/outlook"
)

// Provider generates realistic fixture data for every service integration.
// It stands in for the real clients when mock mode is enabled or no
// credentials are configured.
type Provider struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// New creates a provider with a random seed.
func New() *Provider {
	return NewSeeded(0)
}

// NewSeeded creates a provider with a fixed seed for deterministic output.
func NewSeeded(seed int64) *Provider {
	return &Provider{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// AsanaWorkspaces generates n Asana workspaces.
func (p *Provider) AsanaWorkspaces(n int) []asana.Workspace {
	workspaces := make([]asana.Workspace, n)
	for i := range workspaces {
		workspaces[i] = asana.Workspace{
			GID:  p.gid(),
			Name: p.faker.Company(),
		}
	}
	return workspaces
}

// AsanaProjects generates n Asana projects.
func (p *Provider) AsanaProjects(n int) []asana.Project {
	projects := make([]asana.Project, n)
	for i := range projects {
		projects[i] = asana.Project{
			GID:      p.gid(),
			Name:     p.faker.ProductName(),
			Archived: p.faker.Number(0, 9) == 0,
		}
	}
	return projects
}

// AsanaTasks generates n Asana tasks.
func (p *Provider) AsanaTasks(n int) []asana.Task {
	tasks := make([]asana.Task, n)
	for i := range tasks {
		task := asana.Task{
			GID:       p.gid(),
			Name:      p.verbPhrase(),
			Notes:     p.faker.Sentence(10),
			Completed: p.faker.Bool(),
			Assignee:  p.faker.Name(),
			CreatedAt: p.pastTime(30 * 24 * time.Hour),
		}
		if p.faker.Bool() {
			task.DueOn = p.now().AddDate(0, 0, p.faker.Number(1, 14)).Format("2006-01-02")
		}
		tasks[i] = task
	}
	return tasks
}

// GitHubRepos generates n GitHub repositories.
func (p *Provider) GitHubRepos(n int) []githubapi.Repo {
	owner := strings.ToLower(p.faker.Username())
	repos := make([]githubapi.Repo, n)
	for i := range repos {
		name := p.repoName()
		repos[i] = githubapi.Repo{
			FullName:    owner + "/" + name,
			Description: p.faker.Sentence(8),
			Private:     p.faker.Bool(),
			HTMLURL:     "https://github.com/" + owner + "/" + name,
			UpdatedAt:   p.pastTime(14 * 24 * time.Hour),
		}
	}
	return repos
}

// GitHubIssues generates n open GitHub issues.
func (p *Provider) GitHubIssues(n int) []githubapi.Issue {
	issues := make([]githubapi.Issue, n)
	for i := range issues {
		created := p.pastTime(60 * 24 * time.Hour)
		issues[i] = githubapi.Issue{
			Number:    p.faker.Number(1, 2000),
			Title:     p.issueTitle(),
			Body:      p.faker.Paragraph(1, 3, 12, " "),
			State:     "open",
			Author:    strings.ToLower(p.faker.Username()),
			Labels:    p.labels(),
			CreatedAt: created,
			UpdatedAt: created.Add(time.Duration(p.faker.Number(1, 72)) * time.Hour),
		}
	}
	return issues
}

// GitHubIssue generates a single issue with the requested number.
func (p *Provider) GitHubIssue(number int) githubapi.Issue {
	issue := p.GitHubIssues(1)[0]
	issue.Number = number
	return issue
}

// GitHubPullRequests generates n GitHub pull requests.
func (p *Provider) GitHubPullRequests(n int) []githubapi.PullRequest {
	pulls := make([]githubapi.PullRequest, n)
	for i := range pulls {
		pulls[i] = githubapi.PullRequest{
			Number:    p.faker.Number(1, 2000),
			Title:     p.issueTitle(),
			State:     "open",
			Author:    strings.ToLower(p.faker.Username()),
			Head:      p.branchName(),
			Base:      "main",
			Draft:     p.faker.Number(0, 4) == 0,
			CreatedAt: p.pastTime(14 * 24 * time.Hour),
		}
	}
	return pulls
}

// GitLabProjects generates n GitLab projects.
func (p *Provider) GitLabProjects(n int) []gitlab.Project {
	group := strings.ToLower(p.faker.Username())
	projects := make([]gitlab.Project, n)
	for i := range projects {
		name := p.repoName()
		projects[i] = gitlab.Project{
			ID:                p.faker.Number(100, 99999),
			PathWithNamespace: group + "/" + name,
			Description:       p.faker.Sentence(8),
			DefaultBranch:     "main",
			WebURL:            "https://gitlab.com/" + group + "/" + name,
			LastActivityAt:    p.pastTime(7 * 24 * time.Hour),
		}
	}
	return projects
}

// GitLabMergeRequests generates n GitLab merge requests.
func (p *Provider) GitLabMergeRequests(n int) []gitlab.MergeRequest {
	mrs := make([]gitlab.MergeRequest, n)
	for i := range mrs {
		mrs[i] = gitlab.MergeRequest{
			IID:          p.faker.Number(1, 500),
			Title:        p.issueTitle(),
			State:        "opened",
			Author:       strings.ToLower(p.faker.Username()),
			SourceBranch: p.branchName(),
			TargetBranch: "main",
			Draft:        p.faker.Number(0, 4) == 0,
			CreatedAt:    p.pastTime(10 * 24 * time.Hour),
		}
	}
	return mrs
}

// GitLabPipelines generates n GitLab pipelines.
func (p *Provider) GitLabPipelines(n int) []gitlab.Pipeline {
	statuses := []string{"success", "success", "success", "failed", "running", "pending"}
	pipelines := make([]gitlab.Pipeline, n)
	for i := range pipelines {
		created := p.pastTime(3 * 24 * time.Hour)
		pipelines[i] = gitlab.Pipeline{
			ID:        p.faker.Number(1000, 99999),
			Status:    statuses[p.faker.Number(0, len(statuses)-1)],
			Ref:       "main",
			SHA:       p.sha(),
			CreatedAt: created,
			UpdatedAt: created.Add(time.Duration(p.faker.Number(2, 20)) * time.Minute),
		}
	}
	return pipelines
}

// GitLabPipeline generates a single pipeline with the requested ID.
func (p *Provider) GitLabPipeline(id int) gitlab.Pipeline {
	pipeline := p.GitLabPipelines(1)[0]
	pipeline.ID = id
	return pipeline
}

// GmailMessages generates n Gmail messages.
func (p *Provider) GmailMessages(n int) []gmail.Message {
	messages := make([]gmail.Message, n)
	for i := range messages {
		labels := []string{"INBOX"}
		if p.faker.Bool() {
			labels = append(labels, "UNREAD")
		}
		messages[i] = gmail.Message{
			ID:       p.hexID(16),
			ThreadID: p.hexID(16),
			From:     p.faker.Email(),
			To:       p.faker.Email(),
			Subject:  p.emailSubject(),
			Snippet:  p.faker.Sentence(12),
			Date:     p.pastTime(7 * 24 * time.Hour),
			Labels:   labels,
		}
	}
	return messages
}

// GmailMessage generates a single message with a body, using the given ID.
func (p *Provider) GmailMessage(id string) gmail.Message {
	msg := p.GmailMessages(1)[0]
	msg.ID = id
	msg.Body = p.faker.Paragraph(2, 4, 10, "\n\n")
	return msg
}

// CalendarEvents generates n calendar events inside the given window.
func (p *Provider) CalendarEvents(n int, from, to time.Time) []calendar.Event {
	window := to.Sub(from)
	if window <= 0 {
		window = 24 * time.Hour
	}
	events := make([]calendar.Event, n)
	for i := range events {
		start := from.Add(time.Duration(p.faker.Number(0, int(window.Minutes()))) * time.Minute).Truncate(15 * time.Minute)
		events[i] = calendar.Event{
			ID:        p.hexID(12),
			Summary:   p.meetingTitle(),
			Start:     start,
			End:       start.Add(time.Duration(p.faker.Number(1, 4)) * 30 * time.Minute),
			Location:  p.faker.City(),
			Organizer: p.faker.Email(),
			Attendees: []string{p.faker.Email(), p.faker.Email()},
		}
	}
	return events
}

// OutlookMessages generates n Outlook messages.
func (p *Provider) OutlookMessages(n int) []outlook.Message {
	messages := make([]outlook.Message, n)
	for i := range messages {
		messages[i] = outlook.Message{
			ID:             p.hexID(20),
			Subject:        p.emailSubject(),
			From:           p.faker.Email(),
			Preview:        p.faker.Sentence(12),
			Received:       p.pastTime(7 * 24 * time.Hour),
			IsRead:         p.faker.Bool(),
			HasAttachments: p.faker.Number(0, 3) == 0,
		}
	}
	return messages
}

// OutlookEvents generates n Outlook calendar events inside the window.
func (p *Provider) OutlookEvents(n int, from, to time.Time) []outlook.Event {
	window := to.Sub(from)
	if window <= 0 {
		window = 24 * time.Hour
	}
	events := make([]outlook.Event, n)
	for i := range events {
		start := from.Add(time.Duration(p.faker.Number(0, int(window.Minutes()))) * time.Minute).Truncate(15 * time.Minute)
		events[i] = outlook.Event{
			ID:        p.hexID(20),
			Subject:   p.meetingTitle(),
			Start:     start,
			End:       start.Add(time.Duration(p.faker.Number(1, 4)) * 30 * time.Minute),
			Location:  p.faker.City(),
			Organizer: p.faker.Email(),
			IsOnline:  p.faker.Bool(),
		}
	}
	return events
}

// DriveFiles generates n Drive files.
func (p *Provider) DriveFiles(n int) []drive.File {
	types := []struct {
		ext  string
		mime string
	}{
		{".pdf", "application/pdf"},
		{"", "application/vnd.google-apps.document"},
		{"", "application/vnd.google-apps.spreadsheet"},
		{".png", "image/png"},
	}
	files := make([]drive.File, n)
	for i := range files {
		ft := types[p.faker.Number(0, len(types)-1)]
		id := p.hexID(22)
		files[i] = drive.File{
			ID:           id,
			Name:         p.faker.ProductName() + ft.ext,
			MimeType:     ft.mime,
			Size:         int64(p.faker.Number(1024, 5*1024*1024)),
			ModifiedTime: p.pastTime(30 * 24 * time.Hour),
			WebViewLink:  "https://drive.google.com/file/d/" + id + "/view",
			Owners:       []string{p.faker.Email()},
		}
	}
	return files
}

// DriveFile generates a single file with the requested ID.
func (p *Provider) DriveFile(id string) drive.File {
	file := p.DriveFiles(1)[0]
	file.ID = id
	return file
}

func (p *Provider) gid() string {
	return fmt.Sprintf("%d", p.faker.Number(1000000000, 2000000000))
}

func (p *Provider) hexID(length int) string {
	const hex = "0123456789abcdef"
	b := make([]byte, length)
	for i := range b {
		b[i] = hex[p.faker.Number(0, 15)]
	}
	return string(b)
}

func (p *Provider) sha() string {
	return p.hexID(40)
}

func (p *Provider) repoName() string {
	return strings.ToLower(p.faker.BuzzWord() + "-" + p.faker.NounAbstract())
}

func (p *Provider) branchName() string {
	return "feature/" + strings.ToLower(strings.ReplaceAll(p.faker.BuzzWord(), " ", "-"))
}

func (p *Provider) labels() []string {
	all := []string{"bug", "enhancement", "documentation", "help wanted", "question"}
	n := p.faker.Number(0, 2)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, all[p.faker.Number(0, len(all)-1)])
	}
	return out
}

func (p *Provider) verbPhrase() string {
	verbs := []string{"Review", "Draft", "Update", "Finalize", "Prepare", "Ship"}
	return verbs[p.faker.Number(0, len(verbs)-1)] + " " + strings.ToLower(p.faker.ProductName())
}

func (p *Provider) issueTitle() string {
	prefixes := []string{"Fix", "Add", "Refactor", "Remove", "Improve", "Document"}
	return prefixes[p.faker.Number(0, len(prefixes)-1)] + " " + strings.ToLower(p.faker.BuzzWord()) + " " + strings.ToLower(p.faker.NounAbstract())
}

func (p *Provider) emailSubject() string {
	subjects := []string{
		"Re: " + p.faker.BuzzWord(),
		"Meeting notes: " + p.faker.ProductName(),
		"Invoice " + fmt.Sprintf("#%d", p.faker.Number(1000, 9999)),
		p.faker.Sentence(5),
	}
	return subjects[p.faker.Number(0, len(subjects)-1)]
}

func (p *Provider) meetingTitle() string {
	titles := []string{"Standup", "1:1", "Design review", "Sprint planning", "Retro", "Customer call"}
	return titles[p.faker.Number(0, len(titles)-1)]
}

func (p *Provider) pastTime(within time.Duration) time.Time {
	return p.now().Add(-time.Duration(p.faker.Number(1, int(within.Seconds()))) * time.Second)
}
