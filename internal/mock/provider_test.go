package mock

import (
	"testing"
	"time"
)

func TestSeededDeterminism(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	tasksA := a.AsanaTasks(5)
	tasksB := b.AsanaTasks(5)

	for i := range tasksA {
		if tasksA[i].GID != tasksB[i].GID || tasksA[i].Name != tasksB[i].Name {
			t.Errorf("seeded providers diverged at task %d: %+v vs %+v", i, tasksA[i], tasksB[i])
		}
	}
}

func TestGitHubRepos(t *testing.T) {
	p := NewSeeded(1)

	repos := p.GitHubRepos(3)
	if len(repos) != 3 {
		t.Fatalf("expected 3 repos, got %d", len(repos))
	}
	for _, r := range repos {
		if r.FullName == "" || r.HTMLURL == "" {
			t.Errorf("repo missing fields: %+v", r)
		}
	}
}

func TestGmailMessageHasBody(t *testing.T) {
	p := NewSeeded(1)

	msg := p.GmailMessage("abc123")
	if msg.ID != "abc123" {
		t.Errorf("expected requested ID preserved, got %q", msg.ID)
	}
	if msg.Body == "" {
		t.Error("expected message body to be populated")
	}
	if msg.From == "" || msg.Subject == "" {
		t.Errorf("message missing fields: %+v", msg)
	}
}

func TestCalendarEventsInsideWindow(t *testing.T) {
	p := NewSeeded(7)

	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	events := p.CalendarEvents(10, from, to)
	for _, e := range events {
		if e.Start.Before(from.Add(-15*time.Minute)) || e.Start.After(to) {
			t.Errorf("event start %v outside window [%v, %v]", e.Start, from, to)
		}
		if !e.End.After(e.Start) {
			t.Errorf("event end %v not after start %v", e.End, e.Start)
		}
	}
}

func TestGitLabPipelineStatuses(t *testing.T) {
	p := NewSeeded(3)

	valid := map[string]bool{
		"success": true, "failed": true, "running": true, "pending": true,
	}
	for _, pl := range p.GitLabPipelines(20) {
		if !valid[pl.Status] {
			t.Errorf("unexpected pipeline status %q", pl.Status)
		}
		if len(pl.SHA) != 40 {
			t.Errorf("expected 40-char sha, got %q", pl.SHA)
		}
	}
}

func TestDriveFiles(t *testing.T) {
	p := NewSeeded(5)

	files := p.DriveFiles(4)
	for _, f := range files {
		if f.ID == "" || f.MimeType == "" {
			t.Errorf("file missing fields: %+v", f)
		}
		if f.Size <= 0 {
			t.Errorf("expected positive size, got %d", f.Size)
		}
	}
}
