package asana

import "time"

// Workspace represents an Asana workspace
type Workspace struct {
	GID  string
	Name string
}

// Project represents an Asana project
type Project struct {
	GID      string
	Name     string
	Archived bool
}

// Task represents an Asana task
type Task struct {
	GID       string
	Name      string
	Notes     string
	Completed bool
	DueOn     string // YYYY-MM-DD, empty if no due date
	Assignee  string
	CreatedAt time.Time
}

// TaskInput represents the input for creating a task
type TaskInput struct {
	Name      string
	Notes     string
	ProjectID string
	DueOn     string // YYYY-MM-DD
	Assignee  string
}

// Asana API response types. Every Asana response wraps its payload in a
// "data" envelope.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type asanaWorkspace struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

type asanaProject struct {
	GID      string `json:"gid"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

type asanaTask struct {
	GID       string `json:"gid"`
	Name      string `json:"name"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
	DueOn     string `json:"due_on"`
	Assignee  *struct {
		Name string `json:"name"`
	} `json:"assignee"`
	CreatedAt time.Time `json:"created_at"`
}

// toWorkspace converts an Asana API workspace to our Workspace type
func toWorkspace(w asanaWorkspace) Workspace {
	return Workspace{
		GID:  w.GID,
		Name: w.Name,
	}
}

// toProject converts an Asana API project to our Project type
func toProject(p asanaProject) Project {
	return Project{
		GID:      p.GID,
		Name:     p.Name,
		Archived: p.Archived,
	}
}

// toTask converts an Asana API task to our Task type
func toTask(t asanaTask) Task {
	result := Task{
		GID:       t.GID,
		Name:      t.Name,
		Notes:     t.Notes,
		Completed: t.Completed,
		DueOn:     t.DueOn,
		CreatedAt: t.CreatedAt,
	}
	if t.Assignee != nil {
		result.Assignee = t.Assignee.Name
	}
	return result
}
