package asana

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListWorkspaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if r.URL.Path != "/workspaces" {
			t.Errorf("expected path /workspaces, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"gid":"12001","name":"Acme"},{"gid":"12002","name":"Personal"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", srv.Client())

	workspaces, err := client.ListWorkspaces(t.Context())
	if err != nil {
		t.Fatalf("ListWorkspaces failed: %v", err)
	}
	if len(workspaces) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(workspaces))
	}
	if workspaces[0].GID != "12001" || workspaces[0].Name != "Acme" {
		t.Errorf("unexpected workspace: %+v", workspaces[0])
	}
}

func TestListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/777/tasks" {
			t.Errorf("expected path /projects/777/tasks, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[
			{"gid":"t1","name":"Write report","notes":"quarterly","completed":false,"due_on":"2026-09-01","assignee":{"name":"Dana"},"created_at":"2026-08-01T09:00:00Z"},
			{"gid":"t2","name":"Review PR","completed":true,"due_on":null,"assignee":null,"created_at":"2026-08-02T09:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	tasks, err := client.ListTasks(t.Context(), "777")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Assignee != "Dana" {
		t.Errorf("expected assignee 'Dana', got %q", tasks[0].Assignee)
	}
	if tasks[0].DueOn != "2026-09-01" {
		t.Errorf("expected due_on '2026-09-01', got %q", tasks[0].DueOn)
	}
	if tasks[1].Assignee != "" {
		t.Errorf("expected empty assignee for null, got %q", tasks[1].Assignee)
	}
	if !tasks[1].Completed {
		t.Error("expected task t2 to be completed")
	}
}

func TestCreateTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body.Data["name"] != "New task" {
			t.Errorf("expected name 'New task', got %v", body.Data["name"])
		}
		if _, ok := body.Data["due_on"]; ok {
			t.Error("empty due_on should be omitted from the request")
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"gid":"t9","name":"New task","completed":false}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	task, err := client.CreateTask(t.Context(), TaskInput{Name: "New task", ProjectID: "777"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.GID != "t9" {
		t.Errorf("expected gid 't9', got %q", task.GID)
	}
}

func TestCompleteTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/tasks/t1" {
			t.Errorf("expected path /tasks/t1, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"gid":"t1","name":"Write report","completed":true}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	task, err := client.CompleteTask(t.Context(), "t1")
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !task.Completed {
		t.Error("expected task to be completed")
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"Not Authorized"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-token", srv.Client())

	_, err := client.ListWorkspaces(t.Context())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected error to mention status 401, got: %v", err)
	}
}
