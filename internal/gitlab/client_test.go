package gitlab

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("PRIVATE-TOKEN"); got != "test-token" {
			t.Errorf("expected PRIVATE-TOKEN header, got %q", got)
		}
		if r.URL.Path != "/api/v4/projects" {
			t.Errorf("expected path /api/v4/projects, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("membership"); got != "true" {
			t.Errorf("expected membership=true, got %q", got)
		}
		w.Write([]byte(`[
			{"id":321,"path_with_namespace":"group/app","description":"the app","default_branch":"main","web_url":"https://gitlab.com/group/app","last_activity_at":"2026-08-10T12:00:00Z"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", srv.Client())

	projects, err := client.ListProjects(t.Context(), 20)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].ID != 321 || projects[0].PathWithNamespace != "group/app" {
		t.Errorf("unexpected project: %+v", projects[0])
	}
}

func TestListMergeRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/321/merge_requests" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("state"); got != "opened" {
			t.Errorf("expected default state=opened, got %q", got)
		}
		w.Write([]byte(`[
			{"iid":14,"title":"Add caching","state":"opened","author":{"username":"kim"},"source_branch":"caching","target_branch":"main","draft":true,"web_url":"https://gitlab.com/group/app/-/merge_requests/14","created_at":"2026-08-09T09:00:00Z"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	mrs, err := client.ListMergeRequests(t.Context(), 321, "")
	if err != nil {
		t.Fatalf("ListMergeRequests failed: %v", err)
	}
	if len(mrs) != 1 {
		t.Fatalf("expected 1 merge request, got %d", len(mrs))
	}
	if mrs[0].IID != 14 || mrs[0].Author != "kim" || !mrs[0].Draft {
		t.Errorf("unexpected merge request: %+v", mrs[0])
	}
}

func TestListPipelines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/321/pipelines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id":900,"status":"success","ref":"main","sha":"abc123","web_url":"https://gitlab.com/group/app/-/pipelines/900","created_at":"2026-08-10T11:00:00Z","updated_at":"2026-08-10T11:07:00Z"},
			{"id":899,"status":"failed","ref":"main","sha":"def456"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	pipelines, err := client.ListPipelines(t.Context(), 321, 20)
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	if len(pipelines) != 2 {
		t.Fatalf("expected 2 pipelines, got %d", len(pipelines))
	}
	if pipelines[1].Status != "failed" {
		t.Errorf("expected second pipeline failed, got %q", pipelines[1].Status)
	}
}

func TestGetPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/321/pipelines/900" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":900,"status":"running","ref":"main","sha":"abc123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	pipeline, err := client.GetPipeline(t.Context(), 321, 900)
	if err != nil {
		t.Fatalf("GetPipeline failed: %v", err)
	}
	if pipeline.ID != 900 || pipeline.Status != "running" {
		t.Errorf("unexpected pipeline: %+v", pipeline)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"404 Project Not Found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", srv.Client())

	_, err := client.GetPipeline(t.Context(), 1, 2)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected error to mention status 404, got: %v", err)
	}
}
