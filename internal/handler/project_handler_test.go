package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/taskman/internal/model"
)

// mockProjectService はProjectServiceInterfaceのモック実装。
type mockProjectService struct {
	createFn func(ctx context.Context, project *model.Project) error
	listFn   func(ctx context.Context) ([]*model.Project, error)
	getFn    func(ctx context.Context, id string) (*model.Project, error)
}

func (m *mockProjectService) Create(ctx context.Context, project *model.Project) error {
	return m.createFn(ctx, project)
}

func (m *mockProjectService) List(ctx context.Context) ([]*model.Project, error) {
	return m.listFn(ctx)
}

func (m *mockProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return m.getFn(ctx, id)
}

func TestCreateProjectSuccess(t *testing.T) {
	svc := &mockProjectService{
		createFn: func(ctx context.Context, project *model.Project) error {
			project.ID = "project-1"
			return nil
		},
	}
	h := NewProjectHandler(svc)

	body := `{"name":"Apollo","description":"rocket"}`
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateProject(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp projectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.ID != "project-1" || resp.Name != "Apollo" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCreateProjectMissingName(t *testing.T) {
	h := NewProjectHandler(&mockProjectService{})

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CreateProject(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	svc := &mockProjectService{
		getFn: func(ctx context.Context, id string) (*model.Project, error) {
			return nil, model.NewProjectNotFoundError(id)
		},
	}
	h := NewProjectHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/project/missing", nil)
	rec := httptest.NewRecorder()
	h.GetProject(rec, withURLParam(req, "id", "missing"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListProjects(t *testing.T) {
	svc := &mockProjectService{
		listFn: func(ctx context.Context) ([]*model.Project, error) {
			return []*model.Project{
				{ID: "p1", Name: "Apollo"},
				{ID: "p2", Name: "Gemini"},
			}, nil
		},
	}
	h := NewProjectHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()
	h.ListProjects(rec, req)

	var resp []projectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("len(resp) = %d, want 2", len(resp))
	}
}
