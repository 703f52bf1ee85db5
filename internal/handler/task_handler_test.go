package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/task"
)

// mockTaskService はTaskServiceInterfaceのモック実装。
type mockTaskService struct {
	createFn func(ctx context.Context, t *model.Task) error
	listFn   func(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)
	updateFn func(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*task.Detail, error)
}

func (m *mockTaskService) Create(ctx context.Context, t *model.Task) error {
	return m.createFn(ctx, t)
}

func (m *mockTaskService) List(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	return m.listFn(ctx, filter)
}

func (m *mockTaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	return m.updateFn(ctx, id, patch)
}

func (m *mockTaskService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockTaskService) Get(ctx context.Context, id string) (*task.Detail, error) {
	return m.getFn(ctx, id)
}

// withURLParam はchiのURLパラメータをリクエストコンテキストに設定する。
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateTaskSuccess(t *testing.T) {
	var created *model.Task
	svc := &mockTaskService{
		createFn: func(ctx context.Context, task *model.Task) error {
			task.ID = "task-1"
			created = task
			return nil
		},
	}
	h := NewTaskHandler(svc, nil)

	body := `{"name":"deploy","project":"p1","team":"t1","owners":["u1"],"tags":["urgent"],"timeToComplete":3,"status":"In Progress"}`
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if created.Name != "deploy" || created.Status != "In Progress" {
		t.Errorf("created = %+v", created)
	}
}

func TestCreateTaskDefaultStatus(t *testing.T) {
	var created *model.Task
	svc := &mockTaskService{
		createFn: func(ctx context.Context, task *model.Task) error {
			created = task
			return nil
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"name":"deploy"}`))
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if created.Status != "To Do" {
		t.Errorf("status = %s, want To Do", created.Status)
	}
}

func TestCreateTaskMissingName(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"status":"To Do"}`))
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListTasksAppliesQueryFilter(t *testing.T) {
	var gotFilter model.TaskFilter
	svc := &mockTaskService{
		listFn: func(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
			gotFilter = filter
			return []*model.Task{{ID: "task-1", Name: "deploy"}}, nil
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks?status=Completed&tags=urgent,backend&owners=u1", nil)
	rec := httptest.NewRecorder()
	h.ListTasks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotFilter.Status != "Completed" || gotFilter.Owner != "u1" || len(gotFilter.Tags) != 2 {
		t.Errorf("filter = %+v", gotFilter)
	}
}

func TestListTasksEmptyReturnsArray(t *testing.T) {
	svc := &mockTaskService{
		listFn: func(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
			return nil, nil
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	h.ListTasks(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := &mockTaskService{
		updateFn: func(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
			return nil, model.NewTaskNotFoundError(id)
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/tasks/missing", strings.NewReader(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	h.UpdateTask(rec, withURLParam(req, "id", "missing"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdateTaskPartialPatch(t *testing.T) {
	var gotPatch model.TaskPatch
	svc := &mockTaskService{
		updateFn: func(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
			gotPatch = patch
			return &model.Task{ID: id, Name: "deploy", Status: *patch.Status}, nil
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/tasks/task-1", strings.NewReader(`{"status":"Completed"}`))
	rec := httptest.NewRecorder()
	h.UpdateTask(rec, withURLParam(req, "id", "task-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// 省略されたフィールドはnilのまま渡される
	if gotPatch.Name != nil {
		t.Error("name should not be patched")
	}
	if gotPatch.Status == nil || *gotPatch.Status != "Completed" {
		t.Errorf("status patch = %v", gotPatch.Status)
	}
}

func TestDeleteTaskSuccess(t *testing.T) {
	svc := &mockTaskService{
		deleteFn: func(ctx context.Context, id string) error {
			return nil
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/tasks/task-1", nil)
	rec := httptest.NewRecorder()
	h.DeleteTask(rec, withURLParam(req, "id", "task-1"))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	svc := &mockTaskService{
		deleteFn: func(ctx context.Context, id string) error {
			return model.NewTaskNotFoundError(id)
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/tasks/missing", nil)
	rec := httptest.NewRecorder()
	h.DeleteTask(rec, withURLParam(req, "id", "missing"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetTaskResolvedDetail(t *testing.T) {
	svc := &mockTaskService{
		getFn: func(ctx context.Context, id string) (*task.Detail, error) {
			return &task.Detail{
				Task:    model.Task{ID: id, Name: "deploy", Status: "To Do"},
				Project: &model.Project{ID: "p1", Name: "Apollo"},
				Owners:  []*model.User{{ID: "u1", Name: "Taro"}},
			}, nil
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/task-1", nil)
	rec := httptest.NewRecorder()
	h.GetTask(rec, withURLParam(req, "id", "task-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp taskDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Project == nil || resp.Project.Name != "Apollo" {
		t.Errorf("project = %+v", resp.Project)
	}
	// ダングリング参照のteamはnullになる
	if resp.Team != nil {
		t.Errorf("team = %+v, want nil", resp.Team)
	}
	if len(resp.Owners) != 1 {
		t.Errorf("len(owners) = %d, want 1", len(resp.Owners))
	}
}

func TestGetTaskNotFound(t *testing.T) {
	svc := &mockTaskService{
		getFn: func(ctx context.Context, id string) (*task.Detail, error) {
			return nil, model.NewTaskNotFoundError(id)
		},
	}
	h := NewTaskHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/missing", nil)
	rec := httptest.NewRecorder()
	h.GetTask(rec, withURLParam(req, "id", "missing"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
