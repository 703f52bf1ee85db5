package project

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/taskman/internal/model"
)

// mockProjectRepo はRepositoryのモック実装。
type mockProjectRepo struct {
	createFn   func(ctx context.Context, project *model.Project) error
	findByIDFn func(ctx context.Context, id string) (*model.Project, error)
	listFn     func(ctx context.Context) ([]*model.Project, error)
}

func (m *mockProjectRepo) Create(ctx context.Context, project *model.Project) error {
	return m.createFn(ctx, project)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockProjectRepo) List(ctx context.Context) ([]*model.Project, error) {
	return m.listFn(ctx)
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	var stored *model.Project
	repo := &mockProjectRepo{
		createFn: func(ctx context.Context, project *model.Project) error {
			stored = project
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if stored.ID == "" {
		t.Error("project ID was not assigned")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("CreatedAt was not assigned")
	}
}

func TestGetNotFound(t *testing.T) {
	repo := &mockProjectRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Project, error) {
			return nil, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("code = %s, want %s", apiErr.Code, model.ErrCodeProjectNotFound)
	}
}

func TestGetSuccess(t *testing.T) {
	repo := &mockProjectRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Project, error) {
			return &model.Project{ID: id, Name: "Apollo"}, nil
		},
	}
	svc := NewService(repo)

	project, err := svc.Get(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if project.Name != "Apollo" {
		t.Errorf("project.Name = %s, want Apollo", project.Name)
	}
}

func TestListError(t *testing.T) {
	repo := &mockProjectRepo{
		listFn: func(ctx context.Context) ([]*model.Project, error) {
			return nil, errors.New("query failed")
		},
	}
	svc := NewService(repo)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
