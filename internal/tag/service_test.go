package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/taskman/internal/model"
)

// mockTagRepo はRepositoryのモック実装。
type mockTagRepo struct {
	createFn func(ctx context.Context, tag *model.Tag) error
	listFn   func(ctx context.Context) ([]*model.Tag, error)
}

func (m *mockTagRepo) Create(ctx context.Context, tag *model.Tag) error {
	return m.createFn(ctx, tag)
}

func (m *mockTagRepo) List(ctx context.Context) ([]*model.Tag, error) {
	return m.listFn(ctx)
}

func TestCreateAssignsID(t *testing.T) {
	var stored *model.Tag
	repo := &mockTagRepo{
		createFn: func(ctx context.Context, tag *model.Tag) error {
			stored = tag
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.Create(context.Background(), &model.Tag{Name: "urgent"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if stored.ID == "" {
		t.Error("tag ID was not assigned")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("CreatedAt was not assigned")
	}
}

func TestListError(t *testing.T) {
	repo := &mockTagRepo{
		listFn: func(ctx context.Context) ([]*model.Tag, error) {
			return nil, errors.New("query failed")
		},
	}
	svc := NewService(repo)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
