// Package project はプロジェクト管理のビジネスロジックを提供する。
package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
)

// Repository はプロジェクトサービスが必要とする永続化インターフェース。
// repository.ProjectRepositoryの部分集合として定義する。
type Repository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
}

// Service はプロジェクト管理のサービス層。
type Service struct {
	projects Repository
}

// NewService はServiceを生成する。
func NewService(projects Repository) *Service {
	return &Service{projects: projects}
}

// Create はプロジェクトを作成する。IDと作成・更新日時はサービス側で採番する。
func (s *Service) Create(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.ID = uuid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.projects.Create(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// List は全プロジェクトの一覧を返す。
func (s *Service) List(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get は指定IDのプロジェクトを返す。存在しない場合はPROJECT_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(id)
	}
	return project, nil
}
