// Package task はタスクのCRUD・絞り込み・参照解決のビジネスロジックを提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
)

// Repository はタスクサービスが必要とする永続化インターフェース。
// repository.TaskRepositoryの部分集合として定義する。
type Repository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ProjectFinder はプロジェクト参照の解決インターフェース。
type ProjectFinder interface {
	FindByID(ctx context.Context, id string) (*model.Project, error)
}

// TeamFinder はチーム参照の解決インターフェース。
type TeamFinder interface {
	FindByID(ctx context.Context, id string) (*model.Team, error)
}

// UserFinder はユーザー参照の解決インターフェース。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Detail は参照先を解決済みのタスクを表す。
// ダングリング参照（参照先が削除済み）は障害ではなく欠損として扱う:
// Project/Teamは参照先が存在しない場合nil、Ownersは存在しない参照を除外した一覧になる。
type Detail struct {
	Task    model.Task
	Project *model.Project
	Team    *model.Team
	Owners  []*model.User
}

// Service はタスク管理のサービス層。
type Service struct {
	tasks    Repository
	projects ProjectFinder
	teams    TeamFinder
	users    UserFinder
}

// NewService はServiceを生成する。
func NewService(tasks Repository, projects ProjectFinder, teams TeamFinder, users UserFinder) *Service {
	return &Service{
		tasks:    tasks,
		projects: projects,
		teams:    teams,
		users:    users,
	}
}

// Create はタスクを作成する。IDと作成・更新日時はサービス側で採番する。
// 参照先の存在検証は行わない（ダングリング参照は読み手が許容する）。
func (s *Service) Create(ctx context.Context, task *model.Task) error {
	now := time.Now()
	task.ID = uuid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.tasks.Create(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("status", task.Status),
	)

	return nil
}

// List はフィルタに合致するタスク一覧を返す。空フィルタは全件を返す。
func (s *Service) List(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update はタスクを部分更新し、更新後のレコードを返す。
// 対象が存在しない場合はTASK_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	task, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(id)
	}
	return task, nil
}

// Delete は指定IDのタスクを削除する。対象が存在しない場合はTASK_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(id)
	}

	slog.Info("task deleted", slog.String("task_id", id))

	return nil
}

// Get は指定IDのタスクをproject/team/ownersの参照解決付きで返す。
// 対象が存在しない場合はTASK_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(id)
	}

	detail := &Detail{Task: *task}

	if task.Project != "" {
		project, err := s.projects.FindByID(ctx, task.Project)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project: %w", err)
		}
		detail.Project = project
	}

	if task.Team != "" {
		team, err := s.teams.FindByID(ctx, task.Team)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve team: %w", err)
		}
		detail.Team = team
	}

	for _, ownerID := range task.Owners {
		owner, err := s.users.FindByID(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve owner: %w", err)
		}
		if owner != nil {
			detail.Owners = append(detail.Owners, owner)
		}
	}

	return detail, nil
}
