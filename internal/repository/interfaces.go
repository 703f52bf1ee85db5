// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/taskman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。メールアドレス重複時はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// Create はプロジェクトを作成する。
	Create(ctx context.Context, project *model.Project) error

	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// List は全プロジェクトを返す。
	List(ctx context.Context) ([]*model.Project, error)
}

// TeamRepository はチームデータの永続化インターフェース。
type TeamRepository interface {
	// Create はチームを作成する。メンバー参照の存在は検証しない。
	Create(ctx context.Context, team *model.Team) error

	// FindByID は指定IDのチームを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Team, error)

	// List は全チームを返す。
	List(ctx context.Context) ([]*model.Team, error)
}

// TagRepository はタグデータの永続化インターフェース。
type TagRepository interface {
	// Create はタグを作成する。
	Create(ctx context.Context, tag *model.Tag) error

	// List は全タグを返す。
	List(ctx context.Context) ([]*model.Tag, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// Create はタスクを作成する。参照先（project/team/owners/tags）の存在は検証しない。
	Create(ctx context.Context, task *model.Task) error

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// List はフィルタに合致するタスク一覧を返す。空フィルタは全件を返す。
	List(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)

	// Update はタスクを部分更新し、更新後のレコードを返す。
	// 対象が存在しない場合はnilを返す。
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)

	// Delete は指定IDのタスクを削除する。対象が存在した場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// ListCompletedSince はステータスがCompletedで、更新日時がsince以降のタスクを返す。
	ListCompletedSince(ctx context.Context, since time.Time) ([]*model.Task, error)

	// ListNotCompleted はステータスがCompleted以外のタスクを返す。
	ListNotCompleted(ctx context.Context) ([]*model.Task, error)

	// ListCompleted はステータスがCompletedの全タスクを返す。
	ListCompleted(ctx context.Context) ([]*model.Task, error)
}
