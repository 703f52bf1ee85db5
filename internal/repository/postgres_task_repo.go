package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/taskman/internal/model"
)

// taskColumns はタスク取得クエリで選択するカラムの並び。scanTaskと対応する。
const taskColumns = `id, name, project, team, owners, tags, time_to_complete, status, created_at, updated_at`

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// Create はタスクを作成する。参照先（project/team/owners/tags）の存在は検証しない。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, name, project, team, owners, tags, time_to_complete, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID, task.Name, task.Project, task.Team,
		pq.Array(task.Owners), pq.Array(task.Tags),
		task.TimeToComplete, task.Status, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
	)
	task, err := scanTaskRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return task, nil
}

// List はフィルタに合致するタスク一覧を作成日時昇順で返す。空フィルタは全件を返す。
func (r *PostgresTaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	if filter.IsZero() {
		return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at`)
	}
	where, args := BuildTaskWhere(filter)
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks`+where+` ORDER BY created_at`, args...)
}

// Update はタスクを部分更新し、更新後のレコードを返す。
// nilのパッチフィールドは保存済みの値を維持する。対象が存在しない場合はnilを返す。
// 同一タスクへの並行更新は直列化されず、後勝ちとなる。
func (r *PostgresTaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	applyTaskPatch(task, patch)
	task.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET name = $1, project = $2, team = $3, owners = $4, tags = $5,
		     time_to_complete = $6, status = $7, updated_at = $8
		 WHERE id = $9`,
		task.Name, task.Project, task.Team,
		pq.Array(task.Owners), pq.Array(task.Tags),
		task.TimeToComplete, task.Status, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete は指定IDのタスクを削除する。対象が存在した場合はtrueを返す。
func (r *PostgresTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListCompletedSince はステータスがCompletedで、更新日時がsince以降（境界含む）のタスクを返す。
func (r *PostgresTaskRepo) ListCompletedSince(ctx context.Context, since time.Time) ([]*model.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = $1 AND updated_at >= $2 ORDER BY updated_at DESC`,
		model.StatusCompleted, since,
	)
}

// ListNotCompleted はステータスがCompleted以外のタスクを返す。
func (r *PostgresTaskRepo) ListNotCompleted(ctx context.Context) ([]*model.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status <> $1`,
		model.StatusCompleted,
	)
}

// ListCompleted はステータスがCompletedの全タスクを返す。
func (r *PostgresTaskRepo) ListCompleted(ctx context.Context) ([]*model.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = $1`,
		model.StatusCompleted,
	)
}

// queryTasks はタスク取得クエリを実行し、結果をスキャンして返す。
func (r *PostgresTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task := &model.Task{}
		if err := rows.Scan(
			&task.ID, &task.Name, &task.Project, &task.Team,
			pq.Array(&task.Owners), pq.Array(&task.Tags),
			&task.TimeToComplete, &task.Status, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// scanTaskRow は単一行のタスクをスキャンする。
func scanTaskRow(row *sql.Row) (*model.Task, error) {
	task := &model.Task{}
	err := row.Scan(
		&task.ID, &task.Name, &task.Project, &task.Team,
		pq.Array(&task.Owners), pq.Array(&task.Tags),
		&task.TimeToComplete, &task.Status, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// BuildTaskWhere はTaskFilterからWHERE句とバインド引数を構築する。
// team/project/statusは完全一致、ownerは配列メンバーシップ（= ANY）、
// tagsは配列の交差（&&、any-of）で照合する。
// 制約がない場合は空のWHERE句を返す（全件一致）。
func BuildTaskWhere(f model.TaskFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Team != "" {
		args = append(args, f.Team)
		conds = append(conds, fmt.Sprintf("team = $%d", len(args)))
	}
	if f.Owner != "" {
		args = append(args, f.Owner)
		conds = append(conds, fmt.Sprintf("$%d = ANY(owners)", len(args)))
	}
	if len(f.Tags) > 0 {
		args = append(args, pq.Array(f.Tags))
		conds = append(conds, fmt.Sprintf("tags && $%d", len(args)))
	}
	if f.Project != "" {
		args = append(args, f.Project)
		conds = append(conds, fmt.Sprintf("project = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// applyTaskPatch はパッチのnil以外のフィールドをタスクに反映する。
func applyTaskPatch(task *model.Task, patch model.TaskPatch) {
	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.Project != nil {
		task.Project = *patch.Project
	}
	if patch.Team != nil {
		task.Team = *patch.Team
	}
	if patch.Owners != nil {
		task.Owners = *patch.Owners
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.TimeToComplete != nil {
		task.TimeToComplete = *patch.TimeToComplete
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
