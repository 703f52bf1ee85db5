// Package report はタスクの集計レポートを提供する。
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hitoshi/taskman/internal/model"
)

// TaskSource はレポート生成が必要とするタスクの読み出しインターフェース。
type TaskSource interface {
	ListCompletedSince(ctx context.Context, since time.Time) ([]*model.Task, error)
	ListNotCompleted(ctx context.Context) ([]*model.Task, error)
	ListCompleted(ctx context.Context) ([]*model.Task, error)
}

// PendingSummary は未完了タスクの見積もり合計を表す。
type PendingSummary struct {
	TotalTimeToComplete int `json:"totalTimeToComplete"`
	TaskCount           int `json:"taskCount"`
}

// ClosedGroup は完了タスクの (team, owners, project) 単位の集計結果を表す。
// Ownersはソート済みのオーナー一覧。順序だけ異なるオーナー集合は同一グループに畳む。
type ClosedGroup struct {
	Team    string   `json:"team"`
	Owners  []string `json:"owners"`
	Project string   `json:"project"`
	Count   int      `json:"count"`
}

// Service はレポート生成のサービス層。
type Service struct {
	tasks TaskSource

	// nowはテストで固定時刻を注入するために差し替え可能にしている。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(tasks TaskSource) *Service {
	return &Service{
		tasks: tasks,
		now:   time.Now,
	}
}

// LastWeek は直近7日以内に更新された完了タスクの一覧を返す。
func (s *Service) LastWeek(ctx context.Context) ([]*model.Task, error) {
	cutoff := s.now().AddDate(0, 0, -7)
	tasks, err := s.tasks.ListCompletedSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list recently completed tasks: %w", err)
	}
	return tasks, nil
}

// Pending は未完了タスクの見積もり時間の合計を返す。対象が無ければ合計は0になる。
func (s *Service) Pending(ctx context.Context) (*PendingSummary, error) {
	tasks, err := s.tasks.ListNotCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	summary := &PendingSummary{TaskCount: len(tasks)}
	for _, task := range tasks {
		summary.TotalTimeToComplete += task.TimeToComplete
	}
	return summary, nil
}

// closedGroupKey は完了タスク集計のグループキー。
// ownersはクオート付きエンコードなので、区切り文字と要素の衝突は起きない。
type closedGroupKey struct {
	team    string
	owners  string
	project string
}

// ClosedTasks は完了タスクを (team, owners, project) で集計して件数を返す。
// 結果は (team, owners, project) の昇順で安定している。
func (s *Service) ClosedTasks(ctx context.Context) ([]*ClosedGroup, error) {
	tasks, err := s.tasks.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	groups := make(map[closedGroupKey]*ClosedGroup)
	for _, task := range tasks {
		owners := append([]string(nil), task.Owners...)
		sort.Strings(owners)

		key := closedGroupKey{
			team:    task.Team,
			owners:  fmt.Sprintf("%q", owners),
			project: task.Project,
		}
		group, ok := groups[key]
		if !ok {
			group = &ClosedGroup{
				Team:    task.Team,
				Owners:  owners,
				Project: task.Project,
			}
			groups[key] = group
		}
		group.Count++
	}

	keys := make([]closedGroupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		if keys[i].owners != keys[j].owners {
			return keys[i].owners < keys[j].owners
		}
		return keys[i].project < keys[j].project
	})

	result := make([]*ClosedGroup, 0, len(keys))
	for _, key := range keys {
		result = append(result, groups[key])
	}
	return result, nil
}
