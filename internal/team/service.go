// Package team はチーム管理のビジネスロジックを提供する。
package team

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
)

// Repository はチームサービスが必要とする永続化インターフェース。
// repository.TeamRepositoryの部分集合として定義する。
type Repository interface {
	Create(ctx context.Context, team *model.Team) error
	List(ctx context.Context) ([]*model.Team, error)
}

// MemberFinder はメンバー参照の解決インターフェース。
type MemberFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Detail はメンバー参照を解決済みのチームを表す。
// 存在しないメンバー参照は一覧から除外する。
type Detail struct {
	Team    model.Team
	Members []*model.User
}

// Service はチーム管理のサービス層。
type Service struct {
	teams Repository
	users MemberFinder
}

// NewService はServiceを生成する。
func NewService(teams Repository, users MemberFinder) *Service {
	return &Service{teams: teams, users: users}
}

// Create はチームを作成する。IDと作成・更新日時はサービス側で採番する。
// メンバー参照の存在検証は行わない。
func (s *Service) Create(ctx context.Context, team *model.Team) error {
	now := time.Now()
	team.ID = uuid.New().String()
	team.CreatedAt = now
	team.UpdatedAt = now

	if err := s.teams.Create(ctx, team); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// List は全チームをメンバー参照の解決付きで返す。
func (s *Service) List(ctx context.Context) ([]*Detail, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	details := make([]*Detail, 0, len(teams))
	for _, t := range teams {
		detail := &Detail{Team: *t}
		for _, memberID := range t.Members {
			member, err := s.users.FindByID(ctx, memberID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve member: %w", err)
			}
			if member != nil {
				detail.Members = append(detail.Members, member)
			}
		}
		details = append(details, detail)
	}
	return details, nil
}
