// Package user はユーザー一覧のビジネスロジックを提供する。
// サインアップと認証はauthパッケージが担当する。
package user

import (
	"context"
	"fmt"

	"github.com/hitoshi/taskman/internal/model"
)

// Repository はユーザーサービスが必要とする永続化インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type Repository interface {
	List(ctx context.Context) ([]*model.User, error)
}

// Service はユーザー参照のサービス層。
type Service struct {
	users Repository
}

// NewService はServiceを生成する。
func NewService(users Repository) *Service {
	return &Service{users: users}
}

// List は全ユーザーの一覧を返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
