// Package tag はタグ管理のビジネスロジックを提供する。
package tag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
)

// Repository はタグサービスが必要とする永続化インターフェース。
// repository.TagRepositoryの部分集合として定義する。
type Repository interface {
	Create(ctx context.Context, tag *model.Tag) error
	List(ctx context.Context) ([]*model.Tag, error)
}

// Service はタグ管理のサービス層。
type Service struct {
	tags Repository
}

// NewService はServiceを生成する。
func NewService(tags Repository) *Service {
	return &Service{tags: tags}
}

// Create はタグを作成する。IDと作成日時はサービス側で採番する。
func (s *Service) Create(ctx context.Context, tag *model.Tag) error {
	tag.ID = uuid.New().String()
	tag.CreatedAt = time.Now()

	if err := s.tags.Create(ctx, tag); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// List は全タグの一覧を返す。
func (s *Service) List(ctx context.Context) ([]*model.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}
