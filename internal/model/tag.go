package model

import "time"

// Tag はタスクに付与するラベルを表す。
type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
