package model

import "time"

// Project はタスクが属するプロジェクトを表す。
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
