package model

import "time"

// Team はタスクを担当するチームを表す。
// MembersはユーザーIDの順序付き集合。参照先の存在は保証されない。
type Team struct {
	ID          string
	Name        string
	Description string
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
