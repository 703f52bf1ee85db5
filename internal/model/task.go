package model

import "time"

// StatusCompleted はレポート集計で完了とみなすステータスのリテラル値。
// ステータス自体は自由形式の文字列で、サーバー側で状態遷移は制約しない。
const StatusCompleted = "Completed"

// Task はタスクを表す。
// Project/Team/Owners/Tagsは参照先エンティティのIDを保持する。
// 参照先の存在は書き込み時に検証されないため、読み手はダングリング参照を許容すること。
type Task struct {
	ID             string
	Name           string
	Project        string
	Team           string
	Owners         []string
	Tags           []string
	TimeToComplete int
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskFilter はタスク一覧の絞り込み条件を表す。
// ゼロ値のフィールドは制約を課さない（空フィルタは全件を返す）。
type TaskFilter struct {
	// Team はチームIDの完全一致。
	Team string
	// Owner は担当者集合へのメンバーシップ一致。
	Owner string
	// Tags はいずれか1つ以上が交差するタグIDのリスト（any-of）。
	Tags []string
	// Project はプロジェクトIDの完全一致。
	Project string
	// Status はステータス文字列の完全一致。
	Status string
}

// IsZero は何も制約を課さないフィルタかどうかを返す。
func (f TaskFilter) IsZero() bool {
	return f.Team == "" && f.Owner == "" && len(f.Tags) == 0 && f.Project == "" && f.Status == ""
}

// TaskPatch はタスクの部分更新を表す。
// nilのフィールドは更新対象外とし、保存済みの値を維持する。
type TaskPatch struct {
	Name           *string
	Project        *string
	Team           *string
	Owners         *[]string
	Tags           *[]string
	TimeToComplete *int
	Status         *string
}
