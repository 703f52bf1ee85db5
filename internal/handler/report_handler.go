package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/report"
)

// ReportServiceInterface はレポートハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	// LastWeek は直近7日以内に更新された完了タスクを返す。
	LastWeek(ctx context.Context) ([]*model.Task, error)
	// Pending は未完了タスクの見積もり時間の合計を返す。
	Pending(ctx context.Context) (*report.PendingSummary, error)
	// ClosedTasks は完了タスクのグループ別集計を返す。
	ClosedTasks(ctx context.Context) ([]*report.ClosedGroup, error)
}

// ReportHandler はレポートAPIのHTTPハンドラー。
type ReportHandler struct {
	service ReportServiceInterface
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: service}
}

// LastWeek は直近1週間の完了タスク一覧を返す。
// GET /report/last-week
func (h *ReportHandler) LastWeek(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.LastWeek(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Pending は未完了タスクの見積もり合計を返す。
// GET /report/pending
func (h *ReportHandler) Pending(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Pending(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// ClosedTasks は完了タスクのグループ別集計を返す。
// GET /report/closed-tasks
func (h *ReportHandler) ClosedTasks(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ClosedTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if groups == nil {
		groups = []*report.ClosedGroup{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}
