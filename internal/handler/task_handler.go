package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskman/internal/metrics"
	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// Create はタスクを作成する。
	Create(ctx context.Context, t *model.Task) error
	// List はフィルタに合致するタスク一覧を返す。
	List(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)
	// Update はタスクを部分更新する。
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	// Delete はタスクを削除する。
	Delete(ctx context.Context, id string) error
	// Get はタスクを参照解決付きで取得する。
	Get(ctx context.Context, id string) (*task.Detail, error)
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service   TaskServiceInterface
	collector metrics.MetricsCollector
}

// NewTaskHandler はTaskHandlerを生成する。collectorはnilを許容する。
func NewTaskHandler(service TaskServiceInterface, collector metrics.MetricsCollector) *TaskHandler {
	return &TaskHandler{
		service:   service,
		collector: collector,
	}
}

// taskRequest はタスク作成リクエストのボディ。
type taskRequest struct {
	Name           string   `json:"name"`
	Project        string   `json:"project"`
	Team           string   `json:"team"`
	Owners         []string `json:"owners"`
	Tags           []string `json:"tags"`
	TimeToComplete int      `json:"timeToComplete"`
	Status         string   `json:"status"`
}

// taskPatchRequest はタスク更新リクエストのボディ。
// 省略されたフィールドは更新対象外とする。
type taskPatchRequest struct {
	Name           *string   `json:"name"`
	Project        *string   `json:"project"`
	Team           *string   `json:"team"`
	Owners         *[]string `json:"owners"`
	Tags           *[]string `json:"tags"`
	TimeToComplete *int      `json:"timeToComplete"`
	Status         *string   `json:"status"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Project        string   `json:"project"`
	Team           string   `json:"team"`
	Owners         []string `json:"owners"`
	Tags           []string `json:"tags"`
	TimeToComplete int      `json:"timeToComplete"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// taskDetailResponse は参照解決済みタスクのAPIレスポンス。
// 参照先が存在しない場合、project/teamはnullになる。
type taskDetailResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Project        *projectResponse `json:"project"`
	Team           *teamRefResponse `json:"team"`
	Owners         []userResponse   `json:"owners"`
	Tags           []string         `json:"tags"`
	TimeToComplete int              `json:"timeToComplete"`
	Status         string           `json:"status"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
}

// teamRefResponse はタスクの参照解決で返すチーム情報。メンバー解決は行わない。
type teamRefResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateTask はタスク作成を処理する。
// POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}
	if req.Status == "" {
		req.Status = "To Do"
	}

	t := &model.Task{
		Name:           req.Name,
		Project:        req.Project,
		Team:           req.Team,
		Owners:         req.Owners,
		Tags:           req.Tags,
		TimeToComplete: req.TimeToComplete,
		Status:         req.Status,
	}

	if err := h.service.Create(r.Context(), t); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordTaskCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTaskResponse(t))
}

// ListTasks はクエリパラメータで絞り込んだタスク一覧を返す。
// GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter := task.ParseFilter(r.URL.Query())

	tasks, err := h.service.List(r.Context(), filter)
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

// UpdateTask はタスクの部分更新を処理する。
// PUT /tasks/:id
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req taskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	patch := model.TaskPatch{
		Name:           req.Name,
		Project:        req.Project,
		Team:           req.Team,
		Owners:         req.Owners,
		Tags:           req.Tags,
		TimeToComplete: req.TimeToComplete,
		Status:         req.Status,
	}

	updated, err := h.service.Update(r.Context(), taskID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil && req.Status != nil && *req.Status == model.StatusCompleted {
		h.collector.RecordTaskCompleted()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskResponse(updated))
}

// DeleteTask はタスク削除を処理する。
// DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "タスクを削除しました。",
	})
}

// GetTask はタスクを参照解決付きで返す。認証不要の公開エンドポイント。
// GET /tasks/:id
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	detail, err := h.service.Get(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskDetailResponse(detail))
}

// --- ヘルパー関数 ---

// toTaskResponse はmodel.TaskからAPIレスポンスに変換する。
func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:             t.ID,
		Name:           t.Name,
		Project:        t.Project,
		Team:           t.Team,
		Owners:         emptyIfNil(t.Owners),
		Tags:           emptyIfNil(t.Tags),
		TimeToComplete: t.TimeToComplete,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
}

// toTaskDetailResponse はtask.DetailからAPIレスポンスに変換する。
func toTaskDetailResponse(d *task.Detail) taskDetailResponse {
	resp := taskDetailResponse{
		ID:             d.Task.ID,
		Name:           d.Task.Name,
		Owners:         make([]userResponse, 0, len(d.Owners)),
		Tags:           emptyIfNil(d.Task.Tags),
		TimeToComplete: d.Task.TimeToComplete,
		Status:         d.Task.Status,
		CreatedAt:      d.Task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      d.Task.UpdatedAt.Format(time.RFC3339),
	}

	if d.Project != nil {
		p := toProjectResponse(d.Project)
		resp.Project = &p
	}
	if d.Team != nil {
		resp.Team = &teamRefResponse{
			ID:          d.Team.ID,
			Name:        d.Team.Name,
			Description: d.Team.Description,
		}
	}
	for _, owner := range d.Owners {
		resp.Owners = append(resp.Owners, toUserResponse(owner))
	}

	return resp
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// emptyIfNil はnilスライスを空スライスに変換する。JSONでnullではなく[]を返すため。
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "内部エラーが発生しました。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeNoToken, model.ErrCodeUserNotFound, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidToken:
		return http.StatusForbidden
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeTaskNotFound, model.ErrCodeProjectNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
