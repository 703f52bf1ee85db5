package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/team"
)

// TeamServiceInterface はチームハンドラーが必要とするサービスインターフェース。
type TeamServiceInterface interface {
	Create(ctx context.Context, t *model.Team) error
	// List は全チームをメンバー参照の解決付きで返す。
	List(ctx context.Context) ([]*team.Detail, error)
}

// TeamHandler はチーム管理のHTTPハンドラー。
type TeamHandler struct {
	service TeamServiceInterface
}

// NewTeamHandler はTeamHandlerを生成する。
func NewTeamHandler(service TeamServiceInterface) *TeamHandler {
	return &TeamHandler{service: service}
}

// teamRequest はチーム作成リクエストのボディ。
type teamRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// teamResponse はメンバー解決済みチーム情報のAPIレスポンス。
type teamResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Members     []userResponse `json:"members"`
	CreatedAt   string         `json:"createdAt"`
}

// CreateTeam はチーム作成を処理する。
// POST /teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}

	t := &model.Team{
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
	}

	if err := h.service.Create(r.Context(), t); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":      t.ID,
		"message": "チームを登録しました。",
	})
}

// ListTeams は全チームをメンバー解決付きで返す。
// GET /teams
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]teamResponse, 0, len(details))
	for _, d := range details {
		tr := teamResponse{
			ID:          d.Team.ID,
			Name:        d.Team.Name,
			Description: d.Team.Description,
			Members:     make([]userResponse, 0, len(d.Members)),
			CreatedAt:   d.Team.CreatedAt.Format(time.RFC3339),
		}
		for _, m := range d.Members {
			tr.Members = append(tr.Members, toUserResponse(m))
		}
		resp = append(resp, tr)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
