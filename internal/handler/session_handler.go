package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/yogabook/internal/model"
	"github.com/hitoshi/yogabook/internal/session"
)

// SessionServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	GetByID(ctx context.Context, id string) (*model.Session, error)
	FindAll(ctx context.Context) ([]*model.Session, error)
	Create(ctx context.Context, input session.CreateInput) (*model.Session, error)
	Update(ctx context.Context, id string, input session.CreateInput) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	Participate(ctx context.Context, sessionID, userID string) error
	NoLongerParticipate(ctx context.Context, sessionID, userID string) error
}

// sessionRequest はセッション作成・更新のリクエストボディ。
type sessionRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	TeacherID   string    `json:"teacher_id"`
}

// sessionResponse はセッションのAPIレスポンス。
type sessionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	TeacherID   string    `json:"teacher_id"`
	Users       []string  `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SessionHandler はセッション管理のHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

// ListSessions は全セッションを返す。
// GET /api/session
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.FindAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = toSessionResponse(s)
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetSession は指定IDのセッションを返す。
// GET /api/session/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// CreateSession は新規セッションを作成する。
// POST /api/session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeSessionRequest(w, r)
	if !ok {
		return
	}

	s, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(s))
}

// UpdateSession は既存セッションを更新する。IDはURLパスのものを使用する。
// PUT /api/session/{id}
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	input, ok := decodeSessionRequest(w, r)
	if !ok {
		return
	}

	s, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// DeleteSession は指定IDのセッションを削除する。
// DELETE /api/session/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Participate はユーザーをセッションに参加させる。
// POST /api/session/{id}/participate/{userId}
func (h *SessionHandler) Participate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(w, r, "userId")
	if !ok {
		return
	}

	if err := h.service.Participate(r.Context(), sessionID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// NoLongerParticipate はユーザーのセッション参加を取り消す。
// DELETE /api/session/{id}/participate/{userId}
func (h *SessionHandler) NoLongerParticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(w, r, "userId")
	if !ok {
		return
	}

	if err := h.service.NoLongerParticipate(r.Context(), sessionID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// --- ヘルパー関数 ---

// parseIDParam はURLパスパラメータをUUIDとして検証する。
// 形式不正の場合は400を書き込み、(_, false)を返す。
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidIDError(id))
		return "", false
	}
	return id, true
}

// decodeSessionRequest はリクエストボディを読み取り検証する。
func decodeSessionRequest(w http.ResponseWriter, r *http.Request) (session.CreateInput, bool) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの形式が不正です。")
		return session.CreateInput{}, false
	}
	if req.Name == "" || req.Date.IsZero() {
		writeInvalidRequest(w, "nameとdateは必須です。")
		return session.CreateInput{}, false
	}
	if req.TeacherID != "" {
		if _, err := uuid.Parse(req.TeacherID); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidIDError(req.TeacherID))
			return session.CreateInput{}, false
		}
	}

	return session.CreateInput{
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}, true
}

// toSessionResponse はmodel.SessionからAPIレスポンスに変換する。
func toSessionResponse(s *model.Session) sessionResponse {
	users := s.UserIDs
	if users == nil {
		users = []string{}
	}
	return sessionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Date:        s.Date,
		Description: s.Description,
		TeacherID:   s.TeacherID,
		Users:       users,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
