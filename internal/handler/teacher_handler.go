package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/yogabook/internal/model"
)

// TeacherServiceInterface は講師ハンドラーが必要とするサービスインターフェース。
type TeacherServiceInterface interface {
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
	FindAll(ctx context.Context) ([]*model.Teacher, error)
}

// teacherResponse は講師のAPIレスポンス。
type teacherResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TeacherHandler は講師参照のHTTPハンドラー。
type TeacherHandler struct {
	service TeacherServiceInterface
}

// NewTeacherHandler はTeacherHandlerを生成する。
func NewTeacherHandler(service TeacherServiceInterface) *TeacherHandler {
	return &TeacherHandler{service: service}
}

// ListTeachers は全講師を返す。
// GET /api/teacher
func (h *TeacherHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.FindAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]teacherResponse, len(teachers))
	for i, t := range teachers {
		responses[i] = toTeacherResponse(t)
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetTeacher は指定IDの講師を返す。
// GET /api/teacher/{id}
func (h *TeacherHandler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	t, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTeacherResponse(t))
}

func toTeacherResponse(t *model.Teacher) teacherResponse {
	return teacherResponse{
		ID:        t.ID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
