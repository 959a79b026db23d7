// Package teacher は講師情報のドメインロジックを提供する。
package teacher

import (
	"context"
	"fmt"

	"github.com/hitoshi/yogabook/internal/model"
	"github.com/hitoshi/yogabook/internal/repository"
)

// Service は講師情報のサービス層。読み取り操作のみを提供する。
type Service struct {
	teachers repository.TeacherRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(teachers repository.TeacherRepository) *Service {
	return &Service{teachers: teachers}
}

// GetByID は指定IDの講師を取得する。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("講師の取得に失敗しました: %w", err)
	}
	if teacher == nil {
		return nil, model.NewTeacherNotFoundError(id)
	}
	return teacher, nil
}

// FindAll は全講師を取得する。
func (s *Service) FindAll(ctx context.Context) ([]*model.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("講師一覧の取得に失敗しました: %w", err)
	}
	return teachers, nil
}
