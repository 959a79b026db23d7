// Package session はヨガセッション管理のドメインロジックを提供する。
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/yogabook/internal/model"
	"github.com/hitoshi/yogabook/internal/repository"
)

// CreateInput はセッション作成・更新のための入力。
type CreateInput struct {
	Name        string
	Date        time.Time
	Description string
	TeacherID   string
}

// Service はセッション管理のサービス層。
// CRUD操作と参加管理のビジネスロジックを提供する。
type Service struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(sessions repository.SessionRepository, users repository.UserRepository) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
	}
}

// GetByID は指定IDのセッションを取得する。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewSessionNotFoundError(id)
	}
	return session, nil
}

// FindAll は全セッションを取得する。
func (s *Service) FindAll(ctx context.Context) ([]*model.Session, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("セッション一覧の取得に失敗しました: %w", err)
	}
	return sessions, nil
}

// Create は新規セッションを作成する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Date:        input.Date,
		Description: input.Description,
		TeacherID:   input.TeacherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("session created",
		slog.String("session_id", session.ID),
	)

	return session, nil
}

// Update は既存セッションの属性を更新する。参加者一覧は変更しない。
// IDはURLパスのものを使用し、ボディ側のIDは無視する。
func (s *Service) Update(ctx context.Context, id string, input CreateInput) (*model.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewSessionNotFoundError(id)
	}

	session.Name = input.Name
	session.Date = input.Date
	session.Description = input.Description
	session.TeacherID = input.TeacherID
	session.UpdatedAt = time.Now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの更新に失敗しました: %w", err)
	}

	return session, nil
}

// Delete は指定IDのセッションを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return model.NewSessionNotFoundError(id)
	}

	if err := s.sessions.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	slog.Info("session deleted",
		slog.String("session_id", id),
	)

	return nil
}

// Participate はユーザーをセッションに参加させる。
// セッションまたはユーザーが存在しない場合はNotFound、
// 既に参加している場合はALREADY_PARTICIPATINGを返す。
func (s *Service) Participate(ctx context.Context, sessionID, userID string) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return model.NewSessionNotFoundError(sessionID)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError(userID)
	}

	if session.HasParticipant(userID) {
		return model.NewAlreadyParticipatingError()
	}

	if err := s.sessions.AddParticipant(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("参加者の追加に失敗しました: %w", err)
	}

	slog.Info("user joined session",
		slog.String("session_id", sessionID),
		slog.String("user_id", userID),
	)

	return nil
}

// NoLongerParticipate はユーザーのセッション参加を取り消す。
// セッションが存在しない場合はNotFound、
// 参加していない場合はNOT_PARTICIPATINGを返す。
func (s *Service) NoLongerParticipate(ctx context.Context, sessionID, userID string) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return model.NewSessionNotFoundError(sessionID)
	}

	if !session.HasParticipant(userID) {
		return model.NewNotParticipatingError()
	}

	if err := s.sessions.RemoveParticipant(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("参加者の削除に失敗しました: %w", err)
	}

	slog.Info("user left session",
		slog.String("session_id", sessionID),
		slog.String("user_id", userID),
	)

	return nil
}
