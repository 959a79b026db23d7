package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/yogabook/internal/model"
	"github.com/hitoshi/yogabook/internal/repository"
)

// AuthResult は認証成功時に外部へ返すトークンとプロフィール情報。
// パスワードハッシュは決して含めない。
type AuthResult struct {
	Token     string
	ID        string
	Email     string
	FirstName string
	LastName  string
	Admin     bool
}

// RegisterInput は新規登録のための入力。
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// MetricsRecorder は認証結果のメトリクス記録インターフェース。
// 未設定（nil）の場合は記録をスキップする。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRegistration()
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	users   repository.UserRepository
	hasher  PasswordHasher
	codec   *TokenCodec
	metrics MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil許容。
func NewService(users repository.UserRepository, hasher PasswordHasher, codec *TokenCodec, metrics MetricsRecorder) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		codec:   codec,
		metrics: metrics,
	}
}

// Authenticate はメールアドレスとパスワードを検証し、トークンを発行する。
// ユーザーが存在しない場合もパスワードが誤っている場合も、同一の
// INVALID_CREDENTIALSエラーを返す（存在有無を外部に漏らさない）。
func (s *Service) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil || !s.hasher.Verify(password, user.Password) {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, model.NewInvalidCredentialsError()
	}

	result, err := s.IssueFor(user)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in", slog.String("user_id", user.ID))

	return result, nil
}

// IssueFor は認証済みのユーザーに対して直接トークンを発行する。
// 登録直後など、パスワードの再検証が不要な場合に使用する。
func (s *Service) IssueFor(user *model.User) (*AuthResult, error) {
	token, err := s.codec.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{
		Token:     token,
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admin:     user.Admin,
	}, nil
}

// Register は新規ユーザーを作成し、自動ログインのトークンを発行する。
// メールアドレスが既に使用されている場合はEMAIL_TAKENエラーを返す。
// 存在確認と作成はアトミックではない。競合した場合はusersテーブルの
// UNIQUE制約違反が同じEMAIL_TAKENエラーに変換される。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, model.NewEmailTakenError()
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Password:  hashed,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Admin:     false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	slog.Info("new user registered",
		slog.String("user_id", user.ID),
	)

	return s.IssueFor(user)
}
