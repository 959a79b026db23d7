package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/yogabook/internal/model"
)

// --- モック定義 ---

// mockUserRepo はrepository.UserRepositoryのモック実装。
type mockUserRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn   func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)
	createFn        func(ctx context.Context, user *model.User) error
	deleteByIDFn    func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// --- テストヘルパー ---

func newTestService(t *testing.T, users *mockUserRepo) *Service {
	t.Helper()
	codec := newTestCodec(t, time.Hour)
	return NewService(users, NewBcryptHasher(), codec, nil)
}

func storedUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := NewBcryptHasher().Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	return &model.User{
		ID:        "7b3e1c9a-1111-4222-8333-444455556666",
		Email:     email,
		Password:  hash,
		FirstName: "花子",
		LastName:  "山田",
		Admin:     false,
	}
}

// --- Authenticate テスト ---

func TestService_Authenticate_Success(t *testing.T) {
	user := storedUser(t, "yoga@example.com", "password123")
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "yoga@example.com" {
				t.Errorf("email = %q, want %q", email, "yoga@example.com")
			}
			return user, nil
		},
	}

	svc := newTestService(t, users)

	result, err := svc.Authenticate(context.Background(), "yoga@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if result.Token == "" {
		t.Error("expected non-empty token")
	}
	if result.ID != user.ID {
		t.Errorf("ID = %q, want %q", result.ID, user.ID)
	}
	if result.Email != "yoga@example.com" {
		t.Errorf("Email = %q, want %q", result.Email, "yoga@example.com")
	}

	// トークンのsubjectはメールアドレスであること
	codec := newTestCodec(t, time.Hour)
	subject, ok := codec.SubjectOf(result.Token)
	if !ok || subject != "yoga@example.com" {
		t.Errorf("token subject = %q (ok=%v), want %q", subject, ok, "yoga@example.com")
	}
}

// ユーザー不在とパスワード誤りで同一のエラーを返すことを検証
func TestService_Authenticate_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	user := storedUser(t, "yoga@example.com", "password123")
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "yoga@example.com" {
				return user, nil
			}
			return nil, nil
		},
	}

	svc := newTestService(t, users)

	_, errUnknown := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	_, errWrongPw := svc.Authenticate(context.Background(), "yoga@example.com", "wrong-password")

	for name, err := range map[string]error{"unknown email": errUnknown, "wrong password": errWrongPw} {
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: expected APIError, got %v", name, err)
		}
		if apiErr.Code != model.ErrCodeInvalidCredentials {
			t.Errorf("%s: code = %q, want %q", name, apiErr.Code, model.ErrCodeInvalidCredentials)
		}
	}

	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("both failures must produce identical errors: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestService_Authenticate_RepoError_Propagates(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := newTestService(t, users)

	_, err := svc.Authenticate(context.Background(), "yoga@example.com", "password123")
	if err == nil {
		t.Fatal("expected error")
	}

	// ストア障害は認証失敗エラーに変換しない
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("store failure should not map to APIError, got %v", apiErr)
	}
}

// --- Register テスト ---

func TestService_Register_Success(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := newTestService(t, users)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "new@example.com",
		FirstName: "太郎",
		LastName:  "鈴木",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if created.ID == "" {
		t.Error("expected generated user ID")
	}
	if created.Password == "password123" {
		t.Error("stored password must be hashed")
	}
	if created.Admin {
		t.Error("self-registered user must not be admin")
	}

	if result.Token == "" {
		t.Error("expected auto-login token")
	}
	if result.Admin {
		t.Error("Admin = true, want false")
	}
}

func TestService_Register_EmailTaken_ReturnsError(t *testing.T) {
	users := &mockUserRepo{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			t.Error("Create must not be called when email is taken")
			return nil
		},
	}

	svc := newTestService(t, users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeEmailTaken)
	}
}

// 存在確認と作成の競合でUNIQUE制約違反が起きた場合、
// リポジトリのEMAIL_TAKENエラーがそのまま伝播することを検証
func TestService_Register_CreateRace_PropagatesEmailTaken(t *testing.T) {
	users := &mockUserRepo{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			return model.NewEmailTakenError()
		},
	}

	svc := newTestService(t, users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "raced@example.com",
		Password: "password123",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeEmailTaken)
	}
}

// --- メトリクス記録テスト ---

type countingMetrics struct {
	loginSuccess int
	loginFailure int
	registration int
}

func (c *countingMetrics) RecordLoginSuccess() { c.loginSuccess++ }
func (c *countingMetrics) RecordLoginFailure() { c.loginFailure++ }
func (c *countingMetrics) RecordRegistration() { c.registration++ }

func TestService_Metrics_RecordedPerOutcome(t *testing.T) {
	user := storedUser(t, "yoga@example.com", "password123")
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "yoga@example.com" {
				return user, nil
			}
			return nil, nil
		},
	}

	m := &countingMetrics{}
	codec := newTestCodec(t, time.Hour)
	svc := NewService(users, NewBcryptHasher(), codec, m)

	if _, err := svc.Authenticate(context.Background(), "yoga@example.com", "password123"); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	svc.Authenticate(context.Background(), "yoga@example.com", "wrong")
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "new@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if m.loginSuccess != 1 {
		t.Errorf("loginSuccess = %d, want 1", m.loginSuccess)
	}
	if m.loginFailure != 1 {
		t.Errorf("loginFailure = %d, want 1", m.loginFailure)
	}
	if m.registration != 1 {
		t.Errorf("registration = %d, want 1", m.registration)
	}
}
