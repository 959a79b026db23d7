package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/yogabook/internal/model"
)

// --- モック定義 ---

// mockSessionRepo はrepository.SessionRepositoryのモック実装。
type mockSessionRepo struct {
	findByIDFn          func(ctx context.Context, id string) (*model.Session, error)
	listFn              func(ctx context.Context) ([]*model.Session, error)
	createFn            func(ctx context.Context, session *model.Session) error
	updateFn            func(ctx context.Context, session *model.Session) error
	deleteByIDFn        func(ctx context.Context, id string) error
	addParticipantFn    func(ctx context.Context, sessionID, userID string) error
	removeParticipantFn func(ctx context.Context, sessionID, userID string) error
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) List(ctx context.Context) ([]*model.Session, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *model.Session) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) AddParticipant(ctx context.Context, sessionID, userID string) error {
	if m.addParticipantFn != nil {
		return m.addParticipantFn(ctx, sessionID, userID)
	}
	return nil
}

func (m *mockSessionRepo) RemoveParticipant(ctx context.Context, sessionID, userID string) error {
	if m.removeParticipantFn != nil {
		return m.removeParticipantFn(ctx, sessionID, userID)
	}
	return nil
}

// mockUserRepo はrepository.UserRepositoryのモック実装。
type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error { return nil }

// --- テストヘルパー ---

const (
	testSessionID = "5f3e1c9a-aaaa-4bbb-8ccc-dddd11112222"
	testUserID    = "7b3e1c9a-1111-4222-8333-444455556666"
)

func yogaSession(participants ...string) *model.Session {
	return &model.Session{
		ID:          testSessionID,
		Name:        "朝ヨガ",
		Date:        time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		Description: "初心者向けの朝ヨガセッション",
		UserIDs:     participants,
	}
}

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("code = %q, want %q", apiErr.Code, wantCode)
	}
}

// --- GetByID / Delete / Update テスト ---

func TestService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&mockSessionRepo{}, &mockUserRepo{})

	_, err := svc.GetByID(context.Background(), testSessionID)
	assertAPIErrorCode(t, err, model.ErrCodeSessionNotFound)
}

func TestService_Create_GeneratesIDAndTimestamps(t *testing.T) {
	var created *model.Session
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			created = session
			return nil
		},
	}
	svc := NewService(sessions, &mockUserRepo{})

	date := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	got, err := svc.Create(context.Background(), CreateInput{
		Name: "朝ヨガ",
		Date: date,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if created.ID == "" {
		t.Error("expected generated session ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if got.Name != "朝ヨガ" {
		t.Errorf("Name = %q, want %q", got.Name, "朝ヨガ")
	}
}

// 更新はURLパスのIDを使い、ボディのIDを無視することを検証
func TestService_Update_UsesPathID(t *testing.T) {
	existing := yogaSession()
	var updated *model.Session
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id == testSessionID {
				return existing, nil
			}
			return nil, nil
		},
		updateFn: func(ctx context.Context, session *model.Session) error {
			updated = session
			return nil
		},
	}
	svc := NewService(sessions, &mockUserRepo{})

	got, err := svc.Update(context.Background(), testSessionID, CreateInput{
		Name: "夜ヨガ",
		Date: time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("expected Update to be called")
	}
	if updated.ID != testSessionID {
		t.Errorf("ID = %q, want %q", updated.ID, testSessionID)
	}
	if got.Name != "夜ヨガ" {
		t.Errorf("Name = %q, want %q", got.Name, "夜ヨガ")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(&mockSessionRepo{}, &mockUserRepo{})

	_, err := svc.Update(context.Background(), testSessionID, CreateInput{Name: "x"})
	assertAPIErrorCode(t, err, model.ErrCodeSessionNotFound)
}

func TestService_Delete_NotFound(t *testing.T) {
	deleteCalled := false
	sessions := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewService(sessions, &mockUserRepo{})

	err := svc.Delete(context.Background(), testSessionID)
	assertAPIErrorCode(t, err, model.ErrCodeSessionNotFound)
	if deleteCalled {
		t.Error("DeleteByID must not be called for a missing session")
	}
}

// --- Participate テスト ---

func TestService_Participate_Success(t *testing.T) {
	addCalled := false
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return yogaSession(), nil
		},
		addParticipantFn: func(ctx context.Context, sessionID, userID string) error {
			addCalled = true
			if sessionID != testSessionID || userID != testUserID {
				t.Errorf("AddParticipant(%q, %q), want (%q, %q)", sessionID, userID, testSessionID, testUserID)
			}
			return nil
		},
	}
	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: testUserID}, nil
		},
	}
	svc := NewService(sessions, users)

	if err := svc.Participate(context.Background(), testSessionID, testUserID); err != nil {
		t.Fatalf("Participate() error = %v", err)
	}
	if !addCalled {
		t.Error("expected AddParticipant to be called")
	}
}

func TestService_Participate_SessionNotFound(t *testing.T) {
	svc := NewService(&mockSessionRepo{}, &mockUserRepo{})

	err := svc.Participate(context.Background(), testSessionID, testUserID)
	assertAPIErrorCode(t, err, model.ErrCodeSessionNotFound)
}

func TestService_Participate_UserNotFound(t *testing.T) {
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return yogaSession(), nil
		},
	}
	svc := NewService(sessions, &mockUserRepo{})

	err := svc.Participate(context.Background(), testSessionID, testUserID)
	assertAPIErrorCode(t, err, model.ErrCodeUserNotFound)
}

// 既に参加しているユーザーの二重参加を拒否することを検証
func TestService_Participate_AlreadyParticipating(t *testing.T) {
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return yogaSession(testUserID), nil
		},
		addParticipantFn: func(ctx context.Context, sessionID, userID string) error {
			t.Error("AddParticipant must not be called for a duplicate join")
			return nil
		},
	}
	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: testUserID}, nil
		},
	}
	svc := NewService(sessions, users)

	err := svc.Participate(context.Background(), testSessionID, testUserID)
	assertAPIErrorCode(t, err, model.ErrCodeAlreadyParticipating)
}

// --- NoLongerParticipate テスト ---

func TestService_NoLongerParticipate_Success(t *testing.T) {
	removeCalled := false
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return yogaSession(testUserID), nil
		},
		removeParticipantFn: func(ctx context.Context, sessionID, userID string) error {
			removeCalled = true
			return nil
		},
	}
	svc := NewService(sessions, &mockUserRepo{})

	if err := svc.NoLongerParticipate(context.Background(), testSessionID, testUserID); err != nil {
		t.Fatalf("NoLongerParticipate() error = %v", err)
	}
	if !removeCalled {
		t.Error("expected RemoveParticipant to be called")
	}
}

func TestService_NoLongerParticipate_SessionNotFound(t *testing.T) {
	svc := NewService(&mockSessionRepo{}, &mockUserRepo{})

	err := svc.NoLongerParticipate(context.Background(), testSessionID, testUserID)
	assertAPIErrorCode(t, err, model.ErrCodeSessionNotFound)
}

// 参加していないユーザーの離脱を拒否することを検証
func TestService_NoLongerParticipate_NotParticipating(t *testing.T) {
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return yogaSession(), nil
		},
		removeParticipantFn: func(ctx context.Context, sessionID, userID string) error {
			t.Error("RemoveParticipant must not be called for a non-participant")
			return nil
		},
	}
	svc := NewService(sessions, &mockUserRepo{})

	err := svc.NoLongerParticipate(context.Background(), testSessionID, testUserID)
	assertAPIErrorCode(t, err, model.ErrCodeNotParticipating)
}
