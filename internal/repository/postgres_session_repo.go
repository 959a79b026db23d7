package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/yogabook/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// FindByID は指定IDのセッションを参加者一覧込みで取得する。見つからない場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	var teacherID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, date, description, teacher_id, created_at, updated_at
		 FROM sessions WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.Name, &session.Date, &session.Description, &teacherID, &session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	session.TeacherID = teacherID.String

	userIDs, err := r.listParticipants(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.UserIDs = userIDs

	return session, nil
}

// List は全セッションを参加者一覧込みで開催日の昇順で取得する。
func (r *PostgresSessionRepo) List(ctx context.Context) ([]*model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, date, description, teacher_id, created_at, updated_at
		 FROM sessions ORDER BY date`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session := &model.Session{}
		var teacherID sql.NullString
		if err := rows.Scan(&session.ID, &session.Name, &session.Date, &session.Description, &teacherID, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.TeacherID = teacherID.String
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	for _, session := range sessions {
		userIDs, err := r.listParticipants(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		session.UserIDs = userIDs
	}

	return sessions, nil
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, date, description, teacher_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.Name, session.Date, session.Description,
		nullableID(session.TeacherID), session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Update はセッションの属性を更新する。参加者一覧は変更しない。
func (r *PostgresSessionRepo) Update(ctx context.Context, session *model.Session) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET name = $2, date = $3, description = $4, teacher_id = $5, updated_at = $6
		 WHERE id = $1`,
		session.ID, session.Name, session.Date, session.Description,
		nullableID(session.TeacherID), session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewSessionNotFoundError(session.ID)
	}
	return nil
}

// DeleteByID は指定IDのセッションを削除する。
// 関連するsession_participantsはCASCADE削除される。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewSessionNotFoundError(id)
	}
	return nil
}

// AddParticipant はセッションに参加者を追加する。
func (r *PostgresSessionRepo) AddParticipant(ctx context.Context, sessionID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_participants (session_id, user_id) VALUES ($1, $2)`,
		sessionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant はセッションから参加者を削除する。
func (r *PostgresSessionRepo) RemoveParticipant(ctx context.Context, sessionID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_participants WHERE session_id = $1 AND user_id = $2`,
		sessionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

// listParticipants はセッションの参加者ID一覧を参加日時順で取得する。
func (r *PostgresSessionRepo) listParticipants(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM session_participants WHERE session_id = $1 ORDER BY joined_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return userIDs, nil
}

// nullableID は空文字列のIDをNULLに変換する。
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
