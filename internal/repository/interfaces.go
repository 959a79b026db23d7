// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/yogabook/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// メールアドレスは保存された表記のまま大文字小文字を区別して比較する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail は指定メールアドレスのユーザーが存在するかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成する。
	// メールアドレスのUNIQUE制約違反はEMAIL_TAKENのAPIErrorとして返す。
	Create(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するsession_participantsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// TeacherRepository は講師データの永続化インターフェース。
type TeacherRepository interface {
	// FindByID は指定IDの講師を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Teacher, error)

	// List は全講師を取得する。
	List(ctx context.Context) ([]*model.Teacher, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// FindByID は指定IDのセッションを参加者一覧込みで取得する。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// List は全セッションを参加者一覧込みで取得する。
	List(ctx context.Context) ([]*model.Session, error)

	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// Update はセッションの属性を更新する。参加者一覧は変更しない。
	Update(ctx context.Context, session *model.Session) error

	// DeleteByID は指定IDのセッションを削除する。
	// 関連するsession_participantsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error

	// AddParticipant はセッションに参加者を追加する。
	AddParticipant(ctx context.Context, sessionID, userID string) error

	// RemoveParticipant はセッションから参加者を削除する。
	RemoveParticipant(ctx context.Context, sessionID, userID string) error
}
