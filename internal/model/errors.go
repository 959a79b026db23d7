// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, booking, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeTokenInvalid         = "TOKEN_INVALID"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeTeacherNotFound      = "TEACHER_NOT_FOUND"
	ErrCodeAlreadyParticipating = "ALREADY_PARTICIPATING"
	ErrCodeNotParticipating     = "NOT_PARTICIPATING"
	ErrCodeInvalidID            = "INVALID_ID"
)

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレスの存在有無とパスワード誤りを区別せず、常に同一のメッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度ログインしてください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewTokenInvalidError はトークン無効エラーを生成する。
// 期限切れ、改ざん、発行後のアカウント変更のいずれの場合も同一のエラーを返す。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "認証トークンが無効です。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "booking",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewSessionNotFoundError はセッションが見つからない場合のエラーを生成する。
func NewSessionNotFoundError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeSessionNotFound,
		Message:  fmt.Sprintf("指定されたセッションが見つかりません: %s", sessionID),
		Category: "booking",
		Action:   "セッションIDを確認してください。",
	}
}

// NewTeacherNotFoundError は講師が見つからない場合のエラーを生成する。
func NewTeacherNotFoundError(teacherID string) *APIError {
	return &APIError{
		Code:     ErrCodeTeacherNotFound,
		Message:  fmt.Sprintf("指定された講師が見つかりません: %s", teacherID),
		Category: "booking",
		Action:   "講師IDを確認してください。",
	}
}

// NewAlreadyParticipatingError は二重参加エラーを生成する。
func NewAlreadyParticipatingError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyParticipating,
		Message:  "このセッションには既に参加しています。",
		Category: "booking",
		Action:   "参加中のセッション一覧を確認してください。",
	}
}

// NewNotParticipatingError は未参加セッションからの離脱エラーを生成する。
func NewNotParticipatingError() *APIError {
	return &APIError{
		Code:     ErrCodeNotParticipating,
		Message:  "このセッションには参加していません。",
		Category: "booking",
		Action:   "参加中のセッション一覧を確認してください。",
	}
}

// NewInvalidIDError はIDの形式が不正な場合のエラーを生成する。
func NewInvalidIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("IDの形式が不正です: %s", id),
		Category: "validation",
		Action:   "正しいID形式（UUID）を指定してください。",
	}
}
