package model

import "time"

// User はサービス利用ユーザーを表す。
// Passwordはbcryptハッシュ文字列を保持し、APIレスポンスには決して含めない。
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Admin     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
