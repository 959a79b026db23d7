// Package auth は認証のコアロジック（パスワード検証、トークン発行、認証サービス）を提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化と検証のインターフェース。
type PasswordHasher interface {
	// Hash は平文パスワードのソルト付きハッシュを生成する。
	// 同じ平文でも呼び出しごとに異なるハッシュ文字列を返す。
	Hash(plaintext string) (string, error)

	// Verify はハッシュが平文から生成されたものかを検証する。
	// ハッシュ形式が不正な場合もfalseを返し、エラーは返さない。
	Verify(plaintext, hash string) bool
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
// ソルトはハッシュ文字列内にエンコードされる。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はデフォルトコストのBcryptHasherを生成する。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash は平文パスワードのbcryptハッシュを生成する。
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードとbcryptハッシュの一致を検証する。
// 攻撃者が制御可能な入力で呼ばれるため、不正な形式のハッシュでもfalseを返すのみ。
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
