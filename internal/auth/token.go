package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 署名シークレットの最小文字数。
const minSecretLength = 32

// TokenCodec は署名付き・時限付きベアラートークンの発行と検証を行う。
// トークンのsubjectにはユーザーのメールアドレスを埋め込む。
type TokenCodec struct {
	secret   []byte
	validity time.Duration
}

// NewTokenCodec はTokenCodecを生成する。
// シークレットが短すぎる場合は構成エラーとして即座に失敗する。
func NewTokenCodec(secret string, validity time.Duration) (*TokenCodec, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d characters, got %d", minSecretLength, len(secret))
	}
	return &TokenCodec{
		secret:   []byte(secret),
		validity: validity,
	}, nil
}

// Issue はsubjectEmailを埋め込んだ署名付きトークンを発行する。
// 有効期限は発行時刻 + 有効期間。
func (c *TokenCodec) Issue(subjectEmail string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectEmail,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// SubjectOf はトークンを解析・署名検証し、埋め込まれたsubjectを返す。
// 改ざん・未署名・形式不正のトークンには(_, false)を返し、決してエラーを投げない。
// 期限切れはここでは判定しない。署名が正しい期限切れトークンのsubjectも解決できる
// （ゲートはsubject解決後にIsValidで期限を判定し401を返す）。
func (c *TokenCodec) SubjectOf(tokenString string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// IsValid はトークンのsubjectがexpectedEmailと一致し、かつ期限内であればtrueを返す。
// 期限の比較は呼び出し時点の実時刻で行う。結果をキャッシュしてはならない。
func (c *TokenCodec) IsValid(tokenString, expectedEmail string) bool {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return false
	}
	return claims.Subject == expectedEmail
}
