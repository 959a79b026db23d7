package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/yogabook/internal/auth"
	"github.com/hitoshi/yogabook/internal/model"
)

// 認証失敗時にtokenフィールドへ埋め込む固定メッセージ。
// 既存クライアントとのワイヤ契約のため文言を変更してはならない。
const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "Error: Email is already taken!"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, email, password string) (*auth.AuthResult, error)
	Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error)
}

// loginRequest はログインのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest は新規登録のリクエストボディ。
type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// tokenResponse は認証レスポンスの固定フォーマット。
// 失敗時もレスポンスの形を変えず、tokenフィールドにメッセージを格納し
// 残りのフィールドをnullにする（クライアント側の一律パースを保つための既存契約）。
type tokenResponse struct {
	Token     string  `json:"token"`
	ID        *string `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Admin     bool    `json:"admin"`
}

// newTokenResponse は認証成功の結果からレスポンスを組み立てる。
func newTokenResponse(result *auth.AuthResult) tokenResponse {
	return tokenResponse{
		Token:     result.Token,
		ID:        &result.ID,
		Email:     &result.Email,
		FirstName: &result.FirstName,
		LastName:  &result.LastName,
		Admin:     result.Admin,
	}
}

// newFailureTokenResponse は失敗メッセージをtokenフィールドに載せたレスポンスを組み立てる。
func newFailureTokenResponse(message string) tokenResponse {
	return tokenResponse{Token: message}
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login はメールアドレスとパスワードでログインし、トークンを発行する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの形式が不正です。")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeInvalidRequest(w, "emailとpasswordは必須です。")
		return
	}

	result, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// 認証失敗も内部エラーも同一の401ペイロードを返し、原因を外部に漏らさない
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			slog.Error("authentication failed unexpectedly", slog.String("error", err.Error()))
		}
		writeJSON(w, http.StatusUnauthorized, newFailureTokenResponse(msgInvalidCredentials))
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(result))
}

// Register は新規ユーザーを登録し、自動ログインのトークンを発行する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの形式が不正です。")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeInvalidRequest(w, "emailとpasswordは必須です。")
		return
	}

	result, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeEmailTaken {
			writeJSON(w, http.StatusConflict, newFailureTokenResponse(msgEmailTaken))
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(result))
}

// writeInvalidRequest はリクエスト形式不正の400レスポンスを書き込む。
func writeInvalidRequest(w http.ResponseWriter, message string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  message,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	})
}
