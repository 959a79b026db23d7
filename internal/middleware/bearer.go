// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/yogabook/internal/model"
)

// errNoAuthenticatedUser はコンテキストに認証済みユーザーが存在しないことを示す。
var errNoAuthenticatedUser = errors.New("authenticated user not found in context")

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("auth_user")

// TokenValidator はゲートが必要とするトークン検証のインターフェース。
// auth.TokenCodecの部分集合として定義する。
type TokenValidator interface {
	// SubjectOf はトークンのsubjectを返す。解読不能な場合は(_, false)。
	SubjectOf(token string) (string, bool)
	// IsValid はsubject一致かつ期限内であればtrueを返す。
	IsValid(token, expectedEmail string) bool
}

// IdentityFinder はゲートが必要とするユーザー検索のインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type IdentityFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenRejectionRecorder はトークン拒否のメトリクス記録インターフェース。nil許容。
type TokenRejectionRecorder interface {
	RecordTokenRejected()
}

// NewBearerAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証し、
// 認証済みユーザーをリクエストコンテキストに注入するミドルウェアを返す。
//
// リクエストごとの状態遷移:
//  1. skipPathsに前方一致するパスはゲート全体をバイパスする
//  2. ヘッダーなし・Bearerスキーム以外 → 匿名のまま通過（拒否は下流の責務）
//  3. subjectを解決できないトークン → 同じく匿名のまま通過
//  4. subjectは解決できたがユーザーが存在しない → 401で打ち切り
//  5. ユーザーは存在するが検証失敗（期限切れ、発行後のメール変更）→ 401で打ち切り
//  6. 検証成功 → ユーザーをコンテキストに注入して下流へ
//
// ユーザーの再読込とトークン検証はこの順で必ず直列に実行される。
// 検証は読込後のメールアドレスに対して行うため、順序の入れ替えはできない。
func NewBearerAuthMiddleware(codec TokenValidator, users IdentityFinder, skipPaths []string, metrics TokenRejectionRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// 1. ヘッダーからベアラートークンを取得
			token, ok := extractBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			// 2. subjectの解決。解決できないトークンはヘッダーなしと同等に扱う
			email, ok := codec.SubjectOf(token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			// 3. ストアから現時点のユーザーを再読込する
			user, err := users.FindByEmail(r.Context(), email)
			if err != nil {
				slog.Error("failed to load identity for token",
					slog.String("error", err.Error()),
				)
				writeUnauthorized(w)
				return
			}
			if user == nil {
				if metrics != nil {
					metrics.RecordTokenRejected()
				}
				writeUnauthorized(w)
				return
			}

			// 4. 再読込したユーザーの現在のメールアドレスに対してトークンを検証する。
			//    発行後にメールアドレスが変更された場合、期限内でもここで無効になる。
			if !codec.IsValid(token, user.Email) {
				if metrics != nil {
					metrics.RecordTokenRejected()
				}
				writeUnauthorized(w)
				return
			}

			// 5. 認証済みユーザーをコンテキストに注入
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequireUserMiddleware は認証済みユーザーが存在しないリクエストを401で拒否する
// ミドルウェアを返す。ベアラーゲートの後段、認証必須ルートに適用する。
func NewRequireUserMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := UserFromContext(r.Context()); err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
// ヘッダーがない、またはBearerスキームでない場合は(_, false)を返す。
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// writeUnauthorized はトークン拒否の401レスポンスを書き込む。
// 内部の失敗理由（ユーザー不在か検証失敗か）は外部に漏らさない。
func writeUnauthorized(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewTokenInvalidError())
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// ベアラーゲートで認証されたリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, errNoAuthenticatedUser
	}
	return user, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
