// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prepe/prepe/internal/model"
	"github.com/prepe/prepe/internal/token"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに解決済みIDを格納するためのキー。
var identityContextKey = contextKey("identity")

// Authenticator はAuthorizationヘッダーからIDを解決するインターフェース。
// auth.Authenticatorが実装する。
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*model.Identity, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// 解決済みIDをリクエストコンテキストに注入するミドルウェアを返す。
// 検証失敗はその種類によらず同一の401レスポンスを返す。
// プロフィールストアの障害は500を返す。
func NewAuthMiddleware(authenticator Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := authenticator.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if token.IsVerificationError(err) {
					WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
					return
				}
				slog.Error("failed to resolve identity",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), ident)))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから解決済みIDを取得する。
// 認証ミドルウェアまたは管理画面ゲートを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	ident, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || ident == nil || ident.ID == "" {
		return nil, fmt.Errorf("identity not found in context")
	}
	return ident, nil
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	ident, err := IdentityFromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("user ID not found in context")
	}
	return ident.ID, nil
}

// ContextWithIdentity はコンテキストに解決済みIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, ident *model.Identity) context.Context {
	if holder, ok := ctx.Value(requestUserContextKey).(*requestUser); ok && ident != nil {
		holder.id = ident.ID
	}
	return context.WithValue(ctx, identityContextKey, ident)
}
