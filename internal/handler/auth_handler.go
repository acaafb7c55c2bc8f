package handler

import (
	"net/http"

	"github.com/prepe/prepe/internal/middleware"
)

// AuthHandler はセッション確認のHTTPハンドラー。
// ログイン・ログアウトは外部IDプロバイダが担うため、ここでは解決済みIDを返すのみ。
type AuthHandler struct{}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me は現在のリクエストの解決済みIDを返す。
// プロフィールがある場合はプロフィールの項目を含み、idは常にユーザーIDになる。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, ident)
}
