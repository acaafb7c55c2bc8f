package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prepe/prepe/internal/middleware"
	"github.com/prepe/prepe/internal/model"
)

// AdminHandler は管理画面のHTTPハンドラー。
// 管理画面ゲートを通過したリクエストのみが到達する。
type AdminHandler struct {
	funds FundServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(funds FundServiceInterface) *AdminHandler {
	return &AdminHandler{funds: funds}
}

type dashboardView struct {
	Admin *model.Identity
}

type fundListView struct {
	Admin    *model.Identity
	UserID   string
	Requests []*model.ManualFundRequest
}

// Dashboard は管理画面のトップを表示する。
// GET /admin/
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	renderPage(w, "admin_dashboard.html", dashboardView{Admin: ident})
}

// LookupUser はユーザーID検索フォームの送信先。該当ユーザーの申請一覧へリダイレクトする。
// GET /admin/users?user_id=xxx
func (h *AdminHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/users/"+url.PathEscape(userID)+"/manual-funds", http.StatusSeeOther)
}

// UserFunds は指定ユーザーの手動入金申請を新しい順に表示する。
// GET /admin/users/{userID}/manual-funds
func (h *AdminHandler) UserFunds(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	userID := chi.URLParam(r, "userID")
	requests, err := h.funds.GetUserRequests(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	renderPage(w, "admin_fund_list.html", fundListView{
		Admin:    ident,
		UserID:   userID,
		Requests: requests,
	})
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
