package gate

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prepe/prepe/internal/middleware"
	"github.com/prepe/prepe/internal/model"
)

// セッション確認のデフォルト値
const (
	DefaultCheckTimeout    = 5 * time.Second
	DefaultRefreshInterval = 2 * time.Second
	DefaultLoginPath       = "/login"
	DefaultHomePath        = "/"
)

// SessionChecker はリクエストのセッション状態を確認する。
// 有効なセッションがない場合はエラーではなく StatusUnauthenticated を返し、
// エラーはストア障害など確認そのものが失敗した場合にのみ返す。
type SessionChecker interface {
	CheckSession(ctx context.Context, r *http.Request) (SessionState, error)
}

// DecisionRecorder はゲートの判定結果を記録する。metrics.Collectorが実装する。
type DecisionRecorder interface {
	RecordGateDecision(outcome string)
}

// GuardConfig は管理画面ゲートの設定。
type GuardConfig struct {
	LoginPath       string        // 未認証時の遷移先
	HomePath        string        // アクセス拒否画面からのリンク先
	CheckTimeout    time.Duration // セッション確認の上限時間。超えた場合はLoadingとして扱う
	RefreshInterval time.Duration // 確認中画面の再読み込み間隔
}

// DefaultGuardConfig はデフォルトのゲート設定を返す。
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:       DefaultLoginPath,
		HomePath:        DefaultHomePath,
		CheckTimeout:    DefaultCheckTimeout,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// withDefaults は未設定の項目をデフォルト値で補う。
func (c GuardConfig) withDefaults() GuardConfig {
	d := DefaultGuardConfig()
	if c.LoginPath == "" {
		c.LoginPath = d.LoginPath
	}
	if c.HomePath == "" {
		c.HomePath = d.HomePath
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = d.CheckTimeout
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = d.RefreshInterval
	}
	return c
}

type guard struct {
	checker  SessionChecker
	policy   Policy
	cfg      GuardConfig
	recorder DecisionRecorder
}

// NewAdminGuard は管理画面を保護するミドルウェアを返す。
//
// リクエストごとにセッションを確認し、判定結果に応じて
// 確認中画面（202）、ログインへのリダイレクト（303）、アクセス拒否画面（403）のいずれかを返すか、
// IDをコンテキストに注入して次のハンドラーを呼び出す。
func NewAdminGuard(checker SessionChecker, policy Policy, cfg GuardConfig, recorder DecisionRecorder) func(http.Handler) http.Handler {
	g := &guard{
		checker:  checker,
		policy:   policy,
		cfg:      cfg.withDefaults(),
		recorder: recorder,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := g.check(r)
			if err != nil {
				if r.Context().Err() != nil {
					// クライアントが切断済み
					return
				}
				slog.Error("管理画面のセッション確認に失敗",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				middleware.WriteInternalServerError(w)
				return
			}

			outcome := g.policy.Decide(state)
			if g.recorder != nil {
				g.recorder.RecordGateDecision(outcome.String())
			}

			switch outcome {
			case OutcomePending:
				g.writePending(w)
			case OutcomeRedirectLogin:
				http.Redirect(w, r, g.loginURL(r), http.StatusSeeOther)
			case OutcomeDenied:
				slog.Warn("管理画面へのアクセスを拒否",
					slog.String("user_id", state.Identity.ID),
					slog.String("path", r.URL.Path),
				)
				g.writeDenied(w)
			case OutcomeAdmit:
				ctx := middleware.ContextWithIdentity(r.Context(), state.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// check はCheckTimeoutを上限としてセッションを確認する。
// 上限までに確認が終わらない場合はLoadingを返す。
func (g *guard) check(r *http.Request) (SessionState, error) {
	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.CheckTimeout)
	defer cancel()

	type result struct {
		state SessionState
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		state, err := g.checker.CheckSession(ctx, r)
		ch <- result{state: state, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) && r.Context().Err() == nil {
			return Loading(), nil
		}
		return res.state, res.err
	case <-ctx.Done():
		if r.Context().Err() != nil {
			return SessionState{}, r.Context().Err()
		}
		return Loading(), nil
	}
}

func (g *guard) refreshSeconds() int {
	sec := int(math.Ceil(g.cfg.RefreshInterval.Seconds()))
	if sec < 1 {
		sec = 1
	}
	return sec
}

func (g *guard) writePending(w http.ResponseWriter) {
	sec := g.refreshSeconds()
	w.Header().Set("Refresh", strconv.Itoa(sec))
	if err := renderHTML(w, http.StatusAccepted, "pending.html", pendingView{RefreshSeconds: sec}); err != nil {
		slog.Error("確認中画面の描画に失敗", slog.String("error", err.Error()))
	}
}

func (g *guard) writeDenied(w http.ResponseWriter) {
	apiErr := model.NewAccessDeniedError()
	view := deniedView{
		Message:  apiErr.Message,
		Action:   apiErr.Action,
		HomePath: g.cfg.HomePath,
	}
	if err := renderHTML(w, http.StatusForbidden, "denied.html", view); err != nil {
		slog.Error("アクセス拒否画面の描画に失敗", slog.String("error", err.Error()))
	}
}

// loginURL は元のパスをnextパラメータに付けたログインURLを返す。
func (g *guard) loginURL(r *http.Request) string {
	u, err := url.Parse(g.cfg.LoginPath)
	if err != nil {
		return g.cfg.LoginPath
	}
	q := u.Query()
	q.Set("next", r.URL.RequestURI())
	u.RawQuery = q.Encode()
	return u.String()
}
