// Package auth はリクエストの認証（トークン検証とID解決）を提供する。
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prepe/prepe/internal/gate"
	"github.com/prepe/prepe/internal/metrics"
	"github.com/prepe/prepe/internal/middleware"
	"github.com/prepe/prepe/internal/model"
	"github.com/prepe/prepe/internal/token"
)

// AccessTokenCookieName は管理画面でAuthorizationヘッダーの代わりに使うCookie名。
const AccessTokenCookieName = "access_token"

// IdentityResolver はクレームからIDを解決するインターフェース。
// identity.Resolverが実装する。
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *model.ClaimSet) (*model.Identity, error)
}

// Authenticator はBearerトークンの検証とID解決をまとめて行う。
type Authenticator struct {
	verifier *token.Verifier
	resolver IdentityResolver
	metrics  metrics.MetricsCollector
	now      func() time.Time
}

// NewAuthenticator はAuthenticatorを生成する。
func NewAuthenticator(verifier *token.Verifier, resolver IdentityResolver, mc metrics.MetricsCollector) *Authenticator {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Authenticator{
		verifier: verifier,
		resolver: resolver,
		metrics:  mc,
		now:      time.Now,
	}
}

// Authenticate はAuthorizationヘッダーの値を検証し、IDを解決する。
// 検証失敗はtokenパッケージのエラーを返し、プロフィールストアの障害はそのまま返す。
func (a *Authenticator) Authenticate(ctx context.Context, authorizationHeader string) (*model.Identity, error) {
	tok, err := token.ExtractBearer(authorizationHeader)
	if err != nil {
		a.recordFailure(ctx, err)
		return nil, err
	}
	return a.authenticateToken(ctx, tok)
}

// CheckSession はリクエストのセッション状態を返す。gate.SessionCheckerを実装する。
// AuthorizationヘッダーがなければaccessトークンのCookieを参照する。
// 検証失敗は未認証として扱い、ストア障害のみエラーを返す。
func (a *Authenticator) CheckSession(ctx context.Context, r *http.Request) (gate.SessionState, error) {
	tok, err := token.ExtractBearer(r.Header.Get("Authorization"))
	if err != nil {
		if c, cookieErr := r.Cookie(AccessTokenCookieName); cookieErr == nil && c.Value != "" {
			tok, err = c.Value, nil
		}
	}
	if err != nil {
		a.recordFailure(ctx, err)
		return gate.Unauthenticated(), nil
	}

	ident, err := a.authenticateToken(ctx, tok)
	if err != nil {
		if IsAuthError(err) {
			return gate.Unauthenticated(), nil
		}
		return gate.SessionState{}, err
	}
	return gate.Authenticated(ident), nil
}

func (a *Authenticator) authenticateToken(ctx context.Context, tok string) (*model.Identity, error) {
	claims, err := a.verifier.Verify(tok, a.now())
	if err != nil {
		a.recordFailure(ctx, err)
		return nil, err
	}

	ident, err := a.resolver.Resolve(ctx, claims)
	if err != nil {
		a.metrics.RecordAuthAttempt(metrics.AuthResultProfileFailure)
		return nil, err
	}

	a.metrics.RecordAuthAttempt(metrics.AuthResultSuccess)
	return ident, nil
}

// recordFailure は検証失敗の種類をログとメトリクスに記録する。
// 種類はレスポンスには含めない。
func (a *Authenticator) recordFailure(ctx context.Context, err error) {
	result := failureResult(err)
	a.metrics.RecordAuthAttempt(result)
	if result == metrics.AuthResultMissingToken {
		return
	}
	slog.WarnContext(ctx, "トークン検証に失敗",
		slog.String("result", result),
		slog.String("error", err.Error()),
	)
}

func failureResult(err error) string {
	switch {
	case errors.Is(err, token.ErrMissingToken):
		return metrics.AuthResultMissingToken
	case errors.Is(err, token.ErrExpired):
		return metrics.AuthResultExpired
	case errors.Is(err, token.ErrInvalidClaims):
		return metrics.AuthResultInvalidClaims
	default:
		return metrics.AuthResultInvalid
	}
}

// IsAuthError はerrがトークン検証の失敗（401で応答すべきもの）であるかを返す。
func IsAuthError(err error) bool {
	return token.IsVerificationError(err)
}

var (
	_ gate.SessionChecker      = (*Authenticator)(nil)
	_ middleware.Authenticator = (*Authenticator)(nil)
)
