package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/prepe/prepe/internal/gate"
	"github.com/prepe/prepe/internal/model"
	"github.com/prepe/prepe/internal/token"
)

// --- モック ---

type mockFundService struct {
	submitRequestFn   func(ctx context.Context, userID, amount, transactionID string) (*model.ManualFundRequest, error)
	getUserRequestsFn func(ctx context.Context, userID string) ([]*model.ManualFundRequest, error)
}

func (m *mockFundService) SubmitRequest(ctx context.Context, userID, amount, transactionID string) (*model.ManualFundRequest, error) {
	if m.submitRequestFn != nil {
		return m.submitRequestFn(ctx, userID, amount, transactionID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFundService) GetUserRequests(ctx context.Context, userID string) ([]*model.ManualFundRequest, error) {
	if m.getUserRequestsFn != nil {
		return m.getUserRequestsFn(ctx, userID)
	}
	return []*model.ManualFundRequest{}, nil
}

// mockAuthenticator は "Bearer <token>" のtokenをキーにIDを返す。
type mockAuthenticator struct {
	identities map[string]*model.Identity
	err        error
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, header string) (*model.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	tok, err := token.ExtractBearer(header)
	if err != nil {
		return nil, err
	}
	ident, ok := m.identities[tok]
	if !ok {
		return nil, token.ErrInvalidSignature
	}
	return ident, nil
}

// CheckSession はAuthorizationヘッダーを見てセッション状態を返す。
func (m *mockAuthenticator) CheckSession(ctx context.Context, r *http.Request) (gate.SessionState, error) {
	ident, err := m.Authenticate(ctx, r.Header.Get("Authorization"))
	if err != nil {
		if token.IsVerificationError(err) {
			return gate.Unauthenticated(), nil
		}
		return gate.SessionState{}, err
	}
	return gate.Authenticated(ident), nil
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.err
}

func bearer(tok string) string {
	return "Bearer " + tok
}

func containsAll(s string, subs ...string) (string, bool) {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return sub, false
		}
	}
	return "", true
}
