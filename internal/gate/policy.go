// Package gate は管理画面へのアクセス可否を判定するゲートを提供する。
//
// 判定はセッション状態と管理者メールアドレスの集合だけから決まる純粋関数であり、
// リクエストのたびに評価し直す。
package gate

import "github.com/prepe/prepe/internal/model"

// Status はセッション確認の状態を表す。
type Status int

const (
	// StatusLoading はセッション確認が完了していない状態。
	StatusLoading Status = iota
	// StatusUnauthenticated は有効なセッションがない状態。
	StatusUnauthenticated
	// StatusAuthenticated はIDが解決済みの状態。
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionState はセッション確認の結果。
// Identityは StatusAuthenticated の場合のみ設定される。
type SessionState struct {
	Status   Status
	Identity *model.Identity
}

// Loading はセッション確認中の状態を返す。
func Loading() SessionState {
	return SessionState{Status: StatusLoading}
}

// Unauthenticated は未認証の状態を返す。
func Unauthenticated() SessionState {
	return SessionState{Status: StatusUnauthenticated}
}

// Authenticated は認証済みの状態を返す。
func Authenticated(ident *model.Identity) SessionState {
	return SessionState{Status: StatusAuthenticated, Identity: ident}
}

// Outcome はゲートの判定結果を表す。
type Outcome int

const (
	// OutcomePending は確認中の表示を返し、保護されたコンテンツは表示しない。
	OutcomePending Outcome = iota
	// OutcomeRedirectLogin はログイン画面へ遷移させる。
	OutcomeRedirectLogin
	// OutcomeDenied はアクセス拒否の表示を返す。遷移はしない。
	OutcomeDenied
	// OutcomeAdmit は保護されたコンテンツを表示する。
	OutcomeAdmit
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeDenied:
		return "denied"
	case OutcomeAdmit:
		return "admit"
	default:
		return "unknown"
	}
}

// Policy は管理者メールアドレスの集合を保持する。
// 比較は完全一致で、大文字小文字を区別する。
type Policy struct {
	admins map[string]struct{}
}

// NewPolicy は管理者メールアドレスの集合からPolicyを生成する。空文字は無視する。
func NewPolicy(adminEmails ...string) Policy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email == "" {
			continue
		}
		admins[email] = struct{}{}
	}
	return Policy{admins: admins}
}

// IsAdmin はemailが管理者であるかを返す。
func (p Policy) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := p.admins[email]
	return ok
}

// Decide はセッション状態から判定結果を返す。
// Loadingは他のすべての条件より先に評価する。
func (p Policy) Decide(state SessionState) Outcome {
	if state.Status == StatusLoading {
		return OutcomePending
	}
	if state.Status != StatusAuthenticated || state.Identity == nil {
		return OutcomeRedirectLogin
	}
	if !p.IsAdmin(state.Identity.Email) {
		return OutcomeDenied
	}
	return OutcomeAdmit
}
