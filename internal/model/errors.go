// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, fund, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeAccessDenied         = "ACCESS_DENIED"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInvalidTransactionID = "INVALID_TRANSACTION_ID"
	ErrCodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	ErrCodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// NewUnauthorizedError は認証失敗エラーを生成する。
// どの検証で失敗したかは利用者に開示しない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication is required.",
		Category: "auth",
		Action:   "Please sign in again.",
	}
}

// NewAccessDeniedError は管理者権限がない場合のエラーを生成する。
func NewAccessDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodeAccessDenied,
		Message:  "You do not have permission to access this page.",
		Category: "auth",
		Action:   "Return to the home page.",
	}
}

// NewInvalidAmountError は入金額が不正な場合のエラーを生成する。
func NewInvalidAmountError(amount string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAmount,
		Message:  fmt.Sprintf("Invalid amount: %q", amount),
		Category: "validation",
		Action:   "Enter a positive amount with at most two decimal places.",
	}
}

// NewInvalidTransactionIDError はトランザクションIDが不正な場合のエラーを生成する。
func NewInvalidTransactionIDError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTransactionID,
		Message:  fmt.Sprintf("Invalid transaction ID: %s", reason),
		Category: "validation",
		Action:   "Enter the transaction reference exactly as shown on your payment receipt.",
	}
}

// NewInvalidRequestBodyError はリクエストボディが解析できない場合のエラーを生成する。
func NewInvalidRequestBodyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequestBody,
		Message:  "The request body could not be parsed.",
		Category: "validation",
		Action:   "Send a JSON object with amount and transaction_id.",
	}
}

// NewRateLimitExceededError はレート制限超過エラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Please wait and retry after the time given in Retry-After.",
	}
}
