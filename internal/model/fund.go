package model

import "time"

// FundStatus は手動入金リクエストの状態を表す。
type FundStatus string

const (
	// FundStatusPending は管理者の承認待ち。
	FundStatusPending FundStatus = "pending"
	// FundStatusApproved は承認済み。
	FundStatusApproved FundStatus = "approved"
	// FundStatusRejected は却下済み。
	FundStatusRejected FundStatus = "rejected"
)

// ManualFundRequest はユーザーが申請した手動入金（トップアップ）リクエストを表す。
type ManualFundRequest struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Amount        string     `json:"amount"` // NUMERIC(14,2) の10進文字列
	TransactionID string     `json:"transaction_id"`
	Status        FundStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
