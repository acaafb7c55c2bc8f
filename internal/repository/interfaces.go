// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/prepe/prepe/internal/model"
)

// ProfileRepository はユーザープロフィールの読み取りインターフェース。
// プロフィールはホスティング側で作成・更新されるため、このサービスからは書き込まない。
type ProfileRepository interface {
	// FindFirstByUserID はuser_idが一致する最初のプロフィールを取得する。
	// 見つからない場合はnil, nilを返す。
	FindFirstByUserID(ctx context.Context, userID string) (*model.Profile, error)
}

// ManualFundRepository は手動入金リクエストの永続化インターフェース。
type ManualFundRepository interface {
	// Create は手動入金リクエストを作成する。
	Create(ctx context.Context, req *model.ManualFundRequest) error

	// ListByUserID はユーザーの手動入金リクエストをcreated_at降順で返す。
	// 該当がない場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.ManualFundRequest, error)
}
