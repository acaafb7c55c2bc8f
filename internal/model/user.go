// Package model はドメインモデルを定義する。
package model

import (
	"encoding/json"
	"time"
)

// ClaimSet は検証済みトークンから取り出したクレームを表す。
// 1リクエストの間だけ生存し、デコード後は変更しない。
type ClaimSet struct {
	Subject   string    // sub（必須）
	Email     string    // email（任意。未設定の場合は空文字）
	ExpiresAt time.Time // exp（必須）
}

// Profile はprofilesテーブルの1行を表す。
// IDはテーブル自身の主キーであり、UserIDとは一致しないことがある。
type Profile struct {
	ID         string
	UserID     string
	Email      string
	FullName   string
	Phone      string
	Attributes map[string]any // attributesカラム（JSONB）の任意フィールド
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Identity はリクエストごとに解決されたアプリケーション上の利用者を表す。
// IDは常にトークンのsubjectと等しい。プロフィールの有無はProfileで判定すること。
type Identity struct {
	ID      string
	Email   string
	Profile *Profile
}

// HasProfile はプロフィールが見つかった状態で解決されたかどうかを返す。
func (i *Identity) HasProfile() bool {
	return i != nil && i.Profile != nil
}

// MarshalJSON はプロフィールの全フィールドをマージしたJSONを返す。
// attributes → 型付きカラム → id の順に書き込むため、idは必ずIdentity.IDになる。
func (i Identity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if p := i.Profile; p != nil {
		for k, v := range p.Attributes {
			out[k] = v
		}
		out["profile_id"] = p.ID
		out["user_id"] = p.UserID
		if p.FullName != "" {
			out["full_name"] = p.FullName
		}
		if p.Phone != "" {
			out["phone"] = p.Phone
		}
		if !p.CreatedAt.IsZero() {
			out["created_at"] = p.CreatedAt
		}
		if !p.UpdatedAt.IsZero() {
			out["updated_at"] = p.UpdatedAt
		}
	}

	if i.Email != "" {
		out["email"] = i.Email
	} else {
		delete(out, "email")
	}
	out["id"] = i.ID

	return json.Marshal(out)
}
