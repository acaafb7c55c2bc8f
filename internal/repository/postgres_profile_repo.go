package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prepe/prepe/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindFirstByUserID はuser_idが一致する最初のプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindFirstByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p := &model.Profile{}
	var (
		email, fullName, phone sql.NullString
		attrs                  []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, email, full_name, phone, attributes, created_at, updated_at
		 FROM profiles
		 WHERE user_id = $1
		 ORDER BY created_at ASC
		 LIMIT 1`,
		userID,
	).Scan(&p.ID, &p.UserID, &email, &fullName, &phone, &attrs, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by user ID: %w", err)
	}

	p.Email = email.String
	p.FullName = fullName.String
	p.Phone = phone.String

	p.Attributes, err = decodeAttributes(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile attributes: %w", err)
	}

	return p, nil
}

// decodeAttributes はattributesカラムのJSONBをmapに変換する。
// NULLや空の場合は空のmapを返す。
func decodeAttributes(raw []byte) (map[string]any, error) {
	attrs := map[string]any{}
	if len(raw) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		// JSONのnullはnil mapになる
		attrs = map[string]any{}
	}
	return attrs, nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
