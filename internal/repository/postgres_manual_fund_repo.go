package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prepe/prepe/internal/model"
)

// PostgresManualFundRepo はPostgreSQLを使用した手動入金リクエストのリポジトリ。
type PostgresManualFundRepo struct {
	db *sql.DB
}

// NewPostgresManualFundRepo はPostgresManualFundRepoを生成する。
func NewPostgresManualFundRepo(db *sql.DB) *PostgresManualFundRepo {
	return &PostgresManualFundRepo{db: db}
}

// Create は手動入金リクエストを作成する。
func (r *PostgresManualFundRepo) Create(ctx context.Context, req *model.ManualFundRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO manual_fund_requests (id, user_id, amount, transaction_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)`,
		req.ID, req.UserID, req.Amount, req.TransactionID, string(req.Status), req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert manual fund request: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの手動入金リクエストをcreated_at降順で返す。
func (r *PostgresManualFundRepo) ListByUserID(ctx context.Context, userID string) ([]*model.ManualFundRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount::text, transaction_id, status, created_at, updated_at
		 FROM manual_fund_requests
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list manual fund requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*model.ManualFundRequest, 0)
	for rows.Next() {
		req := &model.ManualFundRequest{}
		var status string
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.Amount, &req.TransactionID,
			&status, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan manual fund request: %w", err)
		}
		req.Status = model.FundStatus(status)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manual fund requests: %w", err)
	}

	return requests, nil
}

// compile-time interface check
var _ ManualFundRepository = (*PostgresManualFundRepo)(nil)
