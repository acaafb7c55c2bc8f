// Package fund は手動入金（トップアップ）申請のドメインロジックを提供する。
package fund

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prepe/prepe/internal/metrics"
	"github.com/prepe/prepe/internal/model"
	"github.com/prepe/prepe/internal/repository"
	"github.com/prepe/prepe/internal/security"
)

// MaxTransactionIDLength はトランザクションIDの最大文字数。
const MaxTransactionIDLength = 128

// ErrEmptyUserID はユーザーIDが空の場合のエラー。
var ErrEmptyUserID = errors.New("user ID must not be empty")

// amountPattern はNUMERIC(14,2)に収まる正の10進数表記。
var amountPattern = regexp.MustCompile(`^\d{1,12}(\.\d{1,2})?$`)

// Service は手動入金申請のサービス層。
type Service struct {
	repo      repository.ManualFundRepository
	sanitizer security.InputSanitizer
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.ManualFundRepository,
	sanitizer security.InputSanitizer,
	mc metrics.MetricsCollector,
) *Service {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   mc,
		now:       time.Now,
	}
}

// SubmitRequest は手動入金申請を検証して保存する。
// 入力が不正な場合はmodel.APIErrorを返し、ストアのエラーはそのまま伝播する。
func (s *Service) SubmitRequest(ctx context.Context, userID, amount, transactionID string) (*model.ManualFundRequest, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	normalized, err := NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	txID, err := s.validateTransactionID(transactionID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req := &model.ManualFundRequest{
		ID:            uuid.New().String(),
		UserID:        userID,
		Amount:        normalized,
		TransactionID: txID,
		Status:        model.FundStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("手動入金申請の保存に失敗しました: %w", err)
	}

	s.metrics.RecordManualFundSubmitted()
	return req, nil
}

// GetUserRequests はユーザーの手動入金申請を新しい順に返す。
func (s *Service) GetUserRequests(ctx context.Context, userID string) ([]*model.ManualFundRequest, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	requests, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("手動入金申請の取得に失敗しました: %w", err)
	}
	if requests == nil {
		requests = []*model.ManualFundRequest{}
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}

// NormalizeAmount は金額を検証し、小数点以下2桁の表記に揃えて返す。
// 例: "100" → "100.00"、"5.5" → "5.50"
func NormalizeAmount(amount string) (string, error) {
	trimmed := strings.TrimSpace(amount)
	if !amountPattern.MatchString(trimmed) {
		return "", model.NewInvalidAmountError(amount)
	}

	intPart, fracPart, _ := strings.Cut(trimmed, ".")
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	fracPart += strings.Repeat("0", 2-len(fracPart))

	if intPart == "0" && fracPart == "00" {
		return "", model.NewInvalidAmountError(amount)
	}

	return intPart + "." + fracPart, nil
}

func (s *Service) validateTransactionID(transactionID string) (string, error) {
	txID := strings.TrimSpace(transactionID)
	if txID == "" {
		return "", model.NewInvalidTransactionIDError("must not be empty")
	}
	if utf8.RuneCountInString(txID) > MaxTransactionIDLength {
		return "", model.NewInvalidTransactionIDError(
			fmt.Sprintf("must be at most %d characters", MaxTransactionIDLength),
		)
	}
	if !s.sanitizer.IsPlainText(txID) {
		return "", model.NewInvalidTransactionIDError("must be plain text")
	}
	return txID, nil
}
