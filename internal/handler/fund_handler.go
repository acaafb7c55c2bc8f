package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prepe/prepe/internal/middleware"
	"github.com/prepe/prepe/internal/model"
)

// maxFundRequestBodyBytes は手動入金申請リクエストボディの上限。
const maxFundRequestBodyBytes = 4 << 10

// FundServiceInterface は手動入金ハンドラーが必要とするサービスインターフェース。
type FundServiceInterface interface {
	// SubmitRequest は手動入金申請を作成する。
	SubmitRequest(ctx context.Context, userID, amount, transactionID string) (*model.ManualFundRequest, error)
	// GetUserRequests はユーザーの手動入金申請を新しい順に返す。
	GetUserRequests(ctx context.Context, userID string) ([]*model.ManualFundRequest, error)
}

// FundHandler は手動入金申請のHTTPハンドラー。
type FundHandler struct {
	service FundServiceInterface
}

// NewFundHandler はFundHandlerを生成する。
func NewFundHandler(service FundServiceInterface) *FundHandler {
	return &FundHandler{service: service}
}

// submitFundRequest は手動入金申請リクエストのボディ。
// amountは数値・文字列のどちらでも受け付ける。
type submitFundRequest struct {
	Amount        json.Number `json:"amount"`
	TransactionID string      `json:"transaction_id"`
}

// fundListResponse は手動入金申請一覧のAPIレスポンス。
type fundListResponse struct {
	Requests []*model.ManualFundRequest `json:"requests"`
}

// Submit は手動入金申請を処理する。
// POST /api/manual-funds
func (h *FundHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req submitFundRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFundRequestBodyBytes))
	if err := dec.Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	created, err := h.service.SubmitRequest(r.Context(), userID, req.Amount.String(), req.TransactionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List は呼び出し元ユーザーの手動入金申請を新しい順に返す。
// GET /api/manual-funds
func (h *FundHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	requests, err := h.service.GetUserRequests(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fundListResponse{Requests: requests})
}
