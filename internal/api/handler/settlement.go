// internal/api/handler/settlement.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"propshare-admin/internal/auth"
	"propshare-admin/internal/domain"
	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
)

// SettlementHandler handles HTTP requests that finalize pending requests.
type SettlementHandler struct {
	service service.SettlementService
	logger  *slog.Logger
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(svc service.SettlementService, logger *slog.Logger) *SettlementHandler {
	return &SettlementHandler{
		service: svc,
		logger:  logger,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

func adminID(r *http.Request) (int64, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return 0, util.ErrUnauthorized
	}
	return claims.UserID, nil
}

// ConfirmPurchase handles the purchase confirmation request.
// POST /pendingShares/{pendingShareID}
func (h *SettlementHandler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pendingShareID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	pending, transaction, err := h.service.ConfirmPurchase(r.Context(), id, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Purchase confirmed",
		"pending_share":  pending,
		"transaction_id": transaction.ID,
	})
}

// RejectPurchase handles the purchase rejection request.
// DELETE /pendingShares/{pendingShareID}
func (h *SettlementHandler) RejectPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pendingShareID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	pending, err := h.service.RejectPurchase(r.Context(), id, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":       "Purchase rejected and refunded",
		"pending_share": pending,
	})
}

// ApproveSale handles the sale approval request.
// POST /shareSale/{shareSaleID}
func (h *SettlementHandler) ApproveSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "shareSaleID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	sale, transaction, err := h.service.ApproveSale(r.Context(), id, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Sale approved",
		"share_sale":     sale,
		"transaction_id": transaction.ID,
	})
}

// RejectSale handles the sale rejection request.
// DELETE /shareSale/{shareSaleID}
func (h *SettlementHandler) RejectSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "shareSaleID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	pendingIncome, err := h.service.RejectSale(r.Context(), id, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Sale rejected",
		"pending_income": pendingIncome,
	})
}

// DistributeRentRequest represents the request body for rent distribution.
type DistributeRentRequest struct {
	RentAmount decimal.Decimal `json:"rentAmount"`
}

// DistributeRent handles the rent distribution request.
// POST /properties/{propertyID}/rent
func (h *SettlementHandler) DistributeRent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "propertyID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req DistributeRentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.RentAmount.IsNegative() || req.RentAmount.IsZero() {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.service.DistributeRent(r.Context(), id, req.RentAmount, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":      "Rent distributed",
		"distributed":  result.Distributed,
		"shareholders": result.Shareholders,
		"per_holder":   result.PerHolder,
	})
}

// ApproveWithdrawal handles the withdrawal approval request.
// POST /withdrawals/{withdrawalID}
func (h *SettlementHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawalID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	withdrawal, err := h.service.ApproveWithdrawal(r.Context(), id, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	// The approval path can end in a rejection when the account behind the
	// withdrawal no longer exists. Still a 200: the request reached a
	// terminal state.
	message := "Withdrawal approved"
	if withdrawal.Status == domain.WithdrawalRejected {
		message = fmt.Sprintf("Withdrawal rejected: %s", *withdrawal.Notes)
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":    message,
		"withdrawal": withdrawal,
	})
}

// RejectWithdrawal handles the withdrawal rejection request.
// DELETE /withdrawals/{withdrawalID}
func (h *SettlementHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "withdrawalID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	admin, err := adminID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	withdrawal, err := h.service.RejectWithdrawal(r.Context(), id, admin)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":    "Withdrawal rejected",
		"withdrawal": withdrawal,
	})
}
