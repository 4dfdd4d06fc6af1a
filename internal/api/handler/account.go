// internal/api/handler/account.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"propshare-admin/internal/api/types"
	"propshare-admin/internal/domain"
	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
)

// AccountHandler handles HTTP requests for user accounts and the journal.
type AccountHandler struct {
	service service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger,
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListUsers handles the user listing request.
// GET /users
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, total, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.User]{
		Data:       users,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// ListVerifications handles the pending-review listing request.
// GET /verifications
func (h *AccountHandler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, total, err := h.service.ListPendingVerifications(r.Context(), limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.User]{
		Data:       users,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// UpdateUserRequest represents the request body for a profile update.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// UpdateUser handles the profile update request.
// PUT /users/{userID}
func (h *AccountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, service.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"user":    user,
	})
}

// SetVerificationRequest represents the request body for a verification update.
type SetVerificationRequest struct {
	Status          domain.VerificationStatus `json:"status"`
	RejectionReason *string                   `json:"rejectionReason"`
}

// SetVerification handles the identity-verification review request.
// PUT /verifications/{userID}
func (h *AccountHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req SetVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.service.SetVerification(r.Context(), id, req.Status, req.RejectionReason)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Verification updated",
		"user":    user,
	})
}

// ListTransactions handles the journal listing request.
// GET /transactions?userId=
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	limit, offset := pagination(r)

	transactions, total, err := h.service.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}
