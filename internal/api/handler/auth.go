// internal/api/handler/auth.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"propshare-admin/internal/auth"
	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	accounts service.AccountService
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts service.AccountService, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login handles the credential exchange.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
