// internal/api/handler/property.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
)

// PropertyHandler handles HTTP requests for property listings and the
// pending-request queues.
type PropertyHandler struct {
	service service.PropertyService
	logger  *slog.Logger
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(svc service.PropertyService, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: svc,
		logger:  logger,
	}
}

// CreatePropertyRequest represents the request body for listing a property.
type CreatePropertyRequest struct {
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	Area           int64           `json:"area"`
	Floors         int64           `json:"floors"`
	Rooms          int64           `json:"rooms"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	NumberOfShares int64           `json:"numberOfShares"`
}

// CreateProperty handles the property listing request.
// POST /properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	property, err := h.service.CreateProperty(r.Context(), service.PropertyInput{
		Name:           req.Name,
		Location:       req.Location,
		Area:           req.Area,
		Floors:         req.Floors,
		Rooms:          req.Rooms,
		CurrentPrice:   req.CurrentPrice,
		NumberOfShares: req.NumberOfShares,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"message":  "Property listed",
		"property": property,
	})
}

// GetProperty handles the single property request.
// GET /properties/{propertyID}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "propertyID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	property, err := h.service.GetProperty(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, property)
}

// ListProperties handles the property listing request.
// GET /properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.service.ListProperties(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"data": properties,
	})
}

// UpdatePropertyRequest represents the request body for a property update.
type UpdatePropertyRequest struct {
	Name         *string          `json:"name"`
	Location     *string          `json:"location"`
	Area         *int64           `json:"area"`
	Floors       *int64           `json:"floors"`
	Rooms        *int64           `json:"rooms"`
	CurrentPrice *decimal.Decimal `json:"currentPrice"`
}

// UpdateProperty handles the property update request.
// PUT /properties/{propertyID}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "propertyID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	property, err := h.service.UpdateProperty(r.Context(), id, service.PropertyUpdate{
		Name:         req.Name,
		Location:     req.Location,
		Area:         req.Area,
		Floors:       req.Floors,
		Rooms:        req.Rooms,
		CurrentPrice: req.CurrentPrice,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":  "Property updated",
		"property": property,
	})
}

// GetPriceHistory handles the price history request.
// GET /properties/{propertyID}/prices
func (h *PropertyHandler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "propertyID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	history, err := h.service.GetPriceHistory(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"data": history,
	})
}

// ListPendingPurchases handles the purchase queue request.
// GET /pendingShares
func (h *PropertyHandler) ListPendingPurchases(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPendingPurchases(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"data": pending,
	})
}

// ListPendingSales handles the sale queue request.
// GET /shareSale
func (h *PropertyHandler) ListPendingSales(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPendingSales(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"data": pending,
	})
}

// ListPendingWithdrawals handles the withdrawal queue request.
// GET /withdrawals
func (h *PropertyHandler) ListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPendingWithdrawals(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"data": pending,
	})
}
