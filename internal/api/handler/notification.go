// internal/api/handler/notification.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"propshare-admin/internal/api/types"
	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
)

// NotificationHandler handles HTTP requests for announcements.
type NotificationHandler struct {
	service service.NotificationService
	logger  *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateNotificationRequest represents the request body for an announcement.
type CreateNotificationRequest struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	UserID     *int64 `json:"userId"`
	PropertyID *int64 `json:"propertyId"`
}

// CreateNotification handles the announcement creation request.
// POST /notifications
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	notification, err := h.service.CreateNotification(r.Context(), service.NotificationInput{
		Title:      req.Title,
		Message:    req.Message,
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"message":      "Notification created",
		"notification": notification,
	})
}

// GetNotification handles the single-announcement request.
// GET /notifications/{notificationID}
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, err := pathID(r, "notificationID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	notification, err := h.service.GetNotification(r.Context(), notificationID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, notification)
}

// MarkNotificationRead handles the mark-as-read request.
// PUT /notifications/{notificationID}
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := pathID(r, "notificationID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	notification, err := h.service.MarkNotificationRead(r.Context(), notificationID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":      "Notification marked as read",
		"notification": notification,
	})
}

// DeleteNotification handles the announcement deletion request.
// DELETE /notifications/{notificationID}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, err := pathID(r, "notificationID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.DeleteNotification(r.Context(), notificationID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Notification deleted",
	})
}

// ListNotifications handles the announcement listing request.
// GET /notifications?filter=all|global|user
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	filter := repository.NotificationFilter(r.URL.Query().Get("filter"))
	limit, offset := pagination(r)

	notifications, total, err := h.service.ListNotifications(r.Context(), filter, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Notification]{
		Data:       notifications,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}
