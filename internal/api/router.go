// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"propshare-admin/internal/api/handler"
	"propshare-admin/internal/auth"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Settlement   *handler.SettlementHandler
	Account      *handler.AccountHandler
	Property     *handler.PropertyHandler
	Notification *handler.NotificationHandler
}

// NewRouter sets up and returns a new HTTP router. Everything except login
// and the health check sits behind the admin gate.
func NewRouter(h Handlers, tokens *auth.TokenManager, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/auth/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(tokens))

		// Settlement queues and operations
		r.Route("/pendingShares", func(r chi.Router) {
			r.Get("/", h.Property.ListPendingPurchases)
			r.Post("/{pendingShareID}", h.Settlement.ConfirmPurchase)
			r.Delete("/{pendingShareID}", h.Settlement.RejectPurchase)
		})
		r.Route("/shareSale", func(r chi.Router) {
			r.Get("/", h.Property.ListPendingSales)
			r.Post("/{shareSaleID}", h.Settlement.ApproveSale)
			r.Delete("/{shareSaleID}", h.Settlement.RejectSale)
		})
		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", h.Property.ListPendingWithdrawals)
			r.Post("/{withdrawalID}", h.Settlement.ApproveWithdrawal)
			r.Delete("/{withdrawalID}", h.Settlement.RejectWithdrawal)
		})

		// Property listings
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.Property.ListProperties)
			r.Post("/", h.Property.CreateProperty)
			r.Get("/{propertyID}", h.Property.GetProperty)
			r.Put("/{propertyID}", h.Property.UpdateProperty)
			r.Get("/{propertyID}/prices", h.Property.GetPriceHistory)
			r.Post("/{propertyID}/rent", h.Settlement.DistributeRent)
		})

		// Accounts and journal
		r.Get("/users", h.Account.ListUsers)
		r.Put("/users/{userID}", h.Account.UpdateUser)
		r.Get("/verifications", h.Account.ListVerifications)
		r.Put("/verifications/{userID}", h.Account.SetVerification)
		r.Get("/transactions", h.Account.ListTransactions)

		// Announcements
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.ListNotifications)
			r.Post("/", h.Notification.CreateNotification)
			r.Get("/{notificationID}", h.Notification.GetNotification)
			r.Put("/{notificationID}", h.Notification.MarkNotificationRead)
			r.Delete("/{notificationID}", h.Notification.DeleteNotification)
		})
	})

	return r
}
