// internal/api/api_test.go
package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propshare-admin/internal/api"
	"propshare-admin/internal/api/handler"
	"propshare-admin/internal/auth"
	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
)

// MockSettlementService is a mock implementation of service.SettlementService.
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) ConfirmPurchase(ctx context.Context, pendingShareID, adminID int64) (*domain.PendingShare, *domain.Transaction, error) {
	args := m.Called(ctx, pendingShareID, adminID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PendingShare), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockSettlementService) RejectPurchase(ctx context.Context, pendingShareID, adminID int64) (*domain.PendingShare, error) {
	args := m.Called(ctx, pendingShareID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingShare), args.Error(1)
}

func (m *MockSettlementService) ApproveSale(ctx context.Context, shareSaleID, adminID int64) (*domain.ShareSale, *domain.Transaction, error) {
	args := m.Called(ctx, shareSaleID, adminID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ShareSale), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockSettlementService) RejectSale(ctx context.Context, shareSaleID, adminID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, shareSaleID, adminID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettlementService) DistributeRent(ctx context.Context, propertyID int64, rentAmount decimal.Decimal, adminID int64) (*service.RentDistributionResult, error) {
	args := m.Called(ctx, propertyID, rentAmount, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RentDistributionResult), args.Error(1)
}

func (m *MockSettlementService) ApproveWithdrawal(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, withdrawalID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockSettlementService) RejectWithdrawal(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, withdrawalID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, userID int64, update service.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) SetVerification(ctx context.Context, userID int64, status domain.VerificationStatus, rejectionReason *string) (*domain.User, error) {
	args := m.Called(ctx, userID, status, rejectionReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) ListPendingVerifications(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountService) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountService) GetPortfolio(ctx context.Context, userID int64) ([]domain.Holding, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Holding), args.Error(1)
}

// MockPropertyService is a mock implementation of service.PropertyService.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, input service.PropertyInput) (*domain.Property, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyService) GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyService) UpdateProperty(ctx context.Context, propertyID int64, update service.PropertyUpdate) (*domain.Property, error) {
	args := m.Called(ctx, propertyID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyService) GetPriceHistory(ctx context.Context, propertyID int64) ([]domain.PricePoint, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

func (m *MockPropertyService) ListPendingPurchases(ctx context.Context) ([]domain.PendingShare, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PendingShare), args.Error(1)
}

func (m *MockPropertyService) ListPendingSales(ctx context.Context) ([]domain.ShareSale, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ShareSale), args.Error(1)
}

func (m *MockPropertyService) ListPendingWithdrawals(ctx context.Context) ([]domain.Withdrawal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) CreateNotification(ctx context.Context, input service.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationService) GetNotification(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, filter repository.NotificationFilter, limit, offset int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationService) DeleteNotification(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// testEnv bundles the mocked services behind a live test server.
type testEnv struct {
	settlement   *MockSettlementService
	accounts     *MockAccountService
	properties   *MockPropertyService
	notification *MockNotificationService
	tokens       *auth.TokenManager
	server       *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		settlement:   new(MockSettlementService),
		accounts:     new(MockAccountService),
		properties:   new(MockPropertyService),
		notification: new(MockNotificationService),
		tokens:       auth.NewTokenManager("test-secret", "propshare-admin", time.Hour),
	}
	handlers := api.Handlers{
		Auth:         handler.NewAuthHandler(env.accounts, env.tokens, logger),
		Settlement:   handler.NewSettlementHandler(env.settlement, logger),
		Account:      handler.NewAccountHandler(env.accounts, logger),
		Property:     handler.NewPropertyHandler(env.properties, logger),
		Notification: handler.NewNotificationHandler(env.notification, logger),
	}
	env.server = httptest.NewServer(api.NewRouter(handlers, env.tokens, logger))
	t.Cleanup(env.server.Close)
	return env
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := env.tokens.Generate(&domain.User{ID: 99, Role: domain.RoleAdmin})
	require.NoError(t, err)
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, env.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)

	t.Run("MissingToken", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/pendingShares/1", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized", body["error"])
	})

	t.Run("NonAdminToken", func(t *testing.T) {
		token, err := env.tokens.Generate(&domain.User{ID: 3, Role: domain.RoleUser})
		require.NoError(t, err)

		resp, _ := env.request(t, http.MethodPost, "/pendingShares/1", token, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		env.settlement.AssertNotCalled(t, "ConfirmPurchase", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("HealthIsOpen", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestSettlementRoutes(t *testing.T) {
	t.Run("ConfirmPurchasePassesAdminID", func(t *testing.T) {
		env := newTestEnv(t)
		pending := &domain.PendingShare{ID: 7, Status: domain.PendingShareCompleted}
		entry := &domain.Transaction{ID: 55, Reference: "share_purchase_7"}
		env.settlement.On("ConfirmPurchase", mock.Anything, int64(7), int64(99)).Return(pending, entry, nil).Once()

		resp, body := env.request(t, http.MethodPost, "/pendingShares/7", env.adminToken(t), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Purchase confirmed", body["message"])
		env.settlement.AssertExpectations(t)
	})

	t.Run("AlreadyProcessedMapsToConflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.settlement.On("ConfirmPurchase", mock.Anything, int64(7), int64(99)).Return(nil, nil, util.ErrAlreadyProcessed).Once()

		resp, body := env.request(t, http.MethodPost, "/pendingShares/7", env.adminToken(t), "")

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "Request already processed", body["error"])
	})

	t.Run("InsufficientSharesMapsToBadRequest", func(t *testing.T) {
		env := newTestEnv(t)
		env.settlement.On("ConfirmPurchase", mock.Anything, int64(7), int64(99)).Return(nil, nil, util.ErrInsufficientShares).Once()

		resp, _ := env.request(t, http.MethodPost, "/pendingShares/7", env.adminToken(t), "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("RejectSaleReturnsPendingIncome", func(t *testing.T) {
		env := newTestEnv(t)
		env.settlement.On("RejectSale", mock.Anything, int64(11), int64(99)).Return(decimal.NewFromInt(150), nil).Once()

		resp, body := env.request(t, http.MethodDelete, "/shareSale/11", env.adminToken(t), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "150", body["pending_income"])
	})

	t.Run("DistributeRentRequiresPositiveAmount", func(t *testing.T) {
		env := newTestEnv(t)

		resp, _ := env.request(t, http.MethodPost, "/properties/5/rent", env.adminToken(t), `{"rentAmount": "0"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		env.settlement.AssertNotCalled(t, "DistributeRent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DistributeRentSuccess", func(t *testing.T) {
		env := newTestEnv(t)
		result := &service.RentDistributionResult{
			Distributed:  decimal.NewFromInt(1000),
			Shareholders: 2,
			PerHolder:    decimal.NewFromInt(40),
		}
		env.settlement.On("DistributeRent", mock.Anything, int64(5), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(1000))
		}), int64(99)).Return(result, nil).Once()

		resp, body := env.request(t, http.MethodPost, "/properties/5/rent", env.adminToken(t), `{"rentAmount": "1000"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(2), body["shareholders"])
	})

	t.Run("ApproveWithdrawalAutoRejectMessage", func(t *testing.T) {
		env := newTestEnv(t)
		note := "Associated user account not found"
		withdrawal := &domain.Withdrawal{ID: 13, Status: domain.WithdrawalRejected, Notes: &note}
		env.settlement.On("ApproveWithdrawal", mock.Anything, int64(13), int64(99)).Return(withdrawal, nil).Once()

		resp, body := env.request(t, http.MethodPost, "/withdrawals/13", env.adminToken(t), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body["message"], "Associated user account not found")
	})

	t.Run("NonNumericIDIsBadRequest", func(t *testing.T) {
		env := newTestEnv(t)

		resp, _ := env.request(t, http.MethodPost, "/pendingShares/abc", env.adminToken(t), "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestVerificationRoutes(t *testing.T) {
	t.Run("ListPendingReviews", func(t *testing.T) {
		env := newTestEnv(t)
		waiting := []domain.User{
			{ID: 3, FullName: "Dana Farid", VerificationStatus: domain.VerificationPending},
		}
		env.accounts.On("ListPendingVerifications", mock.Anything, 20, 0).Return(waiting, int64(1), nil).Once()

		resp, body := env.request(t, http.MethodGet, "/verifications", env.adminToken(t), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["total_count"])
		env.accounts.AssertExpectations(t)
	})
}

func TestNotificationRoutes(t *testing.T) {
	t.Run("GetByID", func(t *testing.T) {
		env := newTestEnv(t)
		notification := &domain.Notification{ID: 41, Title: "Maintenance window"}
		env.notification.On("GetNotification", mock.Anything, int64(41)).Return(notification, nil).Once()

		resp, body := env.request(t, http.MethodGet, "/notifications/41", env.adminToken(t), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Maintenance window", body["title"])
	})

	t.Run("MarkReadReturnsUpdatedRow", func(t *testing.T) {
		env := newTestEnv(t)
		notification := &domain.Notification{ID: 41, Title: "Maintenance window", IsRead: true}
		env.notification.On("MarkNotificationRead", mock.Anything, int64(41)).Return(notification, nil).Once()

		resp, body := env.request(t, http.MethodPut, "/notifications/41", env.adminToken(t), "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		updated, ok := body["notification"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, updated["isRead"])
	})

	t.Run("DeleteMissingRowIsNotFound", func(t *testing.T) {
		env := newTestEnv(t)
		env.notification.On("DeleteNotification", mock.Anything, int64(404)).Return(util.ErrNotFound).Once()

		resp, _ := env.request(t, http.MethodDelete, "/notifications/404", env.adminToken(t), "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLoginRoute(t *testing.T) {
	t.Run("IssuesVerifiableToken", func(t *testing.T) {
		env := newTestEnv(t)
		admin := &domain.User{ID: 99, Role: domain.RoleAdmin, Username: "ops"}
		env.accounts.On("Authenticate", mock.Anything, "ops", "secret").Return(admin, nil).Once()

		resp, body := env.request(t, http.MethodPost, "/auth/login", "", `{"identifier": "ops", "password": "secret"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		token, _ := body["token"].(string)
		require.NotEmpty(t, token)

		claims, err := env.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(99), claims.UserID)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.On("Authenticate", mock.Anything, "ops", "wrong").Return(nil, util.ErrUnauthorized).Once()

		resp, _ := env.request(t, http.MethodPost, "/auth/login", "", `{"identifier": "ops", "password": "wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
