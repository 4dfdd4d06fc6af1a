// internal/service/settlement_integration_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/notify"
	pgrepo "propshare-admin/internal/repository/postgres"
	"propshare-admin/internal/util"
	"propshare-admin/pkg/db"
)

// TestSettlementAgainstPostgres runs the settlement engine against a real
// database, covering what the mocked tests cannot: row locks serializing two
// concurrent approvals, and share conservation across the whole settlement
// chain. It needs TEST_DATABASE_DSN pointing at a disposable PostgreSQL
// instance, for example:
//
//	TEST_DATABASE_DSN="host=localhost user=postgres dbname=propshare_test sslmode=disable"
func TestSettlementAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	dbConn, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbConn.Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, dbConn))

	userRepo := pgrepo.NewUserRepository(dbConn)
	propertyRepo := pgrepo.NewPropertyRepository(dbConn)
	holdingRepo := pgrepo.NewHoldingRepository(dbConn)
	purchaseRepo := pgrepo.NewPendingShareRepository(dbConn)
	saleRepo := pgrepo.NewShareSaleRepository(dbConn)
	withdrawRepo := pgrepo.NewWithdrawalRepository(dbConn)
	journalRepo := pgrepo.NewTransactionRepository(dbConn)
	rentRepo := pgrepo.NewRentDistributionRepository(dbConn)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.NewNotifier(notify.NewLogSender(logger), logger)
	svc := NewSettlementService(
		dbConn,
		userRepo, propertyRepo, holdingRepo, purchaseRepo,
		saleRepo, withdrawRepo, journalRepo, rentRepo,
		db.BeginTx, db.CommitTx, db.RollbackTx,
		notifier, logger,
	)

	// Unique identity per run so reruns against the same database never
	// trip the email/username constraints.
	stamp := time.Now().UnixNano()
	totalCost := decimal.NewFromInt(500)
	buyer := &domain.User{
		FullName:          "Settlement Buyer",
		Email:             fmt.Sprintf("buyer+%d@example.com", stamp),
		Username:          fmt.Sprintf("buyer%d", stamp),
		Phone:             "+201000000000",
		PasswordHash:      "not-a-real-hash",
		Role:              domain.RoleUser,
		Balance:           decimal.NewFromInt(1000),
		PendingIncome:     decimal.NewFromInt(120),
		PendingInvestment: totalCost,
	}
	require.NoError(t, userRepo.CreateUser(ctx, dbConn, buyer))

	property := domain.NewProperty("Integration Court", "Cairo", 400, 3, 8, decimal.NewFromInt(100000), 100)
	require.NoError(t, propertyRepo.CreateProperty(ctx, dbConn, property))

	pending := &domain.PendingShare{
		UserID:     buyer.ID,
		PropertyID: property.ID,
		Shares:     10,
		TotalCost:  totalCost,
		Status:     domain.PendingSharePending,
	}
	require.NoError(t, purchaseRepo.CreatePendingShare(ctx, dbConn, pending))

	t.Run("DoubleApprovalSettlesOnce", func(t *testing.T) {
		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := svc.ConfirmPurchase(ctx, pending.ID, 1)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var settled, bailedOut int
		for err := range errs {
			switch {
			case err == nil:
				settled++
			case errors.Is(err, util.ErrAlreadyProcessed):
				bailedOut++
			default:
				t.Fatalf("unexpected confirm error: %v", err)
			}
		}
		assert.Equal(t, 1, settled)
		assert.Equal(t, 1, bailedOut)

		// Exactly one settlement happened: 10 shares left the pool once.
		held, err := holdingRepo.TotalShares(ctx, dbConn, property.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), held)

		fresh, err := propertyRepo.GetPropertyByID(ctx, dbConn, property.ID)
		require.NoError(t, err)
		assert.Equal(t, property.NumberOfShares, fresh.AvailableShares+held)

		settledBuyer, err := userRepo.GetUserByID(ctx, dbConn, buyer.ID)
		require.NoError(t, err)
		assert.True(t, settledBuyer.PendingInvestment.IsZero(),
			"earmark consumed once, not twice: %s", settledBuyer.PendingInvestment)
	})

	t.Run("SaleApprovalReturnsSharesToPool", func(t *testing.T) {
		sale := &domain.ShareSale{
			UserID:     buyer.ID,
			PropertyID: property.ID,
			Shares:     4,
			TotalValue: decimal.NewFromInt(120),
			Status:     domain.ShareSalePending,
		}
		require.NoError(t, saleRepo.CreateShareSale(ctx, dbConn, sale))

		_, entry, err := svc.ApproveSale(ctx, sale.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.SaleReference(sale.ID), entry.Reference)

		held, err := holdingRepo.TotalShares(ctx, dbConn, property.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(6), held)

		fresh, err := propertyRepo.GetPropertyByID(ctx, dbConn, property.ID)
		require.NoError(t, err)
		assert.Equal(t, property.NumberOfShares, fresh.AvailableShares+held)

		seller, err := userRepo.GetUserByID(ctx, dbConn, buyer.ID)
		require.NoError(t, err)
		assert.True(t, seller.Balance.Equal(decimal.NewFromInt(1120)), "proceeds released: %s", seller.Balance)
		assert.True(t, seller.PendingIncome.IsZero())
	})

	t.Run("WithdrawalApprovalDebitsBalance", func(t *testing.T) {
		withdrawal := &domain.Withdrawal{
			UserID: buyer.ID,
			Amount: decimal.NewFromInt(200),
			Method: domain.MethodBankTransfer,
			Details: domain.PayoutDetails{
				BankTransfer: &domain.BankTransferDetails{
					BankName:      "CIB",
					ReceiverName:  "Settlement Buyer",
					AccountNumber: "100200300",
				},
			},
			Status: domain.WithdrawalPending,
		}
		require.NoError(t, withdrawRepo.CreateWithdrawal(ctx, dbConn, withdrawal))

		approved, err := svc.ApproveWithdrawal(ctx, withdrawal.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalCompleted, approved.Status)

		account, err := userRepo.GetUserByID(ctx, dbConn, buyer.ID)
		require.NoError(t, err)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(920)), "balance after payout: %s", account.Balance)
	})
}
