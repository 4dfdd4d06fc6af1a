// internal/service/account_service_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/util"
	"propshare-admin/pkg/db"
)

type accountFixture struct {
	userRepo    *MockUserRepository
	journalRepo *MockTransactionRepository
	holdingRepo *MockHoldingRepository
	dbExecutor  *MockDBExecutor
	tx          *MockTxController
	service     AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		userRepo:    new(MockUserRepository),
		journalRepo: new(MockTransactionRepository),
		holdingRepo: new(MockHoldingRepository),
		dbExecutor:  new(MockDBExecutor),
		tx:          new(MockTxController),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewAccountService(
		new(MockDBBeginner),
		f.dbExecutor,
		f.userRepo,
		f.journalRepo,
		f.holdingRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return f.tx, nil
		},
		func(tx db.TxController) error {
			return f.tx.Commit()
		},
		func(tx db.TxController) {
			_ = f.tx.Rollback()
		},
		logger,
	)
	return f
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &domain.User{ID: 99, Username: "ops", Role: domain.RoleAdmin, PasswordHash: string(hash)}

	t.Run("ValidCredentials", func(t *testing.T) {
		f := newAccountFixture()
		f.userRepo.On("FindByIdentifier", ctx, mock.Anything, "ops").Return(admin, nil).Once()

		user, err := f.service.Authenticate(ctx, "ops", "correct horse")

		assert.NoError(t, err)
		assert.Equal(t, int64(99), user.ID)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newAccountFixture()
		f.userRepo.On("FindByIdentifier", ctx, mock.Anything, "ops").Return(admin, nil).Once()

		_, err := f.service.Authenticate(ctx, "ops", "wrong")

		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("UnknownIdentifier", func(t *testing.T) {
		f := newAccountFixture()
		f.userRepo.On("FindByIdentifier", ctx, mock.Anything, "ghost").Return(nil, util.ErrNotFound).Once()

		_, err := f.service.Authenticate(ctx, "ghost", "whatever")

		// Unknown accounts and wrong passwords are indistinguishable to the caller.
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.service.Authenticate(ctx, "", "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		f.userRepo.AssertNotCalled(t, "FindByIdentifier", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSetVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectionRequiresReason", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.service.SetVerification(ctx, 3, domain.VerificationRejected, nil)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		f.userRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("VerifiedDiscardsReason", func(t *testing.T) {
		f := newAccountFixture()
		leftover := "should be dropped"
		verified := &domain.User{ID: 3, VerificationStatus: domain.VerificationVerified}
		f.userRepo.On("UpdateVerification", ctx, mock.Anything, int64(3), domain.VerificationVerified, (*string)(nil), mock.AnythingOfType("time.Time")).Return(verified, nil).Once()

		user, err := f.service.SetVerification(ctx, 3, domain.VerificationVerified, &leftover)

		assert.NoError(t, err)
		assert.Equal(t, domain.VerificationVerified, user.VerificationStatus)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("OnlyTerminalStatusesAllowed", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.service.SetVerification(ctx, 3, domain.VerificationPending, nil)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}
