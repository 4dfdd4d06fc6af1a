// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/util"
	"propshare-admin/pkg/db"
)

// ProfileUpdate carries the mutable profile fields of a user. Nil fields are
// left untouched.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
}

// AccountService defines the interface for user account operations.
type AccountService interface {
	// Authenticate checks the credentials and returns the user on success.
	// Unknown identifiers and wrong passwords both return util.ErrUnauthorized.
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, error)
	// SetVerification records the outcome of an identity review. A rejection
	// requires a reason; any other status discards it.
	SetVerification(ctx context.Context, userID int64, status domain.VerificationStatus, rejectionReason *string) (*domain.User, error)
	// ListPendingVerifications returns the users still waiting for an
	// identity review, oldest submission first.
	ListPendingVerifications(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
	GetPortfolio(ctx context.Context, userID int64) ([]domain.Holding, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	userRepo    repository.UserRepository
	journalRepo repository.TransactionRepository
	holdingRepo repository.HoldingRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	logger      *slog.Logger
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	journalRepo repository.TransactionRepository,
	holdingRepo repository.HoldingRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) AccountService {
	return &accountService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		userRepo:    userRepo,
		journalRepo: journalRepo,
		holdingRepo: holdingRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		logger:      logger,
	}
}

func (s *accountService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, util.ErrInvalidInput
	}

	user, err := s.userRepo.FindByIdentifier(ctx, s.dbExecutor, identifier)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, util.ErrUnauthorized
	}
	return user, nil
}

func (s *accountService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
}

func (s *accountService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListUsers(ctx, s.dbExecutor, limit, offset)
}

func (s *accountService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update profile: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update profile: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, err
	}
	if update.FullName != nil {
		user.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, util.ErrInvalidInput
		}
		user.Email = email
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}

	if err := s.userRepo.UpdateProfile(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update profile: failed to commit transaction: %w", err)
	}
	return user, nil
}

func (s *accountService) SetVerification(ctx context.Context, userID int64, status domain.VerificationStatus, rejectionReason *string) (*domain.User, error) {
	switch status {
	case domain.VerificationVerified:
		rejectionReason = nil
	case domain.VerificationRejected:
		if rejectionReason == nil || strings.TrimSpace(*rejectionReason) == "" {
			return nil, util.ErrInvalidInput
		}
	default:
		return nil, util.ErrInvalidInput
	}

	user, err := s.userRepo.UpdateVerification(ctx, s.dbExecutor, userID, status, rejectionReason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info("verification updated", "userId", userID, "status", status)
	return user, nil
}

func (s *accountService) ListPendingVerifications(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListByVerificationStatus(ctx, s.dbExecutor, domain.VerificationPending, limit, offset)
}

func (s *accountService) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.journalRepo.ListByUser(ctx, s.dbExecutor, userID, limit, offset)
}

func (s *accountService) GetPortfolio(ctx context.Context, userID int64) ([]domain.Holding, error) {
	return s.holdingRepo.ListByUser(ctx, s.dbExecutor, userID)
}
