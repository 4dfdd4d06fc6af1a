// internal/service/settlement_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/notify"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/util"
	"propshare-admin/pkg/db"
)

// RentDistributionResult summarizes one committed rent payout batch.
type RentDistributionResult struct {
	Distributed  decimal.Decimal `json:"distributed"`
	Shareholders int             `json:"shareholders"`
	PerHolder    decimal.Decimal `json:"perHolder"`
}

// SettlementService finalizes pending financial/ownership requests into
// terminal, ledger-consistent states. Every operation is a single atomic
// database transaction: a fresh locked read of the pending record guards the
// pending -> terminal transition, all balance and share movements happen on
// the transaction's executor, and a journal entry with a deterministic
// reference is appended before commit. Any precondition failure rolls the
// whole transaction back with zero side effects.
type SettlementService interface {
	ConfirmPurchase(ctx context.Context, pendingShareID, adminID int64) (*domain.PendingShare, *domain.Transaction, error)
	RejectPurchase(ctx context.Context, pendingShareID, adminID int64) (*domain.PendingShare, error)
	ApproveSale(ctx context.Context, shareSaleID, adminID int64) (*domain.ShareSale, *domain.Transaction, error)
	RejectSale(ctx context.Context, shareSaleID, adminID int64) (decimal.Decimal, error)
	DistributeRent(ctx context.Context, propertyID int64, rentAmount decimal.Decimal, adminID int64) (*RentDistributionResult, error)
	ApproveWithdrawal(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error)
}

// settlementService implements SettlementService.
type settlementService struct {
	dbBeginner   db.DBTxBeginner
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	holdingRepo  repository.HoldingRepository
	purchaseRepo repository.PendingShareRepository
	saleRepo     repository.ShareSaleRepository
	withdrawRepo repository.WithdrawalRepository
	journalRepo  repository.TransactionRepository
	rentRepo     repository.RentDistributionRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
	notifier     *notify.Notifier
	logger       *slog.Logger
}

// NewSettlementService creates a new instance of SettlementService.
func NewSettlementService(
	dbBeginner db.DBTxBeginner,
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	holdingRepo repository.HoldingRepository,
	purchaseRepo repository.PendingShareRepository,
	saleRepo repository.ShareSaleRepository,
	withdrawRepo repository.WithdrawalRepository,
	journalRepo repository.TransactionRepository,
	rentRepo repository.RentDistributionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	notifier *notify.Notifier,
	logger *slog.Logger,
) SettlementService {
	return &settlementService{
		dbBeginner:   dbBeginner,
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		holdingRepo:  holdingRepo,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		withdrawRepo: withdrawRepo,
		journalRepo:  journalRepo,
		rentRepo:     rentRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
		notifier:     notifier,
		logger:       logger,
	}
}

// begin starts a transaction and returns its controller plus executor.
func (s *settlementService) begin(ctx context.Context) (db.TxController, repository.DBExecutor, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to begin transaction: %v", util.ErrTransactionAborted, err)
	}
	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		s.rollbackTx(txController)
		return nil, nil, fmt.Errorf("transaction controller does not implement DBExecutor")
	}
	return txController, txExecutor, nil
}

// commit commits, translating commit failures (write conflicts, timeouts)
// into the retryable taxonomy.
func (s *settlementService) commit(tx db.TxController, op string) error {
	if err := s.commitTx(tx); err != nil {
		return fmt.Errorf("%w: %s: commit failed: %v", util.ErrTransactionAborted, op, err)
	}
	return nil
}

// ConfirmPurchase settles a pending purchase: the requested shares move from
// the property's available pool to the buyer's holding, the buyer's earmarked
// pending investment is consumed, and a Withdraw/Investment journal entry is
// appended.
func (s *settlementService) ConfirmPurchase(ctx context.Context, pendingShareID, adminID int64) (*domain.PendingShare, *domain.Transaction, error) {
	tx, q, err := s.begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer s.rollbackTx(tx)

	pending, err := s.purchaseRepo.GetPendingShareForUpdate(ctx, q, pendingShareID)
	if err != nil {
		return nil, nil, err
	}
	if pending.Status != domain.PendingSharePending {
		return nil, nil, util.ErrAlreadyProcessed
	}

	property, err := s.propertyRepo.GetPropertyByIDForUpdate(ctx, q, pending.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if property.AvailableShares < pending.Shares {
		return nil, nil, util.ErrInsufficientShares
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, q, pending.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user.PendingInvestment.LessThan(pending.TotalCost) {
		s.logger.Error("pending investment does not cover purchase cost",
			"pendingShareId", pendingShareID, "userId", user.ID,
			"pendingInvestment", user.PendingInvestment, "totalCost", pending.TotalCost)
		return nil, nil, util.ErrFundsMismatch
	}

	if err := s.propertyRepo.AdjustAvailableShares(ctx, q, property.ID, -pending.Shares); err != nil {
		return nil, nil, fmt.Errorf("confirm purchase: %w", err)
	}
	if err := s.holdingRepo.AddShares(ctx, q, property.ID, user.ID, pending.Shares); err != nil {
		return nil, nil, fmt.Errorf("confirm purchase: %w", err)
	}
	if err := s.userRepo.ApplyFundsDelta(ctx, q, user.ID, repository.FundsDelta{
		PendingInvestment: pending.TotalCost.Neg(),
	}); err != nil {
		return nil, nil, fmt.Errorf("confirm purchase: %w", err)
	}
	if err := s.purchaseRepo.UpdateStatus(ctx, q, pending.ID, domain.PendingShareCompleted); err != nil {
		return nil, nil, fmt.Errorf("confirm purchase: %w", err)
	}

	entry := domain.NewTransaction(
		user.ID,
		user.DisplayName(),
		domain.PurchaseReference(pending.ID),
		pending.TotalCost,
		domain.TransactionTypeWithdraw,
		domain.SourceInvestment,
		fmt.Sprintf("Purchase of %d shares for property %s", pending.Shares, property.Name),
	)
	if err := s.journalRepo.CreateTransaction(ctx, q, entry); err != nil {
		return nil, nil, err
	}

	if err := s.commit(tx, "confirm purchase"); err != nil {
		return nil, nil, err
	}

	pending.Status = domain.PendingShareCompleted
	s.notifier.Dispatch(
		"Share purchase confirmed",
		fmt.Sprintf("Your purchase of %d shares of %s has been confirmed.", pending.Shares, property.Name),
		user.ID,
	)
	return pending, entry, nil
}

// RejectPurchase refunds a pending purchase: the earmarked cost returns to the
// buyer's spendable balance. No share moved at request time, so the property
// is untouched.
func (s *settlementService) RejectPurchase(ctx context.Context, pendingShareID, adminID int64) (*domain.PendingShare, error) {
	tx, q, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollbackTx(tx)

	pending, err := s.purchaseRepo.GetPendingShareForUpdate(ctx, q, pendingShareID)
	if err != nil {
		return nil, err
	}
	if pending.Status != domain.PendingSharePending {
		return nil, util.ErrAlreadyProcessed
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, q, pending.UserID)
	if err != nil {
		return nil, err
	}
	if user.PendingInvestment.LessThan(pending.TotalCost) {
		s.logger.Error("pending investment does not cover refund",
			"pendingShareId", pendingShareID, "userId", user.ID,
			"pendingInvestment", user.PendingInvestment, "totalCost", pending.TotalCost)
		return nil, util.ErrFundsMismatch
	}

	if err := s.userRepo.ApplyFundsDelta(ctx, q, user.ID, repository.FundsDelta{
		Balance:           pending.TotalCost,
		PendingInvestment: pending.TotalCost.Neg(),
	}); err != nil {
		return nil, fmt.Errorf("reject purchase: %w", err)
	}
	if err := s.purchaseRepo.UpdateStatus(ctx, q, pending.ID, domain.PendingShareRejected); err != nil {
		return nil, fmt.Errorf("reject purchase: %w", err)
	}

	if err := s.commit(tx, "reject purchase"); err != nil {
		return nil, err
	}

	pending.Status = domain.PendingShareRejected
	s.notifier.Dispatch(
		"Share purchase rejected",
		fmt.Sprintf("Your purchase request for %d shares was refused and the funds were refunded.", pending.Shares),
		user.ID,
	)
	return pending, nil
}

// ApproveSale settles a resale: the sold shares return to the available pool,
// the seller's earmarked pending income becomes spendable balance, and a
// Deposit/Share Sale journal entry is appended.
func (s *settlementService) ApproveSale(ctx context.Context, shareSaleID, adminID int64) (*domain.ShareSale, *domain.Transaction, error) {
	tx, q, err := s.begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer s.rollbackTx(tx)

	sale, err := s.saleRepo.GetShareSaleForUpdate(ctx, q, shareSaleID)
	if err != nil {
		return nil, nil, err
	}
	if sale.Status != domain.ShareSalePending {
		return nil, nil, util.ErrAlreadyProcessed
	}

	property, err := s.propertyRepo.GetPropertyByIDForUpdate(ctx, q, sale.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.GetUserByIDForUpdate(ctx, q, sale.UserID)
	if err != nil {
		return nil, nil, err
	}

	holding, err := s.holdingRepo.GetHolding(ctx, q, property.ID, user.ID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil, util.ErrInsufficientShares
		}
		return nil, nil, fmt.Errorf("approve sale: %w", err)
	}
	if holding.Shares < sale.Shares {
		return nil, nil, util.ErrInsufficientShares
	}
	if user.PendingIncome.LessThan(sale.TotalValue) {
		s.logger.Error("pending income does not cover sale value",
			"shareSaleId", shareSaleID, "userId", user.ID,
			"pendingIncome", user.PendingIncome, "totalValue", sale.TotalValue)
		return nil, nil, util.ErrFundsMismatch
	}

	if err := s.userRepo.ApplyFundsDelta(ctx, q, user.ID, repository.FundsDelta{
		Balance:       sale.TotalValue,
		PendingIncome: sale.TotalValue.Neg(),
	}); err != nil {
		return nil, nil, fmt.Errorf("approve sale: %w", err)
	}
	if err := s.holdingRepo.RemoveShares(ctx, q, property.ID, user.ID, sale.Shares); err != nil {
		return nil, nil, fmt.Errorf("approve sale: %w", err)
	}
	if err := s.propertyRepo.AdjustAvailableShares(ctx, q, property.ID, sale.Shares); err != nil {
		return nil, nil, fmt.Errorf("approve sale: %w", err)
	}
	now := time.Now().UTC()
	if err := s.saleRepo.UpdateStatus(ctx, q, sale.ID, domain.ShareSaleApproved, now); err != nil {
		return nil, nil, fmt.Errorf("approve sale: %w", err)
	}

	entry := domain.NewTransaction(
		user.ID,
		user.DisplayName(),
		domain.SaleReference(sale.ID),
		sale.TotalValue,
		domain.TransactionTypeDeposit,
		domain.SourceShareSale,
		fmt.Sprintf("Sold %d shares of %s", sale.Shares, property.Name),
	)
	if err := s.journalRepo.CreateTransaction(ctx, q, entry); err != nil {
		return nil, nil, err
	}

	if err := s.commit(tx, "approve sale"); err != nil {
		return nil, nil, err
	}

	sale.Status = domain.ShareSaleApproved
	sale.ProcessedAt = &now
	s.notifier.Dispatch(
		"Share sale approved",
		fmt.Sprintf("Your sale of %d shares of %s has been approved.", sale.Shares, property.Name),
		user.ID,
	)
	return sale, entry, nil
}

// RejectSale cancels a resale request: the earmarked pending income is
// released (clamped at zero, never negative) and no share moves. Returns the
// seller's updated pending income.
func (s *settlementService) RejectSale(ctx context.Context, shareSaleID, adminID int64) (decimal.Decimal, error) {
	tx, q, err := s.begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer s.rollbackTx(tx)

	sale, err := s.saleRepo.GetShareSaleForUpdate(ctx, q, shareSaleID)
	if err != nil {
		return decimal.Zero, err
	}
	if sale.Status != domain.ShareSalePending {
		return decimal.Zero, util.ErrAlreadyProcessed
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, q, sale.UserID)
	if err != nil {
		return decimal.Zero, err
	}

	updated := user.PendingIncome.Sub(sale.TotalValue)
	if updated.IsNegative() {
		s.logger.Error("pending income does not cover rejected sale, clamping to zero",
			"shareSaleId", shareSaleID, "userId", user.ID,
			"pendingIncome", user.PendingIncome, "totalValue", sale.TotalValue)
		updated = decimal.Zero
	}
	if err := s.userRepo.SetPendingIncome(ctx, q, user.ID, updated); err != nil {
		return decimal.Zero, fmt.Errorf("reject sale: %w", err)
	}
	if err := s.saleRepo.UpdateStatus(ctx, q, sale.ID, domain.ShareSaleRejected, time.Now().UTC()); err != nil {
		return decimal.Zero, fmt.Errorf("reject sale: %w", err)
	}

	if err := s.commit(tx, "reject sale"); err != nil {
		return decimal.Zero, err
	}

	s.notifier.Dispatch(
		"Share sale rejected",
		fmt.Sprintf("Your sale request for %d shares was rejected.", sale.Shares),
		user.ID,
	)
	return updated, nil
}

// DistributeRent pays the property's rent pool out to its shareholders as one
// atomic batch. Every credit gets a journal entry referenced to the batch
// record, and the property balance decreases by exactly rentAmount. Each
// holder is credited rentAmount/numberOfShares scaled by the total held
// shares of the property, not by the holder's individual share count.
func (s *settlementService) DistributeRent(ctx context.Context, propertyID int64, rentAmount decimal.Decimal, adminID int64) (*RentDistributionResult, error) {
	if rentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	tx, q, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollbackTx(tx)

	property, err := s.propertyRepo.GetPropertyByIDForUpdate(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	if property.Balance.LessThan(rentAmount) {
		return nil, util.ErrInsufficientFunds
	}

	holdings, err := s.holdingRepo.ListByPropertyForUpdate(ctx, q, propertyID)
	if err != nil {
		return nil, fmt.Errorf("distribute rent: %w", err)
	}
	if len(holdings) == 0 {
		return nil, util.ErrNoShareholders
	}
	var totalOwned int64
	for _, h := range holdings {
		totalOwned += h.Shares
	}
	if totalOwned == 0 {
		return nil, util.ErrNoShareholders
	}

	distribution := &domain.RentDistribution{
		PropertyID:    propertyID,
		Amount:        rentAmount,
		Shareholders:  int64(len(holdings)),
		DistributedBy: adminID,
	}
	if err := s.rentRepo.CreateRentDistribution(ctx, q, distribution); err != nil {
		return nil, fmt.Errorf("distribute rent: %w", err)
	}

	perShare := rentAmount.Div(decimal.NewFromInt(property.NumberOfShares))
	payout := perShare.Mul(decimal.NewFromInt(totalOwned))

	// Holdings come back ordered by user id, so holders lock in the same
	// order as every other settlement path.
	holderIDs := make([]int64, 0, len(holdings))
	for _, h := range holdings {
		holder, err := s.userRepo.GetUserByIDForUpdate(ctx, q, h.UserID)
		if err != nil {
			return nil, fmt.Errorf("distribute rent: holder %d: %w", h.UserID, err)
		}
		if err := s.userRepo.ApplyFundsDelta(ctx, q, holder.ID, repository.FundsDelta{
			Balance: payout,
		}); err != nil {
			return nil, fmt.Errorf("distribute rent: holder %d: %w", h.UserID, err)
		}

		entry := domain.NewTransaction(
			holder.ID,
			holder.DisplayName(),
			domain.RentReference(distribution.ID, holder.ID),
			payout,
			domain.TransactionTypeDeposit,
			domain.SourceRent,
			fmt.Sprintf("Rent income from %s (%d shares)", property.Name, h.Shares),
		)
		if err := s.journalRepo.CreateTransaction(ctx, q, entry); err != nil {
			return nil, err
		}
		holderIDs = append(holderIDs, holder.ID)
	}

	if err := s.propertyRepo.AdjustBalance(ctx, q, propertyID, rentAmount.Neg()); err != nil {
		return nil, fmt.Errorf("distribute rent: %w", err)
	}

	if err := s.commit(tx, "distribute rent"); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(
		"Rent distributed",
		fmt.Sprintf("Rent income from %s has been credited to your balance.", property.Name),
		holderIDs...,
	)
	return &RentDistributionResult{
		Distributed:  rentAmount,
		Shareholders: len(holdings),
		PerHolder:    payout,
	}, nil
}

// ApproveWithdrawal debits the user's balance and completes the cash-out. A
// withdrawal whose user no longer exists is auto-rejected with a note inside
// the same transaction; that is a recovered outcome, not an error.
func (s *settlementService) ApproveWithdrawal(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error) {
	tx, q, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollbackTx(tx)

	withdrawal, err := s.withdrawRepo.GetWithdrawalForUpdate(ctx, q, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != domain.WithdrawalPending {
		return nil, util.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	user, err := s.userRepo.GetUserByIDForUpdate(ctx, q, withdrawal.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			note := "Associated user account not found"
			if err := s.withdrawRepo.MarkProcessed(ctx, q, withdrawal.ID, domain.WithdrawalRejected, &note, adminID, now); err != nil {
				return nil, fmt.Errorf("approve withdrawal: %w", err)
			}
			if err := s.commit(tx, "approve withdrawal"); err != nil {
				return nil, err
			}
			s.logger.Warn("withdrawal auto-rejected, user missing",
				"withdrawalId", withdrawal.ID, "userId", withdrawal.UserID)
			withdrawal.Status = domain.WithdrawalRejected
			withdrawal.Notes = &note
			withdrawal.ProcessedBy = &adminID
			withdrawal.ProcessedAt = &now
			return withdrawal, nil
		}
		return nil, err
	}

	if user.Balance.LessThan(withdrawal.Amount) {
		return nil, util.ErrInsufficientFunds
	}

	if err := s.userRepo.ApplyFundsDelta(ctx, q, user.ID, repository.FundsDelta{
		Balance: withdrawal.Amount.Neg(),
	}); err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}

	entry := domain.NewTransaction(
		user.ID,
		user.DisplayName(),
		domain.WithdrawalReference(withdrawal.ID),
		withdrawal.Amount,
		domain.TransactionTypeWithdraw,
		domain.SourceBank,
		fmt.Sprintf("Withdrawal processed via %s", withdrawal.Method),
	)
	if err := s.journalRepo.CreateTransaction(ctx, q, entry); err != nil {
		return nil, err
	}

	if err := s.withdrawRepo.MarkProcessed(ctx, q, withdrawal.ID, domain.WithdrawalCompleted, nil, adminID, now); err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}

	if err := s.commit(tx, "approve withdrawal"); err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalCompleted
	withdrawal.ProcessedBy = &adminID
	withdrawal.ProcessedAt = &now
	s.notifier.Dispatch(
		"Withdrawal approved",
		fmt.Sprintf("Your withdrawal of %s has been processed.", withdrawal.Amount.StringFixed(2)),
		user.ID,
	)
	return withdrawal, nil
}

// RejectWithdrawal closes a cash-out request without touching any balance;
// funds were never debited at request time.
func (s *settlementService) RejectWithdrawal(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error) {
	tx, q, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollbackTx(tx)

	withdrawal, err := s.withdrawRepo.GetWithdrawalForUpdate(ctx, q, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != domain.WithdrawalPending {
		return nil, util.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	note := "Withdrawal rejected by admin"
	if err := s.withdrawRepo.MarkProcessed(ctx, q, withdrawal.ID, domain.WithdrawalRejected, &note, adminID, now); err != nil {
		return nil, fmt.Errorf("reject withdrawal: %w", err)
	}

	if err := s.commit(tx, "reject withdrawal"); err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalRejected
	withdrawal.Notes = &note
	withdrawal.ProcessedBy = &adminID
	withdrawal.ProcessedAt = &now
	s.notifier.Dispatch(
		"Withdrawal rejected",
		fmt.Sprintf("Your withdrawal request of %s was rejected.", withdrawal.Amount.StringFixed(2)),
		withdrawal.UserID,
	)
	return withdrawal, nil
}
