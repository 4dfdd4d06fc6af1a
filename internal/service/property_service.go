// internal/service/property_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/util"
	"propshare-admin/pkg/db"
)

// PropertyInput carries the fields accepted when creating a property.
type PropertyInput struct {
	Name           string
	Location       string
	Area           int64
	Floors         int64
	Rooms          int64
	CurrentPrice   decimal.Decimal
	NumberOfShares int64
}

// PropertyUpdate carries the mutable fields of a listed property. Nil fields
// are left untouched. A price change cascades into the share price and the
// price history.
type PropertyUpdate struct {
	Name         *string
	Location     *string
	Area         *int64
	Floors       *int64
	Rooms        *int64
	CurrentPrice *decimal.Decimal
}

// PropertyService defines the interface for property listing management.
type PropertyService interface {
	CreateProperty(ctx context.Context, input PropertyInput) (*domain.Property, error)
	GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	UpdateProperty(ctx context.Context, propertyID int64, update PropertyUpdate) (*domain.Property, error)
	GetPriceHistory(ctx context.Context, propertyID int64) ([]domain.PricePoint, error)
	ListPendingPurchases(ctx context.Context) ([]domain.PendingShare, error)
	ListPendingSales(ctx context.Context) ([]domain.ShareSale, error)
	ListPendingWithdrawals(ctx context.Context) ([]domain.Withdrawal, error)
}

// propertyService implements the PropertyService interface.
type propertyService struct {
	dbBeginner   db.DBTxBeginner
	dbExecutor   repository.DBExecutor
	propertyRepo repository.PropertyRepository
	purchaseRepo repository.PendingShareRepository
	saleRepo     repository.ShareSaleRepository
	withdrawRepo repository.WithdrawalRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
	logger       *slog.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	propertyRepo repository.PropertyRepository,
	purchaseRepo repository.PendingShareRepository,
	saleRepo repository.ShareSaleRepository,
	withdrawRepo repository.WithdrawalRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) PropertyService {
	return &propertyService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		propertyRepo: propertyRepo,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		withdrawRepo: withdrawRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
		logger:       logger,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, input PropertyInput) (*domain.Property, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.NumberOfShares <= 0 || input.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	property := domain.NewProperty(input.Name, input.Location, input.Area, input.Floors, input.Rooms, input.CurrentPrice, input.NumberOfShares)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create property: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create property: transaction controller does not implement DBExecutor")
	}

	if err := s.propertyRepo.CreateProperty(ctx, txExecutor, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	if err := s.propertyRepo.AddPricePoint(ctx, txExecutor, property.ID, property.CurrentPrice); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create property: failed to commit transaction: %w", err)
	}

	s.logger.Info("property listed", "propertyId", property.ID, "shareId", property.ShareID, "shares", property.NumberOfShares)
	return property, nil
}

func (s *propertyService) GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error) {
	return s.propertyRepo.GetPropertyByID(ctx, s.dbExecutor, propertyID)
}

func (s *propertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.propertyRepo.ListProperties(ctx, s.dbExecutor)
}

func (s *propertyService) UpdateProperty(ctx context.Context, propertyID int64, update PropertyUpdate) (*domain.Property, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update property: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update property: transaction controller does not implement DBExecutor")
	}

	property, err := s.propertyRepo.GetPropertyByIDForUpdate(ctx, txExecutor, propertyID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, util.ErrInvalidInput
		}
		property.Name = name
	}
	if update.Location != nil {
		property.Location = strings.TrimSpace(*update.Location)
	}
	if update.Area != nil {
		property.Area = *update.Area
	}
	if update.Floors != nil {
		property.Floors = *update.Floors
	}
	if update.Rooms != nil {
		property.Rooms = *update.Rooms
	}

	priceChanged := update.CurrentPrice != nil && !update.CurrentPrice.Equal(property.CurrentPrice)
	if priceChanged {
		if update.CurrentPrice.LessThanOrEqual(decimal.Zero) {
			return nil, util.ErrInvalidInput
		}
		property.CurrentPrice = *update.CurrentPrice
		property.SharePrice = domain.PerSharePrice(property.CurrentPrice, property.NumberOfShares)
	}
	property.UpdatedAt = time.Now().UTC()

	if err := s.propertyRepo.UpdateProperty(ctx, txExecutor, property); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	if priceChanged {
		if err := s.propertyRepo.AddPricePoint(ctx, txExecutor, property.ID, property.CurrentPrice); err != nil {
			return nil, fmt.Errorf("update property: %w", err)
		}
	}
	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update property: failed to commit transaction: %w", err)
	}
	return property, nil
}

func (s *propertyService) GetPriceHistory(ctx context.Context, propertyID int64) ([]domain.PricePoint, error) {
	if _, err := s.propertyRepo.GetPropertyByID(ctx, s.dbExecutor, propertyID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListPriceHistory(ctx, s.dbExecutor, propertyID)
}

func (s *propertyService) ListPendingPurchases(ctx context.Context) ([]domain.PendingShare, error) {
	return s.purchaseRepo.ListByStatus(ctx, s.dbExecutor, domain.PendingSharePending)
}

func (s *propertyService) ListPendingSales(ctx context.Context) ([]domain.ShareSale, error) {
	return s.saleRepo.ListByStatus(ctx, s.dbExecutor, domain.ShareSalePending)
}

func (s *propertyService) ListPendingWithdrawals(ctx context.Context) ([]domain.Withdrawal, error) {
	return s.withdrawRepo.ListByStatus(ctx, s.dbExecutor, domain.WithdrawalPending)
}
