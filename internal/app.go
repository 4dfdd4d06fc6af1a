// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "propshare-admin/internal/api"
	"propshare-admin/internal/api/handler"
	"propshare-admin/internal/auth"
	"propshare-admin/internal/config"
	"propshare-admin/internal/notify"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/repository/postgres"
	"propshare-admin/internal/service"
	"propshare-admin/internal/util"
	"propshare-admin/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository             repository.UserRepository
	PropertyRepository         repository.PropertyRepository
	HoldingRepository          repository.HoldingRepository
	PendingShareRepository     repository.PendingShareRepository
	ShareSaleRepository        repository.ShareSaleRepository
	WithdrawalRepository       repository.WithdrawalRepository
	TransactionRepository      repository.TransactionRepository
	RentDistributionRepository repository.RentDistributionRepository
	NotificationRepository     repository.NotificationRepository

	// Services
	SettlementService   service.SettlementService
	AccountService      service.AccountService
	PropertyService     service.PropertyService
	NotificationService service.NotificationService

	// Supporting components
	TokenManager *auth.TokenManager
	Notifier     *notify.Notifier

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply schema
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.PropertyRepository = postgres.NewPropertyRepository(app.DB)
	app.HoldingRepository = postgres.NewHoldingRepository(app.DB)
	app.PendingShareRepository = postgres.NewPendingShareRepository(app.DB)
	app.ShareSaleRepository = postgres.NewShareSaleRepository(app.DB)
	app.WithdrawalRepository = postgres.NewWithdrawalRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.RentDistributionRepository = postgres.NewRentDistributionRepository(app.DB)
	app.NotificationRepository = postgres.NewNotificationRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Supporting components
	app.TokenManager = auth.NewTokenManager(app.Config.JWTSecret, app.Config.JWTIssuer, app.Config.JWTTTL)
	app.Notifier = notify.NewNotifier(notify.NewLogSender(app.Logger), app.Logger)

	// 6. Initialize Services
	app.SettlementService = service.NewSettlementService(
		app.DB,
		app.UserRepository,
		app.PropertyRepository,
		app.HoldingRepository,
		app.PendingShareRepository,
		app.ShareSaleRepository,
		app.WithdrawalRepository,
		app.TransactionRepository,
		app.RentDistributionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Notifier,
		app.Logger,
	)
	app.AccountService = service.NewAccountService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.TransactionRepository,
		app.HoldingRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.PropertyService = service.NewPropertyService(
		app.DB,
		app.DB,
		app.PropertyRepository,
		app.PendingShareRepository,
		app.ShareSaleRepository,
		app.WithdrawalRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.NotificationService = service.NewNotificationService(
		app.DB,
		app.NotificationRepository,
		app.Notifier,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(app.AccountService, app.TokenManager, app.Logger),
		Settlement:   handler.NewSettlementHandler(app.SettlementService, app.Logger),
		Account:      handler.NewAccountHandler(app.AccountService, app.Logger),
		Property:     handler.NewPropertyHandler(app.PropertyService, app.Logger),
		Notification: handler.NewNotificationHandler(app.NotificationService, app.Logger),
	}
	app.HTTPHandler = router.NewRouter(handlers, app.TokenManager, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
