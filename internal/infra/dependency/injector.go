// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/category"
	"github.com/budget-tracker/backend/internal/application/usecase/recurrence"
	"github.com/budget-tracker/backend/internal/application/usecase/report"
	"github.com/budget-tracker/backend/internal/application/usecase/share"
	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
	"github.com/budget-tracker/backend/internal/application/usecase/wallet"
	"github.com/budget-tracker/backend/internal/infra/server/router"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/budget-tracker/backend/internal/integration/event"
	"github.com/budget-tracker/backend/internal/integration/lock"
	"github.com/budget-tracker/backend/internal/integration/persistence"
)

// amqpDialAttempts bounds the broker connection retries at startup.
const amqpDialAttempts = 5

// Externals holds the optional connections to Redis and the message broker.
type Externals struct {
	Redis     *redis.Client
	Locker    adapter.Locker
	Publisher adapter.EventPublisher
	amqp      *event.AMQPPublisher
}

// ConnectExternals connects to the services configured in cfg. Redis backs the batch
// lock and AMQP carries applied-recurrence events; either is skipped when its URL is
// empty.
func ConnectExternals(ctx context.Context, cfg *config.Config) (*Externals, error) {
	ext := &Externals{Publisher: event.NoopPublisher{}}

	if cfg.Redis.URL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		ext.Redis = client
		ext.Locker = lock.NewRedisLocker(client)
	} else {
		slog.Warn("REDIS_URL not set, recurring batch runs without a distributed lock")
	}

	if cfg.AMQP.URL != "" {
		publisher, err := event.DialWithRetry(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, amqpDialAttempts)
		if err != nil {
			_ = ext.Close()
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		ext.amqp = publisher
		ext.Publisher = publisher
	}

	return ext, nil
}

// LockHealthChecker returns a Redis ping check, or nil when Redis is not configured.
func (e *Externals) LockHealthChecker() func() bool {
	if e.Redis == nil {
		return nil
	}
	return func() bool {
		return e.Redis.Ping(context.Background()).Err() == nil
	}
}

// Close releases the connections.
func (e *Externals) Close() error {
	var errs []error
	if e.amqp != nil {
		errs = append(errs, e.amqp.Close())
	}
	if e.Redis != nil {
		errs = append(errs, e.Redis.Close())
	}
	return errors.Join(errs...)
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Router      *router.Router
	BatchRunner *recurrence.RunDueRecurrencesUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, ext *Externals, clock adapter.Clock) *Injector {
	if ext == nil {
		ext = &Externals{Publisher: event.NoopPublisher{}}
	}
	if clock == nil {
		clock = adapter.SystemClock{}
	}

	// Create repositories
	walletRepo := persistence.NewWalletRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	recurrenceRepo := persistence.NewRecurrenceRepository(db)
	shareRepo := persistence.NewWalletShareRepository(db)
	reportRepo := persistence.NewReportRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Create wallet use cases
	createWalletUseCase := wallet.NewCreateWalletUseCase(walletRepo, cfg.Wallet.MaxPerUser)
	listWalletsUseCase := wallet.NewListWalletsUseCase(walletRepo)
	getWalletUseCase := wallet.NewGetWalletUseCase(walletRepo)
	updateWalletUseCase := wallet.NewUpdateWalletUseCase(walletRepo)
	deleteWalletUseCase := wallet.NewDeleteWalletUseCase(walletRepo)
	verifyBalanceUseCase := wallet.NewVerifyBalanceUseCase(walletRepo, transactionRepo)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo, walletRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo, walletRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo, walletRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, walletRepo)

	// Create sharing use cases
	inviteToWalletUseCase := share.NewInviteToWalletUseCase(walletRepo, shareRepo)
	listSharesUseCase := share.NewListSharesUseCase(walletRepo, shareRepo)
	removeAccessUseCase := share.NewRemoveAccessUseCase(walletRepo, shareRepo)
	listInvitationsUseCase := share.NewListInvitationsUseCase(walletRepo, shareRepo)
	respondToInvitationUseCase := share.NewRespondToInvitationUseCase(shareRepo)

	// Create report use cases
	summaryUseCase := report.NewGetSummaryUseCase(reportRepo, walletRepo, categoryRepo)
	byCategoryUseCase := report.NewGetByCategoryUseCase(reportRepo, walletRepo, categoryRepo)
	trendsUseCase := report.NewGetTrendsUseCase(reportRepo, walletRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo, walletRepo, categoryRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, walletRepo, categoryRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, walletRepo, categoryRepo)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo, walletRepo)

	// Create recurrence use cases
	listRecurrencesUseCase := recurrence.NewListRecurrencesUseCase(recurrenceRepo, walletRepo)
	getRecurrenceUseCase := recurrence.NewGetRecurrenceUseCase(recurrenceRepo, walletRepo)
	createRecurrenceUseCase := recurrence.NewCreateRecurrenceUseCase(recurrenceRepo, walletRepo, categoryRepo, clock)
	updateRecurrenceUseCase := recurrence.NewUpdateRecurrenceUseCase(recurrenceRepo, walletRepo, categoryRepo, clock)
	deleteRecurrenceUseCase := recurrence.NewDeleteRecurrenceUseCase(recurrenceRepo, walletRepo)
	applyRecurrenceUseCase := recurrence.NewApplyRecurrenceUseCase(recurrenceRepo, ext.Publisher, clock)
	runDueRecurrencesUseCase := recurrence.NewRunDueRecurrencesUseCase(
		recurrenceRepo,
		applyRecurrenceUseCase,
		ext.Locker,
		clock,
		recurrence.RunDueRecurrencesConfig{
			Concurrency: cfg.Recurring.Concurrency,
			LockTTL:     cfg.Recurring.LockTTL,
		},
	)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, ext.LockHealthChecker())

	walletController := controller.NewWalletController(
		createWalletUseCase,
		listWalletsUseCase,
		getWalletUseCase,
		updateWalletUseCase,
		deleteWalletUseCase,
		verifyBalanceUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)

	recurrenceController := controller.NewRecurrenceController(
		listRecurrencesUseCase,
		getRecurrenceUseCase,
		createRecurrenceUseCase,
		updateRecurrenceUseCase,
		deleteRecurrenceUseCase,
	)

	shareController := controller.NewShareController(
		inviteToWalletUseCase,
		listSharesUseCase,
		removeAccessUseCase,
		listInvitationsUseCase,
		respondToInvitationUseCase,
	)

	reportController := controller.NewReportController(
		summaryUseCase,
		byCategoryUseCase,
		trendsUseCase,
	)

	cronController := controller.NewCronController(runDueRecurrencesUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var cronRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		cronRateLimiter = middleware.NewRateLimiter(1000, cfg.Recurring.TriggerWindow)
	} else {
		cronRateLimiter = middleware.NewRateLimiter(cfg.Recurring.TriggerLimit, cfg.Recurring.TriggerWindow)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		walletController,
		categoryController,
		transactionController,
		recurrenceController,
		shareController,
		reportController,
		cronController,
		cronRateLimiter,
		cfg.Recurring.CronSecret,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Router:      r,
		BatchRunner: runDueRecurrencesUseCase,
	}
}
