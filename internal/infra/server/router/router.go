// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
)

// CronRoute is the path external schedulers call to run the recurring batch.
const CronRoute = "/api/cron/process-recurring-transactions"

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	walletController      *controller.WalletController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	recurrenceController  *controller.RecurrenceController
	shareController       *controller.ShareController
	reportController      *controller.ReportController
	cronController        *controller.CronController
	cronRateLimiter       *middleware.RateLimiter
	cronSecret            string
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	walletController *controller.WalletController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	recurrenceController *controller.RecurrenceController,
	shareController *controller.ShareController,
	reportController *controller.ReportController,
	cronController *controller.CronController,
	cronRateLimiter *middleware.RateLimiter,
	cronSecret string,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		walletController:      walletController,
		categoryController:    categoryController,
		transactionController: transactionController,
		recurrenceController:  recurrenceController,
		shareController:       shareController,
		reportController:      reportController,
		cronController:        cronController,
		cronRateLimiter:       cronRateLimiter,
		cronSecret:            cronSecret,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupCronRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupCronRoutes exposes the batch trigger. Both verbs are accepted since hosted
// cron services differ in which one they send.
func (r *Router) setupCronRoutes() {
	if r.cronController == nil {
		return
	}

	handlers := []gin.HandlerFunc{}
	if r.cronRateLimiter != nil {
		handlers = append(handlers, r.cronRateLimiter.Middleware())
	}
	handlers = append(handlers, middleware.CronSecret(r.cronSecret), r.cronController.ProcessRecurring)

	r.engine.GET(CronRoute, handlers...)
	r.engine.POST(CronRoute, handlers...)
}

// setupAPIRoutes configures the main API routes. Every route requires authentication.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	if r.walletController != nil {
		wallets := v1.Group("/wallets")
		{
			wallets.GET("", r.walletController.List)
			wallets.POST("", r.walletController.Create)
			wallets.GET("/:id", r.walletController.Get)
			wallets.PATCH("/:id", r.walletController.Update)
			wallets.DELETE("/:id", r.walletController.Delete)
			wallets.GET("/:id/balance-check", r.walletController.VerifyBalance)
		}
	}

	if r.categoryController != nil {
		v1.GET("/wallets/:id/categories", r.categoryController.List)
		v1.POST("/wallets/:id/categories", r.categoryController.Create)

		categories := v1.Group("/categories")
		{
			categories.PATCH("/:id", r.categoryController.Update)
			categories.DELETE("/:id", r.categoryController.Delete)
		}
	}

	if r.shareController != nil {
		v1.GET("/wallets/:id/shares", r.shareController.List)
		v1.POST("/wallets/:id/shares", r.shareController.Invite)
		v1.DELETE("/wallets/:id/shares/:shareId", r.shareController.Remove)

		invitations := v1.Group("/invitations")
		{
			invitations.GET("", r.shareController.ListInvitations)
			invitations.POST("/:id/respond", r.shareController.Respond)
		}
	}

	if r.reportController != nil {
		reports := v1.Group("/wallets/:id/reports")
		{
			reports.GET("/summary", r.reportController.Summary)
			reports.GET("/by-category", r.reportController.ByCategory)
			reports.GET("/trends", r.reportController.Trends)
		}
	}

	if r.transactionController != nil {
		v1.GET("/wallets/:id/transactions", r.transactionController.List)
		v1.POST("/wallets/:id/transactions", r.transactionController.Create)

		transactions := v1.Group("/transactions")
		{
			transactions.PATCH("/:id", r.transactionController.Update)
			transactions.DELETE("/:id", r.transactionController.Delete)
		}
	}

	if r.recurrenceController != nil {
		v1.GET("/wallets/:id/recurring-transactions", r.recurrenceController.List)
		v1.POST("/wallets/:id/recurring-transactions", r.recurrenceController.Create)

		recurring := v1.Group("/recurring-transactions")
		{
			recurring.GET("/:id", r.recurrenceController.Get)
			recurring.PATCH("/:id", r.recurrenceController.Update)
			recurring.DELETE("/:id", r.recurrenceController.Delete)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
