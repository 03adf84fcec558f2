package router

import (
	"database/sql"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/events"
	"gym_crm_backend/internal/handlers"
	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, c cache.Cache, publisher events.Publisher, clock services.Clock) {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	staffRepo := repositories.NewStaffRepository(db)

	// The subscription and payment services must share one lock table so
	// renewals and payment mutations for the same client serialize.
	locks := services.NewClientLocker()

	// Initialize Services
	clientService := services.NewClientService(clientRepo, planRepo, paymentRepo, db, c, clock)
	subscriptionService := services.NewSubscriptionService(clientRepo, planRepo, paymentRepo, db, locks, c, publisher, clock)
	paymentService := services.NewPaymentService(paymentRepo, clientRepo, db, locks, c, publisher)
	planService := services.NewPlanService(planRepo, clientRepo, db)
	leadService := services.NewLeadService(leadRepo, db)
	staffService := services.NewStaffService(staffRepo, db)
	statsService := services.NewStatsService(clientRepo, paymentRepo, planRepo, leadRepo, c, clock)

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService, subscriptionService, statsService)
	planHandler := handlers.NewPlanHandler(planService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	leadHandler := handlers.NewLeadHandler(leadService)
	staffHandler := handlers.NewStaffHandler(staffService)
	dashboardHandler := handlers.NewDashboardHandler(statsService)
	reportHandler := handlers.NewReportHandler(statsService)

	apiV1 := engine.Group("/api/v1")

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupClientRoutes(authenticated, clientHandler, paymentHandler)
		SetupPlanRoutes(authenticated, planHandler)
		SetupPaymentRoutes(authenticated, paymentHandler)
		SetupLeadRoutes(authenticated, leadHandler)
		SetupStaffRoutes(authenticated, staffHandler)
		SetupDashboardRoutes(authenticated, dashboardHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}
