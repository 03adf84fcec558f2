package router

import (
	"gym_crm_backend/internal/handlers"
	"gym_crm_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes.
// The filter and birthdays routes are registered before /:id so gin does not
// treat "filter" as a client ID.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler, paymentHandler *handlers.PaymentHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	clientRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Receptionist"))
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/filter", clientHandler.FilterClients)
		clientRoutes.GET("/birthdays/today", clientHandler.BirthdaysToday)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
		clientRoutes.POST("/:id/renew", clientHandler.RenewSubscription)
		clientRoutes.GET("/:id/balance", paymentHandler.GetClientBalance)
	}
}

// SetupPlanRoutes sets up the plan routes. Plan changes are Admin/Manager only.
func SetupPlanRoutes(authenticatedGroup *gin.RouterGroup, planHandler *handlers.PlanHandler) {
	planRoutes := authenticatedGroup.Group("/plans")
	planRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		planRoutes.POST("", planHandler.CreatePlan)
		planRoutes.GET("", planHandler.GetPlans)
		planRoutes.GET("/:id", planHandler.GetPlanByID)
		planRoutes.PUT("/:id", planHandler.UpdatePlan)
		planRoutes.DELETE("/:id", planHandler.DeletePlan)
	}
}

// SetupPaymentRoutes sets up the payment routes.
func SetupPaymentRoutes(authenticatedGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	paymentRoutes := authenticatedGroup.Group("/payments")
	paymentRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Receptionist"))
	{
		paymentRoutes.POST("", paymentHandler.RecordPayment)
		paymentRoutes.GET("", paymentHandler.GetPayments)
		paymentRoutes.PUT("/:id", paymentHandler.UpdatePayment)
		paymentRoutes.DELETE("/:id", paymentHandler.DeletePayment)
	}
}

// SetupLeadRoutes sets up the lead routes.
func SetupLeadRoutes(authenticatedGroup *gin.RouterGroup, leadHandler *handlers.LeadHandler) {
	leadRoutes := authenticatedGroup.Group("/leads")
	leadRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Receptionist"))
	{
		leadRoutes.POST("", leadHandler.CreateLead)
		leadRoutes.GET("", leadHandler.GetLeads)
		leadRoutes.DELETE("/:id", leadHandler.DeleteLead)
	}
}

// SetupStaffRoutes sets up the staff routes. Writes are Admin only.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staffs")
	staffRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		staffRoutes.GET("", staffHandler.GetStaffMembers)

		adminOnly := staffRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("Admin"))
		{
			adminOnly.POST("", staffHandler.CreateStaffMember)
			adminOnly.PUT("/:id", staffHandler.UpdateStaffMember)
			adminOnly.DELETE("/:id", staffHandler.DeleteStaffMember)
		}
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Receptionist"))
	{
		dashboardRoutes.GET("/stats", dashboardHandler.GetStats)
		dashboardRoutes.GET("/due-members", dashboardHandler.GetDueMembers)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		reportRoutes.GET("/revenue", reportHandler.GetRevenue)
		reportRoutes.GET("/client-growth", reportHandler.GetClientGrowth)
		reportRoutes.GET("/revenue-by-plan", reportHandler.GetRevenueByPlan)
		reportRoutes.GET("/plan-distribution", reportHandler.GetPlanDistribution)
		reportRoutes.GET("/payment-methods", reportHandler.GetPaymentMethods)
		reportRoutes.GET("/membership-status", reportHandler.GetMembershipStatus)
		reportRoutes.GET("/age-distribution", reportHandler.GetAgeDistribution)
		reportRoutes.GET("/gender-distribution", reportHandler.GetGenderDistribution)
	}
}
