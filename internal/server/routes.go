package server

import (
	"github.com/gin-gonic/gin"

	"github.com/cryptodca/portfolio-api/internal/middleware"
)

// Handlers agrupa todos los handlers que las rutas necesitan
type Handlers struct {
	Auth         *middleware.Auth
	Clerk        *middleware.ClerkAuth
	Admin        *middleware.Admin
	Users        *middleware.UserHandler
	Transactions *middleware.TransactionHandler
	Dashboard    *middleware.DashboardHandler
	Bolsas       *middleware.BolsaHandler
}

// RegisterRoutes registra todas las rutas de la API sobre el router
func RegisterRoutes(router *gin.Engine, h Handlers) {
	// Rutas públicas
	router.POST("/signup", h.Auth.Signup)
	router.POST("/login", h.Auth.Login)
	router.POST("/request-reset-password", h.Auth.RequestResetPassword)
	router.POST("/reset-password", h.Auth.ResetPassword)
	router.POST("/webhooks/clerk", h.Clerk.WebhookHandler)

	router.POST("/logout", h.Auth.Middleware(), h.Auth.Logout)

	// Rutas protegidas por token
	protected := router.Group("/")
	protected.Use(h.Auth.Middleware())
	{
		protected.PUT("/users", h.Users.Update)
		protected.DELETE("/users", h.Users.Delete)

		protected.POST("/transactions", h.Transactions.Create)
		protected.GET("/transactions", h.Transactions.List)
		protected.GET("/transactions/export", h.Transactions.Export)
		protected.GET("/transactions/:id", h.Transactions.GetByID)
		protected.PUT("/transactions/:id", h.Transactions.Update)
		protected.DELETE("/transactions/:id", h.Transactions.Delete)
		protected.DELETE("/transactions/ticker/:ticker", h.Transactions.DeleteByTicker)
		protected.GET("/recent-transactions", h.Transactions.Recent)

		protected.GET("/dashboard", h.Dashboard.GetDashboard)
		protected.GET("/dashboard/ath", h.Dashboard.GetDashboardATH)
		protected.GET("/holdings", h.Dashboard.GetHoldings)
		protected.GET("/current-balance", h.Dashboard.GetCurrentBalance)
		protected.GET("/performance", h.Dashboard.GetPerformance)
		protected.GET("/investment-history", h.Dashboard.GetInvestmentHistory)
		protected.POST("/snapshots", h.Dashboard.ForceSnapshot)

		protected.POST("/bolsas", h.Bolsas.Create)
		protected.GET("/bolsas", h.Bolsas.List)
		protected.GET("/bolsas/:id", h.Bolsas.GetByID)
		protected.PUT("/bolsas/:id", h.Bolsas.Update)
		protected.DELETE("/bolsas/:id", h.Bolsas.Delete)
		protected.POST("/bolsas/:id/assets", h.Bolsas.AddAsset)
		protected.PUT("/bolsas/:id/assets/:assetId", h.Bolsas.UpdateAsset)
		protected.DELETE("/bolsas/:id/assets/:assetId", h.Bolsas.DeleteAsset)
		protected.POST("/bolsas/:id/tags", h.Bolsas.AddTags)
		protected.DELETE("/bolsas/:id/tags/:tag", h.Bolsas.RemoveTag)
		protected.GET("/bolsas/tags/:tag", h.Bolsas.ListByTag)
	}

	// Rutas de administración
	admin := router.Group("/admin")
	admin.Use(h.Admin.Middleware())
	{
		admin.GET("/users", h.Admin.GetUsers)
		admin.GET("/users/:id", h.Admin.GetUser)
		admin.GET("/users/email/:email", h.Admin.GetUserByEmail)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)
	}
}
