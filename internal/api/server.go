package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rjoshi/findash/internal/api/handlers"
	"github.com/rjoshi/findash/internal/api/middleware"
	"github.com/rjoshi/findash/internal/config"
	"github.com/rjoshi/findash/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	services *service.Services
	log      zerolog.Logger
}

func NewServer(cfg *config.Config, services *service.Services, log zerolog.Logger) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:   router,
		config:   cfg,
		services: services,
		log:      log,
	}

	server.setupRoutes()

	return server
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.CORS(s.config.CORSOrigins))
	s.router.Use(middleware.RequestLogger(s.log))

	// health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")

	accountHandler := handlers.NewAccountHandler(s.services.Account)
	transactionHandler := handlers.NewTransactionHandler(s.services.Transaction)
	budgetHandler := handlers.NewBudgetHandler(s.services.Budget)
	investmentHandler := handlers.NewInvestmentHandler(s.services.Investment)
	analyticsHandler := handlers.NewAnalyticsHandler(s.services.Analytics)
	importHandler := handlers.NewImportHandler(s.services.Import)

	accounts := api.Group("/accounts")
	{
		accounts.POST("", accountHandler.Create)
		accounts.GET("", accountHandler.List)
		accounts.GET("/:id", accountHandler.GetByID)
		accounts.PUT("/:id", accountHandler.Update)
		accounts.DELETE("/:id", accountHandler.Delete)
	}

	transactions := api.Group("/transactions")
	{
		transactions.POST("", transactionHandler.Create)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/categories", transactionHandler.ListCategories)
		transactions.GET("/:id", transactionHandler.GetByID)
		transactions.PUT("/:id", transactionHandler.Update)
		transactions.DELETE("/:id", transactionHandler.Delete)
	}

	budgets := api.Group("/budgets")
	{
		budgets.POST("", budgetHandler.Create)
		budgets.GET("", budgetHandler.List)
		budgets.GET("/:id", budgetHandler.GetByID)
		budgets.PUT("/:id", budgetHandler.Update)
		budgets.DELETE("/:id", budgetHandler.Delete)
	}

	investments := api.Group("/investments")
	{
		investments.POST("", investmentHandler.Create)
		investments.GET("", investmentHandler.List)
		investments.GET("/portfolio/summary", investmentHandler.PortfolioSummary)
		investments.GET("/search/:query", investmentHandler.Search)
		investments.GET("/:id", investmentHandler.GetByID)
		investments.PUT("/:id", investmentHandler.Update)
		investments.DELETE("/:id", investmentHandler.Delete)
		investments.POST("/:id/refresh-price", investmentHandler.RefreshPrice)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/net-worth", analyticsHandler.GetNetWorth)
		analytics.GET("/cash-flow", analyticsHandler.GetCashFlow)
		analytics.GET("/spending-by-category", analyticsHandler.GetSpendingByCategory)
		analytics.GET("/trend", analyticsHandler.GetMonthlyTrend)
		analytics.GET("/account-balances", analyticsHandler.GetAccountBalances)
		analytics.GET("/dashboard", analyticsHandler.GetDashboardSummary)
	}

	importGroup := api.Group("/import")
	{
		importGroup.POST("/transactions/csv", importHandler.ImportTransactions)
		importGroup.POST("/accounts/csv", importHandler.ImportAccounts)
		importGroup.POST("/investments/csv", importHandler.ImportInvestments)
		importGroup.GET("/templates/transactions", importHandler.TransactionTemplate)
		importGroup.GET("/templates/accounts", importHandler.AccountTemplate)
		importGroup.GET("/templates/investments", importHandler.InvestmentTemplate)
	}
}
