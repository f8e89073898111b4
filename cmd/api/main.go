package main

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cryptodca/portfolio-api/internal/config"
	"github.com/cryptodca/portfolio-api/internal/database"
	"github.com/cryptodca/portfolio-api/internal/middleware"
	"github.com/cryptodca/portfolio-api/internal/repository"
	"github.com/cryptodca/portfolio-api/internal/scheduler"
	"github.com/cryptodca/portfolio-api/internal/server"
	"github.com/cryptodca/portfolio-api/internal/services"
)

func main() {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("error al inicializar la base de datos: %v", err)
	}
	defer db.Close()

	// Repositorios
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	bolsaRepo := repository.NewBolsaRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Clientes de mercado y servicios
	markets := services.NewMarketClient(cfg)
	athFeed := services.NewATHClient(cfg)
	portfolioSrv := services.NewPortfolioService(transactionRepo, markets, athFeed)
	bolsaSrv := services.NewBolsaService(bolsaRepo, markets)
	snapshotSrv := services.NewSnapshotService(userRepo, snapshotRepo, portfolioSrv)
	reportSrv := services.NewReportService()
	mailer := services.NewEmailService(cfg.SMTP)

	// Handlers
	clerkAuth := middleware.NewClerkAuth(cfg.Clerk, userRepo, logger)
	auth := middleware.NewAuth(cfg.Auth, userRepo, mailer, clerkAuth, logger)
	handlers := server.Handlers{
		Auth:         auth,
		Clerk:        clerkAuth,
		Admin:        middleware.NewAdmin(cfg.Auth.AdminSecretKey, userRepo),
		Users:        middleware.NewUserHandler(userRepo),
		Transactions: middleware.NewTransactionHandler(transactionRepo, markets, portfolioSrv, reportSrv, logger),
		Dashboard:    middleware.NewDashboardHandler(portfolioSrv, snapshotSrv, logger),
		Bolsas:       middleware.NewBolsaHandler(bolsaRepo, bolsaSrv, logger),
	}

	// Job de snapshots del valor del portafolio
	jobs := scheduler.New()
	jobs.NewIntervalJob("investment snapshots", snapshotSrv.CaptureAll, cfg.Jobs.SnapshotInterval, true)
	jobs.Start()
	defer jobs.Stop()

	// Router
	router := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Admin-Key"}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	server.RegisterRoutes(router, handlers)

	logger.Info("servidor iniciado", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("error al iniciar el servidor: %v", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
