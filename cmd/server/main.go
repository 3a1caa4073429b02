// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pos-service/internal/config"
	"pos-service/internal/database"
	"pos-service/internal/discovery"
	"pos-service/internal/handler"
	"pos-service/internal/printer"
	"pos-service/internal/repository"
	"pos-service/internal/routes"
	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	// Printer plumbing
	transport *printer.Transport
	formatter *printer.DocumentFormatter
	scanner   *discovery.PortScanner

	// Services
	saleService     *service.SaleService
	printService    *service.PrintService
	catalogService  *service.CatalogService
	customerService *service.CustomerService
	settingsService *service.SettingsService

	// Repositories
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	catalogRepo  repository.CatalogRepository
	fleetRepo    repository.FleetRepository
	settingsRepo repository.SettingsRepository

	// WebSocket event fan-out
	websocketHandler *handler.WebSocketHandler
}

// @title POS Service API
// @version 1.0.0
// @description Point of sale service for materials and delivery businesses with thermal receipt printing
// @termsOfService http://swagger.io/terms/

// @contact.name POS Service API Support
// @contact.email support@posservice.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1
func main() {
	// Initialize application
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Start the application
	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Create service logger
	serviceLogger := utils.NewServiceLogger(logger, "pos-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	// Initialize components
	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := app.initializePrinter(); err != nil {
		return nil, fmt.Errorf("failed to initialize printer transport: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeDatabase sets up database connection and runs migrations
func (app *Application) initializeDatabase() error {
	// Create database connection
	db, err := database.NewConnection(app.config, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	app.database = db

	// Run migrations
	migrator := database.NewMigrator(db, app.logger, &app.config.Database)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeRepositories creates repository instances
func (app *Application) initializeRepositories() error {
	app.saleRepo = repository.NewSaleRepository(app.database, app.logger)
	app.customerRepo = repository.NewCustomerRepository(app.database, app.logger)
	app.catalogRepo = repository.NewCatalogRepository(app.database, app.logger)
	app.fleetRepo = repository.NewFleetRepository(app.database, app.logger)
	app.settingsRepo = repository.NewSettingsRepository(app.database, app.logger)

	app.logger.Info("Repositories initialized successfully")
	return nil
}

// initializePrinter sets up the printer transport, formatter and scanner
func (app *Application) initializePrinter() error {
	app.transport = printer.NewTransport(app.config.Printer.PaperWidth, app.logger)
	app.formatter = printer.NewDocumentFormatter(app.config.Printer.PaperWidth)
	app.scanner = discovery.NewPortScanner(app.logger)

	app.logger.Info("Printer transport initialized",
		zap.Int("paper_width", app.config.Printer.PaperWidth),
	)
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	app.saleService = service.NewSaleService(
		app.saleRepo,
		app.customerRepo,
		app.catalogRepo,
		app.settingsRepo,
		app.logger,
	)

	app.printService = service.NewPrintService(
		app.transport,
		app.formatter,
		app.scanner,
		app.saleRepo,
		app.customerRepo,
		app.settingsRepo,
		app.config,
		app.logger,
	)

	app.catalogService = service.NewCatalogService(app.catalogRepo, app.logger)

	app.customerService = service.NewCustomerService(
		app.customerRepo,
		app.fleetRepo,
		app.logger,
	)

	app.settingsService = service.NewSettingsService(app.settingsRepo, app.logger)

	// WebSocket handler doubles as the printer event publisher
	app.websocketHandler = handler.NewWebSocketHandler(app.logger)
	app.printService.SetEventPublisher(app.websocketHandler)

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	// Create router
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.transport,
		app.saleService,
		app.printService,
		app.catalogService,
		app.customerService,
		app.settingsService,
		app.websocketHandler,
	)

	// Setup router with all routes
	router := routerManager.SetupRouter()

	// Create HTTP server
	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
	)

	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	// Create channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for signal
	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform graceful shutdown
	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "pos-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// Release the printer channel
	app.transport.Disconnect()

	// Close database connection
	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	// Flush logger
	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}

	app.logger.Info("Application shutdown completed")
}

func (app *Application) Start() error {
	// Start server in goroutine
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()

	return nil
}
