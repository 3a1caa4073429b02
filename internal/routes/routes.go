// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"pos-service/internal/config"
	"pos-service/internal/database"
	"pos-service/internal/handler"
	"pos-service/internal/middleware"
	"pos-service/internal/printer"
	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config           *config.Config
	logger           *zap.Logger
	db               *database.DB
	transport        *printer.Transport
	saleService      *service.SaleService
	printService     *service.PrintService
	catalogService   *service.CatalogService
	customerService  *service.CustomerService
	settingsService  *service.SettingsService
	websocketHandler *handler.WebSocketHandler
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	transport *printer.Transport,
	saleService *service.SaleService,
	printService *service.PrintService,
	catalogService *service.CatalogService,
	customerService *service.CustomerService,
	settingsService *service.SettingsService,
	websocketHandler *handler.WebSocketHandler,
) *Router {
	return &Router{
		config:           config,
		logger:           logger,
		db:               db,
		transport:        transport,
		saleService:      saleService,
		printService:     printService,
		catalogService:   catalogService,
		customerService:  customerService,
		settingsService:  settingsService,
		websocketHandler: websocketHandler,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	// Set Gin mode
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Create Gin engine
	router := gin.New()

	// Add middleware
	r.addMiddleware(router)

	// Add routes
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(middleware.RecoveryMiddleware(r.logger))

	// Request ID middleware
	router.Use(middleware.RequestIDMiddleware())

	// Logging middleware
	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	// CORS middleware
	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	// Create handlers
	healthHandler := handler.NewHealthHandler(r.db, r.transport, r.config, r.logger)
	saleHandler := handler.NewSaleHandler(r.saleService, r.printService, r.logger)
	printHandler := handler.NewPrintHandler(r.printService, r.logger)
	catalogHandler := handler.NewCatalogHandler(r.catalogService, r.logger)
	customerHandler := handler.NewCustomerHandler(r.customerService, r.logger)
	settingsHandler := handler.NewSettingsHandler(r.settingsService, r.logger)

	// Health check routes (no auth required)
	root := router.Group("")
	healthHandler.RegisterRoutes(root)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	saleHandler.RegisterRoutes(apiV1)
	printHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	customerHandler.RegisterRoutes(apiV1)
	settingsHandler.RegisterRoutes(apiV1)

	// WebSocket routes
	ws := router.Group("/ws")
	r.websocketHandler.RegisterRoutes(ws)

	// Documentation routes
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Swagger redirect for convenience
	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
