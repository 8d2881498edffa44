package main

import (
	"tokoproduk/internal/config"
	"tokoproduk/internal/handlers"
	"tokoproduk/internal/middleware"
	"tokoproduk/internal/repositories"
	"tokoproduk/internal/services"
	"tokoproduk/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the HTTP app is built from.
// Publisher may be nil, in which case no product events are sent.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Publisher services.EventPublisher
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(deps Dependencies) *fiber.App {
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	productService := services.NewProductService(productRepo, deps.Publisher, deps.Metrics, deps.Logger)

	productHandler := handlers.NewProductHandler(productService, deps.Logger, deps.Config.EmptyListNotFound)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(deps.Logger),
	})

	// Metrics must wrap RequestLogger so it sees the final status.
	app.Use(middleware.Metrics(deps.Metrics))
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(recover.New())

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	productHandler.RegisterRoutes(app)

	return app
}
