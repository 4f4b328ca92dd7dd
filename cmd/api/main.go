package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee-pos/internal/cache"
	"coffee-pos/internal/config"
	"coffee-pos/internal/events"
	"coffee-pos/internal/handler"
	"coffee-pos/internal/middleware"
	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"
	"coffee-pos/internal/service"
	"coffee-pos/internal/ws"
	"coffee-pos/pkg/database"
	"coffee-pos/pkg/jwt"
	"coffee-pos/pkg/logging"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// 1. Load config
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	// 2. Setup Database
	db, err := database.ConnectDB(ctx, cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	// Auto Migrate (use a dedicated migration tool for larger schema changes)
	if err := model.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 3. Realtime hub and event sinks
	wsHub := ws.NewHub(logger)
	go wsHub.Run(ctx)

	publishers := events.Fanout{wsHub}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publishers = append(publishers, kafkaPub)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var reportCache cache.Cache = cache.Nop{}
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedis(cfg.RedisAddr)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, report cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			reportCache = redisCache
		}
	}

	// 4. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	orderRepo := repository.NewOrderRepo(db)

	authService := service.NewAuthService(userRepo, tokens)
	productService := service.NewProductService(productRepo, db)
	inventoryService := service.NewInventoryService(productRepo, inventoryRepo, db, publishers)
	orderService := service.NewOrderService(db, productRepo, inventoryRepo, orderRepo, publishers, cfg.OrderTxTimeout)
	reportService := service.NewReportService(orderRepo, productRepo, reportCache, cfg.ReportCacheTTL)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Order:     handler.NewOrderHandler(orderService),
		Report:    handler.NewReportHandler(reportService),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Coffee POS v1.0",
	})

	// Middleware
	app.Use(recover.New()) // Panic recovery
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New())

	// 6. Routes
	handler.RegisterRoutes(app.Group("/api/v1"), middleware.RequireAuth(userRepo, tokens), handlers)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("close kafka writer", "error", err)
		}
	}
	if redisCache != nil {
		_ = redisCache.Close()
	}
	if err := database.Close(db); err != nil {
		logger.Error("close database", "error", err)
	}

	logger.Info("server exited")
}
