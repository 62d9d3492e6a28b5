package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/papertrade/backend/internal/auth"
	"github.com/user/papertrade/backend/internal/catalog"
	"github.com/user/papertrade/backend/internal/config"
	"github.com/user/papertrade/backend/internal/engine"
	"github.com/user/papertrade/backend/internal/handlers"
	"github.com/user/papertrade/backend/internal/ledger"
	"github.com/user/papertrade/backend/internal/middleware"
	"github.com/user/papertrade/backend/internal/models"
	"github.com/user/papertrade/backend/internal/stream"
	"github.com/user/papertrade/backend/internal/valuation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// Prices go over the wire as JSON numbers, matching decimal seed data.
	decimal.MarshalJSONWithoutQuotes = true

	cat := catalog.NewDefault()
	store := ledger.New()
	seedDemoHoldings(store, cfg.DemoUserID)

	eng := engine.New(cat, store, logger)
	val := valuation.New(cat, store)

	sessions := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	demo, err := auth.NewCredentials(cfg.DemoUserID, cfg.DemoUsername, cfg.DemoPassword)
	if err != nil {
		logger.Fatal("demo credentials", zap.Error(err))
	}
	apiTokens := auth.NewStaticTokens(map[string]string{cfg.AuthToken: cfg.DemoUserID})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quotes := stream.NewHub(cat, logger, cfg.QuoteInterval)
	go quotes.Run(ctx)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(logger))

	h := handlers.New(cat, store, eng, val, sessions, demo, quotes, logger)
	h.Register(app, middleware.Protected(apiTokens, sessions))

	go func() {
		logger.Info("http listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("http", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// seedDemoHoldings installs the demo user's starting positions.
func seedDemoHoldings(store *ledger.Store, userID string) {
	price := decimal.RequireFromString
	store.SeedHoldings(userID, []models.Holding{
		{Symbol: "RELIANCE", Quantity: 10, AveragePrice: price("2400.00")},
		{Symbol: "TCS", Quantity: 5, AveragePrice: price("3800.00")},
		{Symbol: "INFY", Quantity: 15, AveragePrice: price("1500.00")},
	})
}
