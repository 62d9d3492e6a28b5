package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Register mounts every route on the app. The protect handler guards the
// order, trade and portfolio groups; instruments, auth and the quote stream
// stay public.
func (h *Handler) Register(app *fiber.App, protect fiber.Handler) {
	// WebSocket quote feed. The upgrade gate runs before the group handler.
	ws := app.Group("/ws")
	ws.Use("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/quotes", websocket.New(func(conn *websocket.Conn) {
		h.Quotes.Serve(conn)
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Welcome to the Papertrade API",
			"endpoints": fiber.Map{
				"instruments": "/api/v1/instruments",
				"orders":      "/api/v1/orders",
				"trades":      "/api/v1/trades",
				"portfolio":   "/api/v1/portfolio",
			},
		})
	})

	api := app.Group("/api/v1")

	api.Get("/instruments", h.ListInstruments)
	api.Get("/instruments/:id", h.GetInstrument)

	api.Post("/auth/login", h.Login)

	orders := api.Group("/orders", protect)
	orders.Post("/", h.PlaceOrder)
	orders.Get("/", h.ListOrders)
	orders.Get("/:orderId", h.GetOrder)

	trades := api.Group("/trades", protect)
	trades.Get("/", h.ListTrades)
	trades.Get("/:tradeId", h.GetTrade)

	portfolio := api.Group("/portfolio", protect)
	portfolio.Get("/", h.GetPortfolio)
	portfolio.Get("/:symbol", h.GetHolding)

	// Catch-all after every mounted route.
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Route not found")
	})
}
