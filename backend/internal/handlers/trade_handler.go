package handlers

import "github.com/gofiber/fiber/v2"

// ListTrades returns the caller's trades in booking order.
func (h *Handler) ListTrades(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	trades := h.Store.ListTradesForUser(userID)
	return respondData(c, fiber.StatusOK, fiber.Map{
		"trades": trades,
		"count":  len(trades),
	})
}

// GetTrade returns one trade by id, scoped to the caller.
func (h *Handler) GetTrade(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	trade, found := h.Store.GetTrade(c.Params("tradeId"))
	if !found || trade.UserID != userID {
		return notFound(c, "Trade not found")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"trade": trade})
}
