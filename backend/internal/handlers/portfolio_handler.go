package handlers

import "github.com/gofiber/fiber/v2"

// GetPortfolio returns the caller's enriched holdings and aggregate summary.
func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	holdings, summary := h.Valuation.ValuePortfolio(userID)
	return respondData(c, fiber.StatusOK, fiber.Map{
		"holdings": holdings,
		"summary":  summary,
	})
}

// GetHolding returns one enriched holding by symbol, case-insensitively.
func (h *Handler) GetHolding(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	holding, found := h.Valuation.HoldingBySymbol(userID, c.Params("symbol"))
	if !found {
		return notFound(c, "Holding not found for this symbol")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"holding": holding})
}
