package handlers

import "github.com/gofiber/fiber/v2"

// ListInstruments returns the full instrument universe.
func (h *Handler) ListInstruments(c *fiber.Ctx) error {
	instruments := h.Catalog.ListAll()
	return respondData(c, fiber.StatusOK, fiber.Map{
		"instruments": instruments,
		"count":       len(instruments),
	})
}

// GetInstrument returns one instrument by its identifier.
func (h *Handler) GetInstrument(c *fiber.Ctx) error {
	inst, ok := h.Catalog.ByID(c.Params("id"))
	if !ok {
		return notFound(c, "Instrument not found")
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"instrument": inst})
}
