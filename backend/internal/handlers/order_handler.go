package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/user/papertrade/backend/internal/engine"
	"github.com/user/papertrade/backend/internal/middleware"
	"github.com/user/papertrade/backend/internal/models"
)

func (h *Handler) userID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// PlaceOrder accepts a new order, validates it and, for market orders,
// executes it immediately.
func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	req := new(engine.PlaceOrderRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}

	order, err := h.Engine.PlaceOrder(userID, *req)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			return badRequest(c, verr.Message)
		}
		h.Logger.Error("order placement failed",
			zap.String("user_id", userID),
			zap.String("symbol", req.Symbol),
			zap.Error(err),
		)
		return internalError(c)
	}

	return respondCreated(c, "Order placed successfully", fiber.Map{"order": order})
}

// ListOrders returns the caller's orders, optionally filtered by exact status.
func (h *Handler) ListOrders(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	orders := h.Store.ListOrdersForUser(userID)
	if status := c.Query("status"); status != "" {
		filtered := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == models.OrderStatus(status) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	return respondData(c, fiber.StatusOK, fiber.Map{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order by id. An order owned by another user is
// indistinguishable from a missing one.
func (h *Handler) GetOrder(c *fiber.Ctx) error {
	userID, ok := h.userID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized: Invalid or missing token")
	}

	order, found := h.Store.GetOrder(c.Params("orderId"))
	if !found || order.UserID != userID {
		return notFound(c, "Order not found")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"order": order})
}
