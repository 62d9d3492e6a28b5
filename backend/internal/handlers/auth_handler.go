package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoginRequest is the expected JSON body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the demo user and issues a session token that the
// Authorization middleware accepts interchangeably with the static API token.
func (h *Handler) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return badRequest(c, "Username and password cannot be empty")
	}

	if req.Username != h.Demo.Username || !h.Demo.Check(req.Password) {
		return respondError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	token, err := h.Sessions.Issue(h.Demo.UserID, h.Demo.Username)
	if err != nil {
		h.Logger.Error("session token issue failed", zap.String("username", req.Username), zap.Error(err))
		return internalError(c)
	}

	return respondData(c, fiber.StatusOK, fiber.Map{
		"token":    token,
		"userId":   h.Demo.UserID,
		"username": h.Demo.Username,
		"issuedAt": time.Now().UTC(),
	})
}
