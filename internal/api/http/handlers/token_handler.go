package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lifeshare/lifeshare-api/internal/api/dto"
	"github.com/lifeshare/lifeshare-api/internal/service"
)

// TokenHandler issues identity tokens.
type TokenHandler struct {
	auth *service.AuthService
}

// NewTokenHandler constructs handler.
func NewTokenHandler(authService *service.AuthService) *TokenHandler {
	return &TokenHandler{auth: authService}
}

// Issue handles POST /jwt.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	token, err := h.auth.IssueToken(req.Identity())
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token.Value})
}
