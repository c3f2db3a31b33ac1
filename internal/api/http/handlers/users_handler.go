package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lifeshare/lifeshare-api/internal/api/dto"
	"github.com/lifeshare/lifeshare-api/internal/auth"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	"github.com/lifeshare/lifeshare-api/internal/service"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var filter repository.UserFilter
	if val := optionalQuery(c, "status"); val != nil {
		status := domain.UserStatus(*val)
		if !status.Valid() {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": *val})
		}
		filter.Status = &status
	}
	if val := optionalQuery(c, "role"); val != nil {
		role := domain.Role(*val)
		if !role.Valid() {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": *val})
		}
		filter.Role = &role
	}

	users, err := h.users.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// Profile handles GET /users/:email.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserProfileResponse(user))
}

// IsAdmin handles GET /users/admin/:email.
func (h *UsersHandler) IsAdmin(c *fiber.Ctx) error {
	ok, err := h.users.HasRole(c.UserContext(), c.Params("email"), domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"admin": ok})
}

// IsVolunteer handles GET /users/volunteer/:email.
func (h *UsersHandler) IsVolunteer(c *fiber.Ctx) error {
	ok, err := h.users.HasRole(c.UserContext(), c.Params("email"), domain.RoleVolunteer)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"volunteer": ok})
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.users.Register(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	if !res.Created() {
		return c.JSON(dto.RegisterResponse{Message: "user already exists"})
	}
	id := res.InsertedID.Hex()
	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{InsertedID: &id})
}

// UpdateProfile handles PATCH /users/:id for the caller's own account.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UserProfileUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.users.UpdateProfile(c.UserContext(), claims.Email, c.Params("id"), req.Profile())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}

// MakeAdmin handles PATCH /users/admin/:id.
func (h *UsersHandler) MakeAdmin(c *fiber.Ctx) error {
	res, err := h.users.SetRole(c.UserContext(), c.Params("id"), domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}

// MakeVolunteer handles PATCH /users/volunteer/:id.
func (h *UsersHandler) MakeVolunteer(c *fiber.Ctx) error {
	res, role, err := h.users.MakeVolunteer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.RoleUpdateResponse{UpdateResponse: dto.NewUpdateResponse(res), Role: role})
}

// Block handles PATCH /users/admin/block/:id.
func (h *UsersHandler) Block(c *fiber.Ctx) error {
	return h.setStatus(c, domain.UserStatusBlocked)
}

// Unblock handles PATCH /users/admin/unblock/:id.
func (h *UsersHandler) Unblock(c *fiber.Ctx) error {
	return h.setStatus(c, domain.UserStatusActive)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	n, err := h.users.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: n})
}

func (h *UsersHandler) setStatus(c *fiber.Ctx, status domain.UserStatus) error {
	res, err := h.users.SetStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}
