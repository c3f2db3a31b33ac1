package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lifeshare/lifeshare-api/internal/api/dto"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/service"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

// BlogsHandler exposes blog endpoints.
type BlogsHandler struct {
	blogs *service.BlogService
}

// NewBlogsHandler constructs handler.
func NewBlogsHandler(blogs *service.BlogService) *BlogsHandler {
	return &BlogsHandler{blogs: blogs}
}

// List handles GET /blogs.
func (h *BlogsHandler) List(c *fiber.Ctx) error {
	var status *domain.BlogStatus
	if val := optionalQuery(c, "status"); val != nil {
		s := domain.BlogStatus(*val)
		if !s.Valid() {
			return apperrors.NewValidationError("unknown blog status", map[string]any{"status": *val})
		}
		status = &s
	}

	blogs, err := h.blogs.List(c.UserContext(), status)
	if err != nil {
		return err
	}
	return c.JSON(blogs)
}

// Get handles GET /blogs/:id.
func (h *BlogsHandler) Get(c *fiber.Ctx) error {
	blog, err := h.blogs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(blog)
}

// Create handles POST /blogs.
func (h *BlogsHandler) Create(c *fiber.Ctx) error {
	var body dto.BlogCreateRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}

	blog, err := h.blogs.Create(c.UserContext(), body.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.InsertResponse{InsertedID: blog.ID.Hex()})
}

// Publish handles PUT /blogs/:id/publish.
func (h *BlogsHandler) Publish(c *fiber.Ctx) error {
	res, err := h.blogs.Publish(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}

// Unpublish handles PUT /blogs/:id/unpublish.
func (h *BlogsHandler) Unpublish(c *fiber.Ctx) error {
	res, err := h.blogs.Unpublish(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}

// Delete handles DELETE /blogs/:id.
func (h *BlogsHandler) Delete(c *fiber.Ctx) error {
	n, err := h.blogs.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: n})
}
