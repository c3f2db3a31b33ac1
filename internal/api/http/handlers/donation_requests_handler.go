package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lifeshare/lifeshare-api/internal/api/dto"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	"github.com/lifeshare/lifeshare-api/internal/service"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

// DonationRequestsHandler exposes donation request endpoints. None are gated.
type DonationRequestsHandler struct {
	requests *service.DonationService
}

// NewDonationRequestsHandler constructs handler.
func NewDonationRequestsHandler(requests *service.DonationService) *DonationRequestsHandler {
	return &DonationRequestsHandler{requests: requests}
}

// List handles GET /donationRequests.
func (h *DonationRequestsHandler) List(c *fiber.Ctx) error {
	filter := repository.DonationRequestFilter{RequesterEmail: optionalQuery(c, "userEmail")}
	if val := optionalQuery(c, "status"); val != nil {
		status := domain.DonationStatus(*val)
		if !status.Valid() {
			return apperrors.NewValidationError("unknown donation status", map[string]any{"status": *val})
		}
		filter.Status = &status
	}

	requests, err := h.requests.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(requests)
}

// Get handles GET /donationRequests/:id.
func (h *DonationRequestsHandler) Get(c *fiber.Ctx) error {
	req, err := h.requests.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(req)
}

// Create handles POST /donationRequests.
func (h *DonationRequestsHandler) Create(c *fiber.Ctx) error {
	var body dto.DonationRequestCreateRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}

	req := body.DonationRequest()
	if err := h.requests.Create(c.UserContext(), req); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.InsertResponse{InsertedID: req.ID.Hex()})
}

// Update handles PATCH /donationRequests/:id.
func (h *DonationRequestsHandler) Update(c *fiber.Ctx) error {
	var body dto.DonationRequestUpdateRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}

	res, err := h.requests.Update(c.UserContext(), c.Params("id"), body.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}

// UpdateStatus handles PUT /donationRequests/:id/status.
func (h *DonationRequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	var body dto.DonationStatusUpdateRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}

	res, err := h.requests.SetStatus(c.UserContext(), c.Params("id"), body.NewStatus)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUpdateResponse(res))
}

// Delete handles DELETE /donationRequests/:id.
func (h *DonationRequestsHandler) Delete(c *fiber.Ctx) error {
	n, err := h.requests.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: n})
}
