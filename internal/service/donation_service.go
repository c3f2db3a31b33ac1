package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

const donationRequestResource = "donation request"

// DonationService coordinates donation request workflows.
type DonationService struct {
	requests   repository.DonationRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDonationService constructs the service.
func NewDonationService(requests repository.DonationRequestRepository, dispatcher events.Dispatcher, logger *zap.Logger) *DonationService {
	return &DonationService{requests: requests, dispatcher: dispatcher, logger: loggerOrNop(logger)}
}

// List returns requests matching filter; never nil.
func (s *DonationService) List(ctx context.Context, filter repository.DonationRequestFilter) ([]domain.DonationRequest, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return requests, nil
}

// Get returns a single request.
func (s *DonationService) Get(ctx context.Context, id string) (*domain.DonationRequest, error) {
	oid, err := parseID(donationRequestResource, id)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, oid)
	if err != nil {
		return nil, storeError(donationRequestResource, err)
	}
	return req, nil
}

// Create stores req as given; an empty status becomes pending.
func (s *DonationService) Create(ctx context.Context, req *domain.DonationRequest) error {
	if req.DonationStatus == "" {
		req.DonationStatus = domain.DonationStatusPending
	}
	if !req.DonationStatus.Valid() {
		return apperrors.NewValidationError("unknown donation status", map[string]any{"donationStatus": req.DonationStatus})
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return apperrors.NewInternalError(err)
	}
	publish(ctx, s.logger, s.dispatcher, events.Event{
		Type:       events.EventDonationRequestCreated,
		ResourceID: req.ID.Hex(),
		Payload: events.DonationRequestCreatedPayload{
			RequesterEmail:    req.RequesterEmail,
			RecipientDistrict: req.RecipientDistrict,
			DonationDate:      req.DonationDate,
		},
	})
	return nil
}

// Update applies a partial update.
func (s *DonationService) Update(ctx context.Context, id string, patch repository.DonationRequestPatch) (domain.UpdateResult, error) {
	oid, err := parseID(donationRequestResource, id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if patch.DonationStatus != nil && !patch.DonationStatus.Valid() {
		return domain.UpdateResult{}, apperrors.NewValidationError("unknown donation status", map[string]any{"donationStatus": *patch.DonationStatus})
	}
	res, err := s.requests.Update(ctx, oid, patch)
	if err != nil {
		return domain.UpdateResult{}, storeError(donationRequestResource, err)
	}
	if patch.DonationStatus != nil {
		s.statusChanged(ctx, id, *patch.DonationStatus, res)
	}
	return res, nil
}

// SetStatus replaces the donation status only.
func (s *DonationService) SetStatus(ctx context.Context, id string, status domain.DonationStatus) (domain.UpdateResult, error) {
	oid, err := parseID(donationRequestResource, id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if !status.Valid() {
		return domain.UpdateResult{}, apperrors.NewValidationError("unknown donation status", map[string]any{"newStatus": status})
	}
	res, err := s.requests.SetStatus(ctx, oid, status)
	if err != nil {
		return domain.UpdateResult{}, storeError(donationRequestResource, err)
	}
	s.statusChanged(ctx, id, status, res)
	return res, nil
}

// Delete removes a request; a missing id deletes nothing.
func (s *DonationService) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(donationRequestResource, id)
	if err != nil {
		return 0, err
	}
	n, err := s.requests.Delete(ctx, oid)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

func (s *DonationService) statusChanged(ctx context.Context, id string, status domain.DonationStatus, res domain.UpdateResult) {
	if res.ModifiedCount == 0 {
		return
	}
	publish(ctx, s.logger, s.dispatcher, events.Event{
		Type:       events.EventDonationStatusChanged,
		ResourceID: id,
		Payload:    events.DonationStatusChangedPayload{NewStatus: status},
	})
}
