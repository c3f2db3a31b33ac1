package dto

import (
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/repository"
)

// DonationRequestCreateRequest payload. Every field is optional; only a
// non-empty status is checked.
type DonationRequestCreateRequest struct {
	RequesterName     string                `json:"requesterName"`
	RequesterEmail    string                `json:"requesterEmail"`
	RecipientName     string                `json:"recipientName"`
	RecipientDistrict string                `json:"recipientDistrict"`
	RecipientUpazila  string                `json:"recipientUpazila"`
	HospitalName      string                `json:"hospitalName"`
	FullAddress       string                `json:"fullAddress"`
	DonationDate      string                `json:"donationDate"`
	DonationTime      string                `json:"donationTime"`
	RequestMessage    string                `json:"requestMessage"`
	DonationStatus    domain.DonationStatus `json:"donationStatus" validate:"omitempty,oneof=pending inprogress done canceled"`
}

// DonationRequest converts the payload into a document.
func (r DonationRequestCreateRequest) DonationRequest() *domain.DonationRequest {
	return &domain.DonationRequest{
		RequesterName:     r.RequesterName,
		RequesterEmail:    r.RequesterEmail,
		RecipientName:     r.RecipientName,
		RecipientDistrict: r.RecipientDistrict,
		RecipientUpazila:  r.RecipientUpazila,
		HospitalName:      r.HospitalName,
		FullAddress:       r.FullAddress,
		DonationDate:      r.DonationDate,
		DonationTime:      r.DonationTime,
		RequestMessage:    r.RequestMessage,
		DonationStatus:    r.DonationStatus,
	}
}

// DonationRequestUpdateRequest payload for partial updates.
type DonationRequestUpdateRequest struct {
	RequesterName     *string                `json:"requesterName"`
	RequesterEmail    *string                `json:"requesterEmail" validate:"omitempty,email"`
	RecipientName     *string                `json:"recipientName" validate:"omitempty,min=1"`
	RecipientDistrict *string                `json:"recipientDistrict"`
	RecipientUpazila  *string                `json:"recipientUpazila"`
	HospitalName      *string                `json:"hospitalName"`
	FullAddress       *string                `json:"fullAddress"`
	DonationDate      *string                `json:"donationDate"`
	DonationTime      *string                `json:"donationTime"`
	RequestMessage    *string                `json:"requestMessage"`
	DonationStatus    *domain.DonationStatus `json:"donationStatus" validate:"omitempty,oneof=pending inprogress done canceled"`
}

// Patch converts the payload for the repository layer.
func (r DonationRequestUpdateRequest) Patch() repository.DonationRequestPatch {
	return repository.DonationRequestPatch{
		RequesterName:     r.RequesterName,
		RequesterEmail:    r.RequesterEmail,
		RecipientName:     r.RecipientName,
		RecipientDistrict: r.RecipientDistrict,
		RecipientUpazila:  r.RecipientUpazila,
		HospitalName:      r.HospitalName,
		FullAddress:       r.FullAddress,
		DonationDate:      r.DonationDate,
		DonationTime:      r.DonationTime,
		RequestMessage:    r.RequestMessage,
		DonationStatus:    r.DonationStatus,
	}
}

// DonationStatusUpdateRequest payload for PUT /donationRequests/:id/status.
type DonationStatusUpdateRequest struct {
	NewStatus domain.DonationStatus `json:"newStatus" validate:"required,oneof=pending inprogress done canceled"`
}
