package events

import (
	"time"

	"github.com/lifeshare/lifeshare-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDonationRequestCreated EventType = "donation_request_created"
	EventDonationStatusChanged  EventType = "donation_status_changed"
	EventBlogPublished          EventType = "blog_published"
	EventBlogUnpublished        EventType = "blog_unpublished"
	EventUserRoleChanged        EventType = "user_role_changed"
	EventUserStatusChanged      EventType = "user_status_changed"
)

// Event represents a domain event emitted by services after a successful write.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// DonationRequestCreatedPayload payload.
type DonationRequestCreatedPayload struct {
	RequesterEmail    string `json:"requester_email"`
	RecipientDistrict string `json:"recipient_district"`
	DonationDate      string `json:"donation_date"`
}

// DonationStatusChangedPayload payload.
type DonationStatusChangedPayload struct {
	NewStatus domain.DonationStatus `json:"new_status"`
}

// BlogStatusChangedPayload payload.
type BlogStatusChangedPayload struct {
	Status domain.BlogStatus `json:"status"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	Role domain.Role `json:"role"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	Status domain.UserStatus `json:"status"`
}
