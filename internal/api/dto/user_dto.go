package dto

import (
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	"github.com/lifeshare/lifeshare-api/internal/service"
)

// UserCreateRequest payload for registration. Role and status are server-owned.
// Only the email is checked here; the remaining fields are validated when a
// new account is actually inserted.
type UserCreateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email" validate:"required,email"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
}

// Input converts the payload for the service layer.
func (r UserCreateRequest) Input() service.UserCreateInput {
	return service.UserCreateInput{
		Name:       r.Name,
		Email:      r.Email,
		Avatar:     r.Avatar,
		BloodGroup: r.BloodGroup,
		District:   r.District,
		Upazila:    r.Upazila,
	}
}

// UserProfileUpdateRequest payload for self edits. Absent fields stay as stored.
type UserProfileUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1"`
	Avatar     *string `json:"avatar"`
	BloodGroup *string `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	District   *string `json:"district"`
	Upazila    *string `json:"upazila"`
}

// Profile converts the payload for the repository layer.
func (r UserProfileUpdateRequest) Profile() repository.UserProfile {
	return repository.UserProfile{
		Name:       r.Name,
		Avatar:     r.Avatar,
		BloodGroup: r.BloodGroup,
		District:   r.District,
		Upazila:    r.Upazila,
	}
}

// RegisterResponse reports the new id, or a null id plus message for a taken email.
type RegisterResponse struct {
	InsertedID *string `json:"insertedId"`
	Message    string  `json:"message,omitempty"`
}

// UserProfileResponse is the projected profile returned by GET /users/:email.
type UserProfileResponse struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Avatar     string            `json:"avatar"`
	BloodGroup string            `json:"bloodGroup"`
	District   string            `json:"district"`
	Upazila    string            `json:"upazila"`
	Role       domain.Role       `json:"role"`
	Status     domain.UserStatus `json:"status"`
}

// NewUserProfileResponse projects a stored user.
func NewUserProfileResponse(u *domain.User) UserProfileResponse {
	return UserProfileResponse{
		Name:       u.Name,
		Email:      u.Email,
		Avatar:     u.Avatar,
		BloodGroup: u.BloodGroup,
		District:   u.District,
		Upazila:    u.Upazila,
		Role:       u.Role,
		Status:     u.Status,
	}
}

// RoleUpdateResponse echoes the stored role after make-volunteer.
type RoleUpdateResponse struct {
	UpdateResponse
	Role *domain.Role `json:"role"`
}
