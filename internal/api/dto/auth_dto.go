package dto

import "github.com/lifeshare/lifeshare-api/internal/domain"

// TokenRequest carries the identity claims to sign.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// Identity converts the payload.
func (r TokenRequest) Identity() domain.Identity {
	return domain.Identity{Email: r.Email, Name: r.Name}
}

// TokenResponse standard response for POST /jwt.
type TokenResponse struct {
	Token string `json:"token"`
}
