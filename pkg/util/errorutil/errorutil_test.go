package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewUnauthorized("missing")), "UNAUTHORIZED", http.StatusUnauthorized},
		{"fiber error keeps status", fiber.NewError(http.StatusBadRequest, "invalid payload"), "BAD_REQUEST", http.StatusBadRequest},
		{"fiber not found", fiber.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"no documents", mongo.ErrNoDocuments, "NOT_FOUND", http.StatusNotFound},
		{"unknown error", errors.New("socket closed"), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"invalid token", NewInvalidToken(errors.New("expired")), "INVALID_TOKEN", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset by peer")
	got := ToDomainError(cause)

	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, MapError(nil))
}
