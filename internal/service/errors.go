package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

// parseID rejects malformed identifiers before any store call.
func parseID(resource, hex string) (primitive.ObjectID, error) {
	id, err := repository.ParseID(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewNotFound(resource, map[string]any{"id": "invalid id"})
	}
	return id, nil
}

func storeError(resource string, err error) error {
	switch {
	case repository.IsNotFound(err):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrNoFields):
		return apperrors.NewValidationError("no fields to update", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

// publish never fails the calling write; handler errors are only logged.
func publish(ctx context.Context, logger *zap.Logger, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("resource_id", event.ResourceID),
			zap.Error(err))
	}
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
