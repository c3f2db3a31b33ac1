package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Collection names.
const (
	UsersCollection            = "users"
	DonationRequestsCollection = "donationRequests"
	BlogsCollection            = "blogs"
)

type uniqueIndex struct {
	collection string
	field      string
}

var uniqueIndexes = []uniqueIndex{
	{collection: UsersCollection, field: "email"},
}

// EnsureIndexes creates the unique indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, store Store, logger *zap.Logger) error {
	if store == nil {
		logger.Warn("no document store available; skipping indexes")
		return nil
	}

	for _, idx := range uniqueIndexes {
		logger.Info("ensuring unique index", zap.String("collection", idx.collection), zap.String("field", idx.field))
		if err := store.EnsureUnique(ctx, idx.collection, idx.field); err != nil {
			return fmt.Errorf("ensure index %s.%s: %w", idx.collection, idx.field, err)
		}
	}

	logger.Info("indexes ensured", zap.Int("count", len(uniqueIndexes)))
	return nil
}
