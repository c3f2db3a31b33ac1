package repository

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
)

// ErrInvalidID is returned for identifiers that are not 24-char hex ObjectIDs.
var ErrInvalidID = errors.New("invalid id")

// ErrNoFields is returned when a partial update carries nothing to set.
var ErrNoFields = errors.New("no fields to update")

// ParseID validates a hex identifier before it reaches the store.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// IsNotFound reports whether err means no document matched.
func IsNotFound(err error) bool {
	return errors.Is(err, persistence.ErrNoDocuments)
}

func updateOne(ctx context.Context, coll persistence.Collection, filter, set bson.M) (domain.UpdateResult, error) {
	if len(set) == 0 {
		return domain.UpdateResult{}, ErrNoFields
	}
	matched, modified, err := coll.UpdateOne(ctx, filter, set)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	return domain.UpdateResult{MatchedCount: matched, ModifiedCount: modified}, nil
}

func putString(set bson.M, key string, val *string) {
	if val != nil {
		set[key] = *val
	}
}

// normalizeEmail returns the stored form of an email: trimmed and lower-cased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
