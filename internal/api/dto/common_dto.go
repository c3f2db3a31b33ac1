package dto

import "github.com/lifeshare/lifeshare-api/internal/domain"

// InsertResponse carries the store-assigned id of a new document.
type InsertResponse struct {
	InsertedID string `json:"insertedId"`
}

// UpdateResponse reports matched and modified counts; zero is not an error.
type UpdateResponse struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// NewUpdateResponse converts a domain result.
func NewUpdateResponse(res domain.UpdateResult) UpdateResponse {
	return UpdateResponse{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
}

// DeleteResponse reports how many documents were removed.
type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
