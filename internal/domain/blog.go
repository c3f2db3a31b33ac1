package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// BlogStatus enumerates publication states.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// Valid reports whether s is a known blog status.
func (s BlogStatus) Valid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// Blog is a post shown on the public site once published.
type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Thumbnail string             `bson:"thumbnail" json:"thumbnail"`
	Content   string             `bson:"content" json:"content"`
	Status    BlogStatus         `bson:"status" json:"status"`
}
