package dto

import "github.com/lifeshare/lifeshare-api/internal/service"

// BlogCreateRequest payload. Any status in the body is ignored.
type BlogCreateRequest struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Content   string `json:"content"`
}

// Input converts the payload for the service layer.
func (r BlogCreateRequest) Input() service.BlogCreateInput {
	return service.BlogCreateInput{Title: r.Title, Thumbnail: r.Thumbnail, Content: r.Content}
}
