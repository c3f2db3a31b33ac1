package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

const blogResource = "blog"

// BlogService coordinates blog workflows.
type BlogService struct {
	blogs      repository.BlogRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBlogService constructs the service.
func NewBlogService(blogs repository.BlogRepository, dispatcher events.Dispatcher, logger *zap.Logger) *BlogService {
	return &BlogService{blogs: blogs, dispatcher: dispatcher, logger: loggerOrNop(logger)}
}

// BlogCreateInput describes a new post. There is no status; posts start as drafts.
type BlogCreateInput struct {
	Title     string
	Thumbnail string
	Content   string
}

// List returns posts, optionally only those in status.
func (s *BlogService) List(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error) {
	blogs, err := s.blogs.List(ctx, status)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return blogs, nil
}

// Get returns a single post.
func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	oid, err := parseID(blogResource, id)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogs.GetByID(ctx, oid)
	if err != nil {
		return nil, storeError(blogResource, err)
	}
	return blog, nil
}

// Create stores a draft post.
func (s *BlogService) Create(ctx context.Context, input BlogCreateInput) (*domain.Blog, error) {
	blog := &domain.Blog{
		Title:     input.Title,
		Thumbnail: input.Thumbnail,
		Content:   input.Content,
		Status:    domain.BlogStatusDraft,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return blog, nil
}

// Publish moves a post to published.
func (s *BlogService) Publish(ctx context.Context, id string) (domain.UpdateResult, error) {
	return s.setStatus(ctx, id, domain.BlogStatusPublished, events.EventBlogPublished)
}

// Unpublish moves a post back to draft.
func (s *BlogService) Unpublish(ctx context.Context, id string) (domain.UpdateResult, error) {
	return s.setStatus(ctx, id, domain.BlogStatusDraft, events.EventBlogUnpublished)
}

// Delete removes a post; a missing id deletes nothing.
func (s *BlogService) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(blogResource, id)
	if err != nil {
		return 0, err
	}
	n, err := s.blogs.Delete(ctx, oid)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

func (s *BlogService) setStatus(ctx context.Context, id string, status domain.BlogStatus, eventType events.EventType) (domain.UpdateResult, error) {
	oid, err := parseID(blogResource, id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	res, err := s.blogs.SetStatus(ctx, oid, status)
	if err != nil {
		return domain.UpdateResult{}, storeError(blogResource, err)
	}
	if res.ModifiedCount > 0 {
		publish(ctx, s.logger, s.dispatcher, events.Event{
			Type:       eventType,
			ResourceID: id,
			Payload:    events.BlogStatusChangedPayload{Status: status},
		})
	}
	return res, nil
}
