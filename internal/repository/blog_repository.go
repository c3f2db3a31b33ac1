package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
)

// BlogRepository handles persistence for blog posts.
type BlogRepository interface {
	List(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Blog, error)
	Create(ctx context.Context, blog *domain.Blog) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.BlogStatus) (domain.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type blogRepository struct {
	coll persistence.Collection
}

// NewBlogRepository returns a document-store backed implementation.
func NewBlogRepository(store persistence.Store) BlogRepository {
	return &blogRepository{coll: store.Collection(persistence.BlogsCollection)}
}

func (r *blogRepository) List(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error) {
	query := bson.M{}
	if status != nil {
		query["status"] = *status
	}

	blogs := make([]domain.Blog, 0)
	if err := r.coll.Find(ctx, query, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Blog, error) {
	var blog domain.Blog
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	id, err := r.coll.InsertOne(ctx, blog)
	if err != nil {
		return err
	}
	blog.ID = id
	return nil
}

func (r *blogRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.BlogStatus) (domain.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"status": status})
}

func (r *blogRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.coll.DeleteOne(ctx, bson.M{"_id": id})
}
