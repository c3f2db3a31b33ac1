package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
)

// UserRepository defines persistence access for accounts. Emails are stored
// and matched in normalized form, so lookups ignore case.
type UserRepository interface {
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, ownerEmail string, profile UserProfile) (domain.UpdateResult, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) (domain.UpdateResult, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.UserStatus) (domain.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// UserFilter narrows a listing by equality on one or more fields.
type UserFilter struct {
	Status *domain.UserStatus
	Role   *domain.Role
}

// UserProfile lists the self-editable profile fields. Nil fields are left untouched.
type UserProfile struct {
	Name       *string
	Avatar     *string
	BloodGroup *string
	District   *string
	Upazila    *string
}

// Fields returns the fields to set.
func (p UserProfile) Fields() bson.M {
	set := bson.M{}
	putString(set, "name", p.Name)
	putString(set, "avatar", p.Avatar)
	putString(set, "bloodGroup", p.BloodGroup)
	putString(set, "district", p.District)
	putString(set, "upazila", p.Upazila)
	return set
}

type userRepository struct {
	coll persistence.Collection
}

// NewUserRepository returns a document-store backed implementation.
func NewUserRepository(store persistence.Store) UserRepository {
	return &userRepository{coll: store.Collection(persistence.UsersCollection)}
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Role != nil {
		query["role"] = *filter.Role
	}

	users := make([]domain.User, 0)
	if err := r.coll.Find(ctx, query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, bson.M{"email": normalizeEmail(email)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	id, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, ownerEmail string, profile UserProfile) (domain.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id, "email": normalizeEmail(ownerEmail)}, profile.Fields())
}

func (r *userRepository) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) (domain.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"role": role})
}

func (r *userRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.UserStatus) (domain.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"status": status})
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.coll.DeleteOne(ctx, bson.M{"_id": id})
}
