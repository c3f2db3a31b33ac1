package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
)

// DonationRequestRepository handles persistence for donation requests.
type DonationRequestRepository interface {
	List(ctx context.Context, filter DonationRequestFilter) ([]domain.DonationRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DonationRequest, error)
	Create(ctx context.Context, req *domain.DonationRequest) error
	Update(ctx context.Context, id primitive.ObjectID, patch DonationRequestPatch) (domain.UpdateResult, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.DonationStatus) (domain.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// DonationRequestFilter defines equality filters for listing.
type DonationRequestFilter struct {
	RequesterEmail *string
	Status         *domain.DonationStatus
}

// DonationRequestPatch carries a partial update. Nil fields are left untouched.
type DonationRequestPatch struct {
	RequesterName     *string
	RequesterEmail    *string
	RecipientName     *string
	RecipientDistrict *string
	RecipientUpazila  *string
	HospitalName      *string
	FullAddress       *string
	DonationDate      *string
	DonationTime      *string
	RequestMessage    *string
	DonationStatus    *domain.DonationStatus
}

// Fields returns the fields to set.
func (p DonationRequestPatch) Fields() bson.M {
	set := bson.M{}
	putString(set, "requesterName", p.RequesterName)
	putString(set, "requesterEmail", p.RequesterEmail)
	putString(set, "recipientName", p.RecipientName)
	putString(set, "recipientDistrict", p.RecipientDistrict)
	putString(set, "recipientUpazila", p.RecipientUpazila)
	putString(set, "hospitalName", p.HospitalName)
	putString(set, "fullAddress", p.FullAddress)
	putString(set, "donationDate", p.DonationDate)
	putString(set, "donationTime", p.DonationTime)
	putString(set, "requestMessage", p.RequestMessage)
	if p.DonationStatus != nil {
		set["donationStatus"] = *p.DonationStatus
	}
	return set
}

type donationRequestRepository struct {
	coll persistence.Collection
}

// NewDonationRequestRepository returns a document-store backed implementation.
func NewDonationRequestRepository(store persistence.Store) DonationRequestRepository {
	return &donationRequestRepository{coll: store.Collection(persistence.DonationRequestsCollection)}
}

func (r *donationRequestRepository) List(ctx context.Context, filter DonationRequestFilter) ([]domain.DonationRequest, error) {
	query := bson.M{}
	if filter.RequesterEmail != nil {
		query["requesterEmail"] = *filter.RequesterEmail
	}
	if filter.Status != nil {
		query["donationStatus"] = *filter.Status
	}

	requests := make([]domain.DonationRequest, 0)
	if err := r.coll.Find(ctx, query, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *donationRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DonationRequest, error) {
	var req domain.DonationRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *donationRequestRepository) Create(ctx context.Context, req *domain.DonationRequest) error {
	id, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = id
	return nil
}

func (r *donationRequestRepository) Update(ctx context.Context, id primitive.ObjectID, patch DonationRequestPatch) (domain.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, patch.Fields())
}

func (r *donationRequestRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.DonationStatus) (domain.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"donationStatus": status})
}

func (r *donationRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.coll.DeleteOne(ctx, bson.M{"_id": id})
}
