package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
	"github.com/lifeshare/lifeshare-api/pkg/util/validation"
)

const userResource = "user"

// UserService coordinates account workflows.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, logger: loggerOrNop(logger)}
}

// UserCreateInput describes a registration. The tags apply only when a new
// account is inserted.
type UserCreateInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
}

// RegisterResult distinguishes a new account from an existing email.
type RegisterResult struct {
	InsertedID *primitive.ObjectID
}

// Created reports whether a new document was inserted.
func (r RegisterResult) Created() bool {
	return r.InsertedID != nil
}

// Register creates an account unless the email is already taken. A taken
// email is not an error and the result carries no id, whatever the other
// fields hold. Field rules are checked only before a real insert.
func (s *UserService) Register(ctx context.Context, input UserCreateInput) (RegisterResult, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return RegisterResult{}, nil
	} else if !repository.IsNotFound(err) {
		return RegisterResult{}, apperrors.NewInternalError(err)
	}
	if err := validation.Struct(input); err != nil {
		return RegisterResult{}, err
	}

	user := &domain.User{
		Name:       input.Name,
		Email:      input.Email,
		Avatar:     input.Avatar,
		BloodGroup: input.BloodGroup,
		District:   input.District,
		Upazila:    input.Upazila,
		Role:       domain.RoleNone,
		Status:     domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a concurrent registration race; the unique index caught it
		if errors.Is(err, persistence.ErrDuplicateKey) {
			return RegisterResult{}, nil
		}
		return RegisterResult{}, apperrors.NewInternalError(err)
	}
	return RegisterResult{InsertedID: &user.ID}, nil
}

// List returns users matching filter; never nil.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// GetByEmail returns the stored user.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(userResource, err)
	}
	return user, nil
}

// HasRole reports whether the user with email holds role. Unknown emails hold no role.
func (s *UserService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, apperrors.NewInternalError(err)
	}
	return user.HasRole(role), nil
}

// UpdateProfile applies a partial profile update to the caller's own document.
func (s *UserService) UpdateProfile(ctx context.Context, callerEmail, id string, profile repository.UserProfile) (domain.UpdateResult, error) {
	oid, err := parseID(userResource, id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	res, err := s.users.UpdateProfile(ctx, oid, callerEmail, profile)
	if err != nil {
		return domain.UpdateResult{}, storeError(userResource, err)
	}
	return res, nil
}

// SetRole sets the role field only.
func (s *UserService) SetRole(ctx context.Context, id string, role domain.Role) (domain.UpdateResult, error) {
	oid, err := parseID(userResource, id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	res, err := s.users.SetRole(ctx, oid, role)
	if err != nil {
		return domain.UpdateResult{}, storeError(userResource, err)
	}
	if res.ModifiedCount > 0 {
		publish(ctx, s.logger, s.dispatcher, events.Event{
			Type:       events.EventUserRoleChanged,
			ResourceID: oid.Hex(),
			Payload:    events.UserRoleChangedPayload{Role: role},
		})
	}
	return res, nil
}

// MakeVolunteer sets role=volunteer and re-reads the document to echo the
// stored role. The role is nil when the document no longer exists.
func (s *UserService) MakeVolunteer(ctx context.Context, id string) (domain.UpdateResult, *domain.Role, error) {
	res, err := s.SetRole(ctx, id, domain.RoleVolunteer)
	if err != nil {
		return domain.UpdateResult{}, nil, err
	}
	oid, _ := repository.ParseID(id)
	user, err := s.users.GetByID(ctx, oid)
	if err != nil {
		if repository.IsNotFound(err) {
			return res, nil, nil
		}
		return domain.UpdateResult{}, nil, apperrors.NewInternalError(err)
	}
	return res, &user.Role, nil
}

// SetStatus blocks or unblocks an account.
func (s *UserService) SetStatus(ctx context.Context, id string, status domain.UserStatus) (domain.UpdateResult, error) {
	oid, err := parseID(userResource, id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	res, err := s.users.SetStatus(ctx, oid, status)
	if err != nil {
		return domain.UpdateResult{}, storeError(userResource, err)
	}
	if res.ModifiedCount > 0 {
		publish(ctx, s.logger, s.dispatcher, events.Event{
			Type:       events.EventUserStatusChanged,
			ResourceID: oid.Hex(),
			Payload:    events.UserStatusChangedPayload{Status: status},
		})
	}
	return res, nil
}

// Delete removes an account; a missing id deletes nothing.
func (s *UserService) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(userResource, id)
	if err != nil {
		return 0, err
	}
	n, err := s.users.Delete(ctx, oid)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}
