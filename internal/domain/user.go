package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// Role is the privilege level attached to a stored user.
type Role string

const (
	// RoleNone is the default for donors that were never promoted.
	RoleNone      Role = ""
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
)

// Valid reports whether r is a known role, RoleNone included.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleVolunteer:
		return true
	}
	return false
}

// User is a registered donor, volunteer or administrator.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Avatar     string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	BloodGroup string             `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	District   string             `bson:"district,omitempty" json:"district,omitempty"`
	Upazila    string             `bson:"upazila,omitempty" json:"upazila,omitempty"`
	Role       Role               `bson:"role,omitempty" json:"role,omitempty"`
	Status     UserStatus         `bson:"status" json:"status"`
}

// HasRole reports whether the user holds role r.
func (u *User) HasRole(r Role) bool {
	return u != nil && u.Role == r
}
