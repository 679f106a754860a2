package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "Admin"
	RolePatient = "Patient"
	RoleDoctor  = "Doctor"
)

// CookieName is the session cookie that carries a token for role.
func CookieName(role string) string {
	switch role {
	case RoleAdmin:
		return "adminToken"
	case RolePatient:
		return "patientToken"
	case RoleDoctor:
		return "doctorToken"
	}
	return ""
}

type Address struct {
	Country string `bson:"country" json:"country" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	Pincode string `bson:"pincode" json:"pincode" validate:"required"`
}

// Account is a Patient or Admin. Password holds the plaintext until the store
// hashes it, and the hash afterwards; it never leaves the API.
type Account struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName" validate:"required,min=3"`
	LastName  string             `bson:"lastName" json:"lastName" validate:"required,min=3"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Phone     string             `bson:"phone" json:"phone" validate:"required,len=10,numeric"`
	Password  string             `bson:"password,omitempty" json:"-" validate:"required,min=8"`
	Address   Address            `bson:"address" json:"address"`
	Gender    string             `bson:"gender" json:"gender" validate:"required,oneof=Male Female"`
	DOB       time.Time          `bson:"dob" json:"dob" validate:"required"`
	Role      string             `bson:"role" json:"role" validate:"required,oneof=Admin Patient"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the public view returned after registration and login.
type UserSummary struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
}

func (a *Account) Summary() UserSummary {
	return UserSummary{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, Role: a.Role}
}
