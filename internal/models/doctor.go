package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Department struct {
	Name        string `bson:"name" json:"name" validate:"required"`
	Description string `bson:"description" json:"description" validate:"required"`
}

type Specialization struct {
	Name        string `bson:"name" json:"name" validate:"required"`
	Description string `bson:"description" json:"description" validate:"required"`
}

type Availability struct {
	Days  []string `bson:"days" json:"days" validate:"required,min=1,dive,required"`
	Hours string   `bson:"hours" json:"hours" validate:"required"`
}

// Doctor carries the account fields plus the clinical profile.
type Doctor struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName          string             `bson:"firstName" json:"firstName" validate:"required,min=3"`
	LastName           string             `bson:"lastName" json:"lastName" validate:"required,min=3"`
	Email              string             `bson:"email" json:"email" validate:"required,email"`
	Phone              string             `bson:"phone" json:"phone" validate:"required,len=10,numeric"`
	Password           string             `bson:"password,omitempty" json:"-" validate:"required,min=8"`
	Address            Address            `bson:"address" json:"address"`
	Gender             string             `bson:"gender" json:"gender" validate:"required,oneof=Male Female"`
	DOB                time.Time          `bson:"dob" json:"dob" validate:"required"`
	Department         Department         `bson:"department" json:"department"`
	Specializations    []Specialization   `bson:"specializations" json:"specializations" validate:"required,min=1,dive"`
	Qualifications     []string           `bson:"qualifications" json:"qualifications" validate:"required,min=1,dive,required"`
	Experience         string             `bson:"experience" json:"experience" validate:"required"`
	Availability       Availability       `bson:"availability" json:"availability"`
	LanguagesKnown     []string           `bson:"languagesKnown" json:"languagesKnown" validate:"required,min=1,dive,required"`
	AppointmentCharges string             `bson:"appointmentCharges" json:"appointmentCharges" validate:"required"`
	DocAvatar          string             `bson:"docAvatar" json:"docAvatar" validate:"required,url"`
	Role               string             `bson:"role" json:"role" validate:"required,eq=Doctor"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (d *Doctor) Summary() UserSummary {
	return UserSummary{ID: d.ID, FirstName: d.FirstName, LastName: d.LastName, Email: d.Email, Role: d.Role}
}
