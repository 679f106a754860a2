package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentPending  = "Pending"
	AppointmentAccepted = "Accepted"
	AppointmentRejected = "Rejected"
)

// Appointment snapshots the patient and doctor names and the doctor's
// charges at booking time.
type Appointment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient            primitive.ObjectID `bson:"patient" json:"patient" validate:"required"`
	PatientFirstName   string             `bson:"patientFirstName" json:"patientFirstName"`
	PatientLastName    string             `bson:"patientLastName" json:"patientLastName"`
	Doctor             primitive.ObjectID `bson:"doctor" json:"doctor" validate:"required"`
	DoctorFirstName    string             `bson:"doctorFirstName" json:"doctorFirstName"`
	DoctorLastName     string             `bson:"doctorLastName" json:"doctorLastName"`
	Experience         string             `bson:"experience" json:"experience"`
	AppointmentCharges string             `bson:"appointmentCharges" json:"appointmentCharges"`
	City               string             `bson:"city" json:"city" validate:"required"`
	Pincode            string             `bson:"pincode" json:"pincode" validate:"required"`
	AppointmentDate    time.Time          `bson:"appointmentDate" json:"appointmentDate" validate:"required"`
	Department         string             `bson:"department" json:"department" validate:"required"`
	Status             string             `bson:"status" json:"status" validate:"required,oneof=Pending Accepted Rejected"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PatientContact struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
}

type DoctorContact struct {
	FirstName       string           `bson:"firstName" json:"firstName"`
	LastName        string           `bson:"lastName" json:"lastName"`
	Email           string           `bson:"email" json:"email"`
	Phone           string           `bson:"phone" json:"phone"`
	Department      Department       `bson:"department" json:"department"`
	Specializations []Specialization `bson:"specializations" json:"specializations"`
	Experience      string           `bson:"experience" json:"experience"`
}

// AppointmentDetails is an appointment joined with the contact details of
// its patient and doctor.
type AppointmentDetails struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	Status          string             `bson:"status" json:"status"`
	City            string             `bson:"city" json:"city"`
	Pincode         string             `bson:"pincode" json:"pincode"`
	Department      string             `bson:"department" json:"department"`
	PatientDetails  PatientContact     `bson:"patientDetails" json:"patientDetails"`
	DoctorDetails   DoctorContact      `bson:"doctorDetails" json:"doctorDetails"`
}

type AppointmentStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=Pending Accepted Rejected"`
}
