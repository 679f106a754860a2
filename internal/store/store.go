// Package store persists the clinic entities in MongoDB. Every create and
// update runs the model validators first; uniqueness is enforced by the
// indexes created in EnsureIndexes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
)

const (
	UsersCollection        = "users"
	DoctorsCollection      = "doctors"
	AppointmentsCollection = "appointments"
	MedicinesCollection    = "medicines"
	CartsCollection        = "usercarts"
	ContactCollection      = "contactus"
	TestimonialsCollection = "testimonials"
)

// ErrNotFound is returned when a lookup by identifier or key matches nothing.
var ErrNotFound = errors.New("document not found")

type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByEmailWithPassword is the only read that includes the password hash.
	FindByEmailWithPassword(ctx context.Context, email string) (*models.Account, error)
}

type DoctorStore interface {
	Create(ctx context.Context, d *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	ExistsForPair(ctx context.Context, patient, doctor primitive.ObjectID) (bool, error)
	List(ctx context.Context) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patient primitive.ObjectID) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindDetails(ctx context.Context, id primitive.ObjectID) (*models.AppointmentDetails, error)
}

type MedicineStore interface {
	Create(ctx context.Context, m *models.Medicine) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Medicine, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.MedicineUpdate) (*models.Medicine, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByCategory(ctx context.Context, category string, p Page) ([]models.Medicine, error)
	ListDiscounted(ctx context.Context, minDiscount float64, p Page) ([]models.Medicine, error)
	Search(ctx context.Context, query string) ([]models.Medicine, error)
}

type CartStore interface {
	// Toggle removes the item's (userId, medicineId) pair when present and
	// inserts item otherwise. removed reports which branch ran.
	Toggle(ctx context.Context, item *models.CartItem) (removed bool, err error)
	DeleteForUser(ctx context.Context, id, userID primitive.ObjectID) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
}

type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
}

type TestimonialStore interface {
	Create(ctx context.Context, t *models.Testimonial) error
	List(ctx context.Context) ([]models.Testimonial, error)
}

// Page selects a 1-based page of Limit documents.
type Page struct {
	Number int64
	Limit  int64
}

func (p Page) options() *options.FindOptions {
	number, limit := p.Number, p.Limit
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = 10
	}
	return options.Find().SetSkip((number - 1) * limit).SetLimit(limit)
}

// Store groups the Mongo-backed entity stores of one database.
type Store struct {
	db *mongo.Database

	Accounts     AccountStore
	Doctors      DoctorStore
	Appointments AppointmentStore
	Medicines    MedicineStore
	Carts        CartStore
	Contact      ContactStore
	Testimonials TestimonialStore
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:           db,
		Accounts:     &accountStore{coll: db.Collection(UsersCollection)},
		Doctors:      &doctorStore{coll: db.Collection(DoctorsCollection)},
		Appointments: &appointmentStore{coll: db.Collection(AppointmentsCollection)},
		Medicines:    &medicineStore{coll: db.Collection(MedicinesCollection)},
		Carts:        &cartStore{coll: db.Collection(CartsCollection)},
		Contact:      &contactStore{coll: db.Collection(ContactCollection)},
		Testimonials: &testimonialStore{coll: db.Collection(TestimonialsCollection)},
	}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// indexSpecs lists the unique indexes that back the "at most one" rules.
func indexSpecs() map[string][]mongo.IndexModel {
	unique := options.Index().SetUnique(true)
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		DoctorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		AppointmentsCollection: {
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "doctor", Value: 1}}, Options: unique},
		},
		CartsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "medicineId", Value: 1}}, Options: unique},
		},
		MedicinesCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "discount", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the indexes if they do not exist yet.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for coll, idx := range indexSpecs() {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// writeErr turns a driver duplicate key failure into *apperr.DuplicateKeyError.
func writeErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return &apperr.DuplicateKeyError{Field: apperr.DuplicateField(err), Err: err}
	}
	return err
}

func findOneErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func now() time.Time {
	return time.Now().UTC()
}

var withoutPassword = bson.D{{Key: "password", Value: 0}}
