package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/models"
)

// Contact messages and testimonials are append-only.

type contactStore struct {
	coll *mongo.Collection
}

func (s *contactStore) Create(ctx context.Context, m *models.ContactMessage) error {
	if err := models.Validate(m); err != nil {
		return err
	}
	m.ID = primitive.NilObjectID
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt

	res, err := s.coll.InsertOne(ctx, m)
	if err != nil {
		return writeErr(err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *contactStore) List(ctx context.Context) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	if err := findAllNewestFirst(ctx, s.coll, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type testimonialStore struct {
	coll *mongo.Collection
}

func (s *testimonialStore) Create(ctx context.Context, t *models.Testimonial) error {
	if err := models.Validate(t); err != nil {
		return err
	}
	t.ID = primitive.NilObjectID
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	res, err := s.coll.InsertOne(ctx, t)
	if err != nil {
		return writeErr(err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *testimonialStore) List(ctx context.Context) ([]models.Testimonial, error) {
	testimonials := []models.Testimonial{}
	if err := findAllNewestFirst(ctx, s.coll, &testimonials); err != nil {
		return nil, err
	}
	return testimonials, nil
}

func findAllNewestFirst(ctx context.Context, coll *mongo.Collection, results any) error {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, results)
}
