package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/models"
)

const cartPending = "Pending"

type cartStore struct {
	coll *mongo.Collection
}

// Toggle deletes an existing pair in one atomic step. If nothing was deleted
// it inserts item; a concurrent insert of the same pair loses on the unique
// index and comes back as a duplicate key error.
func (s *cartStore) Toggle(ctx context.Context, item *models.CartItem) (bool, error) {
	if item.Status == "" {
		item.Status = cartPending
	}
	if err := models.Validate(item); err != nil {
		return false, err
	}

	var removed models.CartItem
	err := s.coll.FindOneAndDelete(ctx, bson.M{"userId": item.UserID, "medicineId": item.MedicineID}).Decode(&removed)
	if err == nil {
		*item = removed
		return true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}

	item.ID = primitive.NilObjectID
	item.CreatedAt = now()
	item.UpdatedAt = item.CreatedAt
	res, err := s.coll.InsertOne(ctx, item)
	if err != nil {
		return false, writeErr(err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return false, nil
}

func (s *cartStore) DeleteForUser(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *cartStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
