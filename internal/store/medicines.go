package store

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/models"
)

type medicineStore struct {
	coll *mongo.Collection
}

func (s *medicineStore) Create(ctx context.Context, m *models.Medicine) error {
	if err := models.Validate(m); err != nil {
		return err
	}
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt

	res, err := s.coll.InsertOne(ctx, m)
	if err != nil {
		return writeErr(err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *medicineStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Medicine, error) {
	var m models.Medicine
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, findOneErr(err)
	}
	return &m, nil
}

func (s *medicineStore) Update(ctx context.Context, id primitive.ObjectID, u models.MedicineUpdate) (*models.Medicine, error) {
	if err := models.Validate(u); err != nil {
		return nil, err
	}
	update := bson.M{"$set": updateFields(u)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m models.Medicine
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m); err != nil {
		return nil, findOneErr(err)
	}
	return &m, nil
}

func updateFields(u models.MedicineUpdate) bson.M {
	set := bson.M{"updatedAt": now()}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Discount != nil {
		set["discount"] = *u.Discount
	}
	return set
}

func (s *medicineStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *medicineStore) ListByCategory(ctx context.Context, category string, p Page) ([]models.Medicine, error) {
	return s.find(ctx, bson.M{"category": category}, p.options())
}

func (s *medicineStore) ListDiscounted(ctx context.Context, minDiscount float64, p Page) ([]models.Medicine, error) {
	return s.find(ctx, bson.M{"discount": bson.M{"$gte": minDiscount}}, p.options())
}

func (s *medicineStore) Search(ctx context.Context, query string) ([]models.Medicine, error) {
	return s.find(ctx, searchFilter(query), options.Find())
}

// searchFilter matches query literally and case-insensitively against the
// name or the category.
func searchFilter(query string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"category": re},
	}}
}

func (s *medicineStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Medicine, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	medicines := []models.Medicine{}
	if err := cursor.All(ctx, &medicines); err != nil {
		return nil, err
	}
	return medicines, nil
}
