package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

type accountStore struct {
	coll *mongo.Collection
}

// Create validates the account with its plaintext password, then stores the
// bcrypt hash in its place. On return a.Password is empty.
func (s *accountStore) Create(ctx context.Context, a *models.Account) error {
	if err := models.Validate(a); err != nil {
		return err
	}
	hash, err := utils.HashPassword(a.Password)
	if err != nil {
		return err
	}
	a.Password = hash
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt

	res, err := s.coll.InsertOne(ctx, a)
	a.Password = ""
	if err != nil {
		return writeErr(err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *accountStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id}, false)
}

func (s *accountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email}, false)
}

func (s *accountStore) FindByEmailWithPassword(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email}, true)
}

func (s *accountStore) findOne(ctx context.Context, filter bson.M, withPassword bool) (*models.Account, error) {
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(withoutPassword)
	}
	var a models.Account
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&a); err != nil {
		return nil, findOneErr(err)
	}
	return &a, nil
}

type doctorStore struct {
	coll *mongo.Collection
}

func (s *doctorStore) Create(ctx context.Context, d *models.Doctor) error {
	d.Role = models.RoleDoctor
	if err := models.Validate(d); err != nil {
		return err
	}
	hash, err := utils.HashPassword(d.Password)
	if err != nil {
		return err
	}
	d.Password = hash
	d.CreatedAt = now()
	d.UpdatedAt = d.CreatedAt

	res, err := s.coll.InsertOne(ctx, d)
	d.Password = ""
	if err != nil {
		return writeErr(err)
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *doctorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return s.findOne(ctx, bson.M{"_id": id}, false)
}

func (s *doctorStore) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return s.findOne(ctx, bson.M{"email": email}, false)
}

func (s *doctorStore) FindByEmailWithPassword(ctx context.Context, email string) (*models.Doctor, error) {
	return s.findOne(ctx, bson.M{"email": email}, true)
}

func (s *doctorStore) List(ctx context.Context) ([]models.Doctor, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"role": models.RoleDoctor}, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	doctors := []models.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *doctorStore) findOne(ctx context.Context, filter bson.M, withPassword bool) (*models.Doctor, error) {
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(withoutPassword)
	}
	var d models.Doctor
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&d); err != nil {
		return nil, findOneErr(err)
	}
	return &d, nil
}
