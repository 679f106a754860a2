package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/models"
)

type appointmentStore struct {
	coll *mongo.Collection
}

func (s *appointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	if a.Status == "" {
		a.Status = models.AppointmentPending
	}
	if err := models.Validate(a); err != nil {
		return err
	}
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt

	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return writeErr(err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *appointmentStore) ExistsForPair(ctx context.Context, patient, doctor primitive.ObjectID) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"patient": patient, "doctor": doctor}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *appointmentStore) List(ctx context.Context) ([]models.Appointment, error) {
	return s.find(ctx, bson.M{})
}

func (s *appointmentStore) ListByPatient(ctx context.Context, patient primitive.ObjectID) ([]models.Appointment, error) {
	return s.find(ctx, bson.M{"patient": patient})
}

func (s *appointmentStore) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *appointmentStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	if err := models.Validate(models.AppointmentStatusUpdate{Status: status}); err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.Appointment
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&a); err != nil {
		return nil, findOneErr(err)
	}
	return &a, nil
}

func (s *appointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *appointmentStore) FindDetails(ctx context.Context, id primitive.ObjectID) (*models.AppointmentDetails, error) {
	cursor, err := s.coll.Aggregate(ctx, detailsPipeline(id))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.AppointmentDetails
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// detailsPipeline matches one appointment, left-joins its patient and doctor
// and keeps only their contact fields.
func detailsPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		lookupStage(UsersCollection, "patient", "patientDetails"),
		unwindStage("patientDetails"),
		lookupStage(DoctorsCollection, "doctor", "doctorDetails"),
		unwindStage("doctorDetails"),
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "appointmentDate", Value: 1},
			{Key: "status", Value: 1},
			{Key: "city", Value: 1},
			{Key: "pincode", Value: 1},
			{Key: "department", Value: 1},
			{Key: "patientDetails.firstName", Value: 1},
			{Key: "patientDetails.lastName", Value: 1},
			{Key: "patientDetails.email", Value: 1},
			{Key: "patientDetails.phone", Value: 1},
			{Key: "doctorDetails.firstName", Value: 1},
			{Key: "doctorDetails.lastName", Value: 1},
			{Key: "doctorDetails.email", Value: 1},
			{Key: "doctorDetails.phone", Value: 1},
			{Key: "doctorDetails.department", Value: 1},
			{Key: "doctorDetails.specializations", Value: 1},
			{Key: "doctorDetails.experience", Value: 1},
		}}},
	}
}

func lookupStage(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func unwindStage(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}
