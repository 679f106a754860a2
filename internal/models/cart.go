package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is unique per (UserID, MedicineID).
type CartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId" validate:"required"`
	MedicineID primitive.ObjectID `bson:"medicineId" json:"medicineId" validate:"required"`
	Quantity   int                `bson:"quantity" json:"quantity" validate:"gt=0"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice" validate:"gte=0"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
