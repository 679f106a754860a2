package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var MedicineCategories = []string{
	"Tablet", "Syrup", "Injection", "Drops", "Cream", "Powder", "Lotion", "Inhaler", "Pain Relief",
}

// Medicine is a catalog entry. ExpiryDate must lie in the future when created.
type Medicine struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name" validate:"required,min=3"`
	Price        float64            `bson:"price" json:"price" validate:"gte=0"`
	Description  string             `bson:"description" json:"description" validate:"required,min=10"`
	Category     string             `bson:"category" json:"category" validate:"required,medcategory"`
	Manufacturer string             `bson:"manufacturer" json:"manufacturer" validate:"required"`
	ExpiryDate   time.Time          `bson:"expiryDate" json:"expiryDate" validate:"required,future"`
	Stock        int                `bson:"stock" json:"stock" validate:"gte=0"`
	Discount     float64            `bson:"discount" json:"discount" validate:"gte=0,lte=100"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty" validate:"omitempty,url"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MedicineUpdate lists the fields an admin may change after creation.
type MedicineUpdate struct {
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock    *int     `json:"stock" validate:"omitempty,gte=0"`
	Discount *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
}

func (u MedicineUpdate) Empty() bool {
	return u.Price == nil && u.Stock == nil && u.Discount == nil
}
