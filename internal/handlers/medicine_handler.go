package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/store"
)

const (
	msgMedicineNotFound = "Medicine not found"
	msgNoMedicinesFound = "No medicines found"
	msgMedicinesFetched = "Medicines fetched successfully!"
	discountedMinimum   = 10
	discountedPageLimit = 12
	categoryPageLimit   = 10
)

type medicineRequest struct {
	Name         string  `json:"name"`
	Price        numeric `json:"price"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	ExpiryDate   string  `json:"expiryDate"`
	Stock        numeric `json:"stock"`
	Discount     numeric `json:"discount"`
	Image        string  `json:"image"`
}

// medicine checks the request fields in the order an admin form reports them
// and builds the catalog entry.
func (r *medicineRequest) medicine() (*models.Medicine, error) {
	if !allSet(r.Name, r.Description, r.Category, r.Manufacturer, r.ExpiryDate) ||
		!r.Price.Set || !r.Stock.Set || !r.Discount.Set {
		return nil, apperr.BadRequest("All required fields must be provided")
	}
	if !r.Price.OK || r.Price.Value < 0 {
		return nil, apperr.BadRequest("Price must be a positive number")
	}
	if !r.Stock.isInt() || r.Stock.Value < 0 {
		return nil, apperr.BadRequest("Stock must be a non-negative integer")
	}
	if r.Stock.Value > maxCount {
		return nil, apperr.BadRequest("Stock is too large")
	}
	if !r.Discount.OK || r.Discount.Value < 0 || r.Discount.Value > 100 {
		return nil, apperr.BadRequest("Discount must be between 0 and 100")
	}
	expiry, err := parseDate(r.ExpiryDate, "expiryDate")
	if err != nil || !expiry.After(models.Now()) {
		return nil, apperr.BadRequest("Expiry date must be a valid future date")
	}
	return &models.Medicine{
		Name:         r.Name,
		Price:        r.Price.Value,
		Description:  r.Description,
		Category:     r.Category,
		Manufacturer: r.Manufacturer,
		ExpiryDate:   expiry,
		Stock:        int(r.Stock.Value),
		Discount:     r.Discount.Value,
		Image:        r.Image,
	}, nil
}

func (h *Handler) AddNewMedicine(c *gin.Context) {
	var req medicineRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	m, err := req.medicine()
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Medicines.Create(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Medicine added successfully", m)
}

// UpdateMedicine changes any of price, stock and discount.
func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, err := objectID(c.Param("id"), "_id")
	if err != nil {
		fail(c, err)
		return
	}
	var u models.MedicineUpdate
	if err := bindJSON(c, &u); err != nil {
		fail(c, err)
		return
	}
	if u.Empty() {
		fail(c, apperr.BadRequest("Please provide at least one field to update (price, stock, or discount)!"))
		return
	}
	m, err := h.Medicines.Update(c.Request.Context(), id, u)
	if err != nil {
		fail(c, orNotFound(err, msgMedicineNotFound))
		return
	}
	respond(c, http.StatusOK, "Medicine Updated Successfully!", m)
}

func (h *Handler) DeleteMedicine(c *gin.Context) {
	id, err := objectID(c.Param("id"), "_id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Medicines.Delete(c.Request.Context(), id); err != nil {
		fail(c, orNotFound(err, msgMedicineNotFound))
		return
	}
	respond(c, http.StatusOK, "Medicine Deleted Successfully!", gin.H{})
}

func (h *Handler) GetMedicine(c *gin.Context) {
	id, err := objectID(c.Param("id"), "_id")
	if err != nil {
		fail(c, err)
		return
	}
	m, err := h.Medicines.FindByID(c.Request.Context(), id)
	if err != nil {
		fail(c, orNotFound(err, msgMedicineNotFound))
		return
	}
	respond(c, http.StatusOK, "Medicine fetched successfully!", m)
}

func (h *Handler) GetCategoryMedicines(c *gin.Context) {
	page := store.Page{Number: queryInt(c, "page", 1), Limit: queryInt(c, "limit", categoryPageLimit)}
	meds, err := h.Medicines.ListByCategory(c.Request.Context(), c.Param("category"), page)
	respondMedicines(c, meds, err)
}

func (h *Handler) GetDiscountedMedicines(c *gin.Context) {
	page := store.Page{Number: queryInt(c, "page", 1), Limit: queryInt(c, "limit", discountedPageLimit)}
	meds, err := h.Medicines.ListDiscounted(c.Request.Context(), discountedMinimum, page)
	respondMedicines(c, meds, err)
}

// SearchMedicines matches the query against names and categories,
// case-insensitively.
func (h *Handler) SearchMedicines(c *gin.Context) {
	query := strings.TrimSpace(c.Query("search"))
	if query == "" {
		fail(c, apperr.BadRequest("Search query is required"))
		return
	}
	meds, err := h.Medicines.Search(c.Request.Context(), query)
	respondMedicines(c, meds, err)
}

// respondMedicines writes a listing; an empty one is a 404.
func respondMedicines(c *gin.Context, meds []models.Medicine, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	if len(meds) == 0 {
		fail(c, apperr.NotFound(msgNoMedicinesFound))
		return
	}
	respond(c, http.StatusOK, msgMedicinesFetched, meds)
}
