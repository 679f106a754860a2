package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/middleware"
	"github.com/harentsoaR/medihub-api/internal/models"
)

const msgOwnCartOnly = "You can only access your own cart"

type cartRequest struct {
	UserID     string  `json:"userId"`
	MedicineID string  `json:"medicineId"`
	Quantity   numeric `json:"quantity"`
	TotalPrice numeric `json:"totalPrice"`
	Status     string  `json:"status"`
}

// sessionPatientID is the id of the Patient the auth middleware attached.
func sessionPatientID(c *gin.Context) (primitive.ObjectID, bool) {
	patient, ok := middleware.CurrentAccount(c)
	if !ok {
		fail(c, apperr.Unauthorized("Please Login to access this resource"))
		return primitive.NilObjectID, false
	}
	return patient.ID, true
}

// ToggleCart adds the medicine to the patient's cart, or removes it when the
// pair is already there.
func (h *Handler) ToggleCart(c *gin.Context) {
	patientID, ok := sessionPatientID(c)
	if !ok {
		return
	}
	var req cartRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if !allSet(req.UserID, req.MedicineID) || !req.Quantity.Set || !req.TotalPrice.Set {
		fail(c, apperr.BadRequest("Please fill all required fields!"))
		return
	}
	if !req.Quantity.isInt() || req.Quantity.Value <= 0 || !req.TotalPrice.OK || req.TotalPrice.Value < 0 {
		fail(c, apperr.BadRequest("Quantity must be positive and totalPrice must be non-negative"))
		return
	}
	if req.Quantity.Value > maxCount {
		fail(c, apperr.BadRequest("Quantity is too large"))
		return
	}
	userID, err := objectID(req.UserID, "userId")
	if err != nil {
		fail(c, err)
		return
	}
	if userID != patientID {
		fail(c, apperr.BadRequest(msgOwnCartOnly))
		return
	}
	medicineID, err := objectID(req.MedicineID, "medicineId")
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Medicines.FindByID(ctx, medicineID); err != nil {
		fail(c, orNotFound(err, msgMedicineNotFound))
		return
	}
	item := &models.CartItem{
		UserID:     userID,
		MedicineID: medicineID,
		Quantity:   int(req.Quantity.Value),
		TotalPrice: req.TotalPrice.Value,
		Status:     req.Status,
	}
	removed, err := h.Carts.Toggle(ctx, item)
	if err != nil {
		fail(c, err)
		return
	}
	if removed {
		respond(c, http.StatusOK, "Medicine deleted from cart successfully!", gin.H{"removeFromCart": true})
		return
	}
	respond(c, http.StatusCreated, "Medicine added to cart successfully!", item)
}

func (h *Handler) DeleteFromCart(c *gin.Context) {
	patientID, ok := sessionPatientID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, apperr.BadRequest("Invalid cart ID"))
		return
	}
	if err := h.Carts.DeleteForUser(c.Request.Context(), id, patientID); err != nil {
		fail(c, orNotFound(err, "Medicine not found in cart"))
		return
	}
	respond(c, http.StatusOK, "Medicine deleted from cart successfully!", gin.H{})
}

func (h *Handler) GetUserCart(c *gin.Context) {
	patientID, ok := sessionPatientID(c)
	if !ok {
		return
	}
	userID, err := objectID(c.Param("userId"), "userId")
	if err != nil {
		fail(c, err)
		return
	}
	if userID != patientID {
		fail(c, apperr.BadRequest(msgOwnCartOnly))
		return
	}
	items, err := h.Carts.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	if len(items) == 0 {
		fail(c, apperr.NotFound("Cart is empty or not found"))
		return
	}
	respond(c, http.StatusOK, "Cart fetched successfully!", items)
}
