package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/services"
)

type checkoutRequest struct {
	Amount numeric `json:"amount"`
}

// Checkout creates a payment order for amount, given in rupees.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if !req.Amount.Set {
		fail(c, apperr.BadRequest("Amount is required"))
		return
	}
	if !req.Amount.OK || req.Amount.Value <= 0 {
		fail(c, apperr.BadRequest("Amount must be a positive number"))
		return
	}
	if req.Amount.Value > services.MaxOrderAmount {
		fail(c, apperr.BadRequest("Amount is too large"))
		return
	}
	order, err := h.Payments.CreateOrder(c.Request.Context(), req.Amount.Value)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Mock order created successfully", gin.H{"order": order})
}

type verificationRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (h *Handler) PaymentVerification(c *gin.Context) {
	var req verificationRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	err := h.Payments.Verify(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if errors.Is(err, services.ErrVerificationUnsupported) {
		fail(c, apperr.Wrap(http.StatusNotImplemented, "Payment verification not implemented", err))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment verified successfully", nil)
}
