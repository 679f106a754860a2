package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/services"
)

const contactSubject = "New Message from User: MediHub"

type contactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type testimonialRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Review   string `json:"review"`
}

// SendMessage stores a contact message and forwards it by mail. The message
// is kept even when the mail cannot be sent.
func (h *Handler) SendMessage(c *gin.Context) {
	var req contactRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if !allSet(req.Email, req.Message) {
		fail(c, apperr.BadRequest("Please fill in the entire form!"))
		return
	}
	msg := models.ContactMessage{Email: req.Email, Message: req.Message}
	ctx := c.Request.Context()
	if err := h.Contact.Create(ctx, &msg); err != nil {
		fail(c, err)
		return
	}

	receipt, err := h.Mailer.Send(ctx, services.Mail{
		To:      h.MailTo,
		ReplyTo: msg.Email,
		Subject: contactSubject,
		Text:    msg.Message,
	})
	if err != nil {
		h.Logger.Warn().Err(err).Str("message_id", msg.ID.Hex()).Msg("contact mail failed")
		respond(c, http.StatusOK, "Message saved, but email sending failed", msg)
		return
	}
	h.Logger.Info().Str("message_id", msg.ID.Hex()).Str("receipt", receipt).Msg("contact mail sent")
	respond(c, http.StatusOK, "Message and email sent successfully", msg)
}

func (h *Handler) GetAllMessages(c *gin.Context) {
	msgs, err := h.Contact.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "All messages fetched successfully", msgs)
}

func (h *Handler) AddTestimonial(c *gin.Context) {
	var req testimonialRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if !allSet(req.FullName, req.Email, req.Country, req.State, req.Review) {
		fail(c, apperr.BadRequest("Please fill all required fields!"))
		return
	}
	t := models.Testimonial{
		FullName: req.FullName,
		Email:    req.Email,
		Country:  req.Country,
		State:    req.State,
		Review:   req.Review,
	}
	if err := h.Testimonials.Create(c.Request.Context(), &t); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Testimonial created successfully", t)
}

func (h *Handler) GetAllTestimonials(c *gin.Context) {
	list, err := h.Testimonials.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Testimonials fetched successfully", list)
}
