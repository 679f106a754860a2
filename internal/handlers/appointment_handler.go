package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/middleware"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/store"
)

const (
	msgAppointmentNotFound = "Appointment not found"
	msgAlreadyBooked       = "Your appointment was already booked. Please wait for any update!"
)

// orNotFound turns store.ErrNotFound into a 404 carrying msg.
func orNotFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

type bookingRequest struct {
	DoctorID        string `json:"doctorId"`
	City            string `json:"city"`
	Pincode         string `json:"pincode"`
	AppointmentDate string `json:"appointmentDate"`
	Department      string `json:"department"`
}

// BookAppointment books the session's Patient with the doctor in the body.
// A pair that already has an appointment cannot book again.
func (h *Handler) BookAppointment(c *gin.Context) {
	patient, ok := middleware.CurrentAccount(c)
	if !ok {
		fail(c, apperr.Unauthorized("Please Login to access this resource"))
		return
	}
	var req bookingRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if !allSet(req.DoctorID, req.City, req.Pincode, req.AppointmentDate, req.Department) {
		fail(c, apperr.BadRequest("Please provide all required fields"))
		return
	}
	doctorID, err := objectID(req.DoctorID, "doctorId")
	if err != nil {
		fail(c, err)
		return
	}
	date, err := parseDate(req.AppointmentDate, "appointmentDate")
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	doctor, err := h.Doctors.FindByID(ctx, doctorID)
	if err != nil {
		fail(c, orNotFound(err, "Doctor not found"))
		return
	}
	exists, err := h.Appointments.ExistsForPair(ctx, patient.ID, doctor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if exists {
		fail(c, apperr.BadRequest(msgAlreadyBooked))
		return
	}

	appt := &models.Appointment{
		Patient:            patient.ID,
		PatientFirstName:   patient.FirstName,
		PatientLastName:    patient.LastName,
		Doctor:             doctor.ID,
		DoctorFirstName:    doctor.FirstName,
		DoctorLastName:     doctor.LastName,
		Experience:         doctor.Experience,
		AppointmentCharges: doctor.AppointmentCharges,
		City:               req.City,
		Pincode:            req.Pincode,
		AppointmentDate:    date,
		Department:         req.Department,
	}
	if err := h.Appointments.Create(ctx, appt); err != nil {
		// A concurrent booking for the same pair loses on the unique index.
		var dup *apperr.DuplicateKeyError
		if errors.As(err, &dup) {
			err = apperr.BadRequest(msgAlreadyBooked)
		}
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Your Appointment Booked!", appt)
}

func (h *Handler) GetMyAppointments(c *gin.Context) {
	patient, ok := middleware.CurrentAccount(c)
	if !ok {
		fail(c, apperr.Unauthorized("Please Login to access this resource"))
		return
	}
	appts, err := h.Appointments.ListByPatient(c.Request.Context(), patient.ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Your Appointments", appts)
}

func (h *Handler) GetAllAppointments(c *gin.Context) {
	appts, err := h.Appointments.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "All Appointments List", appts)
}

// GetAppointmentInfo returns the appointment joined with patient and doctor
// contact details.
func (h *Handler) GetAppointmentInfo(c *gin.Context) {
	id, err := objectID(c.Param("appointmentId"), "_id")
	if err != nil {
		fail(c, err)
		return
	}
	details, err := h.Appointments.FindDetails(c.Request.Context(), id)
	if err != nil {
		fail(c, orNotFound(err, msgAppointmentNotFound))
		return
	}
	respond(c, http.StatusOK, "Appointment Details", details)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, err := objectID(c.Param("id"), "_id")
	if err != nil {
		fail(c, err)
		return
	}
	var req models.AppointmentStatusUpdate
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	appt, err := h.Appointments.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, orNotFound(err, msgAppointmentNotFound))
		return
	}
	respond(c, http.StatusOK, "Appointment Status Updated!", appt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := objectID(c.Param("id"), "_id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Appointments.Delete(c.Request.Context(), id); err != nil {
		fail(c, orNotFound(err, msgAppointmentNotFound))
		return
	}
	respond(c, http.StatusOK, "Appointment Successfully Deleted", nil)
}
