package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/store"
)

const (
	avatarField = "docAvatar"
	// formOverhead bounds the text fields and part headers sent with the avatar.
	formOverhead = 1 << 20
)

// doctorForm reads the multipart fields of a doctor registration. Nested
// values arrive as JSON encoded strings.
func doctorForm(c *gin.Context) (*models.Doctor, error) {
	plain := map[string]string{}
	for _, k := range []string{"firstName", "lastName", "email", "phone", "password", "gender", "dob", "experience", "appointmentCharges"} {
		plain[k] = c.PostForm(k)
	}
	encoded := map[string]string{}
	for _, k := range []string{"address", "department", "specializations", "qualifications", "availability", "languagesKnown"} {
		encoded[k] = c.PostForm(k)
	}
	for _, v := range plain {
		if v == "" {
			return nil, apperr.BadRequest(msgFillFullForm)
		}
	}
	for _, v := range encoded {
		if v == "" {
			return nil, apperr.BadRequest(msgFillFullForm)
		}
	}

	dob, err := parseDate(plain["dob"], "dob")
	if err != nil {
		return nil, err
	}
	d := &models.Doctor{
		FirstName:          plain["firstName"],
		LastName:           plain["lastName"],
		Email:              plain["email"],
		Phone:              plain["phone"],
		Password:           plain["password"],
		Gender:             plain["gender"],
		DOB:                dob,
		Experience:         plain["experience"],
		AppointmentCharges: plain["appointmentCharges"],
		Role:               models.RoleDoctor,
	}
	targets := map[string]any{
		"address":         &d.Address,
		"department":      &d.Department,
		"specializations": &d.Specializations,
		"qualifications":  &d.Qualifications,
		"availability":    &d.Availability,
		"languagesKnown":  &d.LanguagesKnown,
	}
	for field, dst := range targets {
		if err := json.Unmarshal([]byte(encoded[field]), dst); err != nil {
			return nil, &apperr.CastError{Path: field, Value: encoded[field]}
		}
	}
	return d, nil
}

// AddNewDoctor registers a Doctor from a multipart form with the avatar in
// docAvatar. The file is checked before anything touches the database, and
// the form is validated before the avatar is relayed.
func (h *Handler) AddNewDoctor(c *gin.Context) {
	limit := h.Uploads.MaxBytes() + formOverhead
	if c.Request.ContentLength > limit {
		fail(c, h.Uploads.TooLarge())
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile(avatarField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, h.Uploads.TooLarge())
			return
		}
		fail(c, apperr.BadRequest("Doctor Avatar Required!"))
		return
	}
	tmp, err := h.Uploads.Accept(fh)
	if err != nil {
		fail(c, err)
		return
	}
	defer h.Uploads.Discard(tmp)

	doctor, err := doctorForm(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := models.ValidateExcept(doctor, "DocAvatar"); err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Doctors.FindByEmail(ctx, doctor.Email); err == nil {
		fail(c, apperr.BadRequest("Doctor with this Email already Registered"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, err)
		return
	}

	url, err := h.Uploads.Relay(ctx, tmp)
	if err != nil {
		fail(c, err)
		return
	}
	doctor.DocAvatar = url
	if err := h.Doctors.Create(ctx, doctor); err != nil {
		h.Logger.Warn().Err(err).Str("email", doctor.Email).Str("avatar_url", url).Msg("doctor not saved, avatar left orphaned")
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Doctor Added Successfully!", gin.H{"doctor": doctor})
}

func (h *Handler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "DOCTORS LIST", doctors)
}
