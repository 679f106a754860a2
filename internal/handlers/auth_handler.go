package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/middleware"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/store"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

const (
	msgFillFullForm       = "Please Fill Full Form!"
	msgInvalidCredentials = "Invalid Email Or Password!"
)

type registerRequest struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Password  string         `json:"password"`
	Address   models.Address `json:"address"`
	Gender    string         `json:"gender"`
	DOB       string         `json:"dob"`
}

func (r *registerRequest) complete() bool {
	return allSet(r.FirstName, r.LastName, r.Email, r.Phone, r.Password, r.Gender, r.DOB,
		r.Address.Country, r.Address.City, r.Address.Pincode)
}

func (r *registerRequest) account(role string) (*models.Account, error) {
	dob, err := parseDate(r.DOB, "dob")
	if err != nil {
		return nil, err
	}
	return &models.Account{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Password:  r.Password,
		Address:   r.Address,
		Gender:    r.Gender,
		DOB:       dob,
		Role:      role,
	}, nil
}

// registerAccount runs the shared Patient/Admin registration steps.
func (h *Handler) registerAccount(c *gin.Context, role string) (*models.Account, bool) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return nil, false
	}
	if !req.complete() {
		fail(c, apperr.BadRequest(msgFillFullForm))
		return nil, false
	}

	ctx := c.Request.Context()
	if _, err := h.Accounts.FindByEmail(ctx, req.Email); err == nil {
		fail(c, apperr.BadRequest(fmt.Sprintf("%s with this Email already Registered", role)))
		return nil, false
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, err)
		return nil, false
	}

	account, err := req.account(role)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if err := h.Accounts.Create(ctx, account); err != nil {
		fail(c, err)
		return nil, false
	}
	return account, true
}

// PatientRegister creates a Patient and starts its session.
func (h *Handler) PatientRegister(c *gin.Context) {
	account, ok := h.registerAccount(c, models.RolePatient)
	if !ok {
		return
	}
	token, err := h.issueSession(c, account.ID, models.RolePatient)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User Registered Successfully!", gin.H{"user": account.Summary(), "token": token})
}

// AddNewAdmin lets an Admin create another Admin. The caller's own session
// is left untouched.
func (h *Handler) AddNewAdmin(c *gin.Context) {
	account, ok := h.registerAccount(c, models.RoleAdmin)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Admin Added Successfully!", gin.H{"user": account.Summary()})
}

type loginRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

// Login checks the credentials against the store selected by role. Unknown
// emails, wrong passwords and role mismatches all fail the same way.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	if !allSet(req.Email, req.Password, req.ConfirmPassword, req.Role) {
		fail(c, apperr.BadRequest(msgFillFullForm))
		return
	}
	if req.Password != req.ConfirmPassword {
		fail(c, apperr.BadRequest("Password and Confirm Password do not match!"))
		return
	}

	ctx := c.Request.Context()
	var (
		summary models.UserSummary
		hash    string
		err     error
	)
	switch req.Role {
	case models.RoleDoctor:
		var d *models.Doctor
		if d, err = h.Doctors.FindByEmailWithPassword(ctx, req.Email); err == nil {
			summary, hash = d.Summary(), d.Password
		}
	case models.RoleAdmin, models.RolePatient:
		var a *models.Account
		if a, err = h.Accounts.FindByEmailWithPassword(ctx, req.Email); err == nil {
			summary, hash = a.Summary(), a.Password
		}
	default:
		fail(c, apperr.BadRequest("Invalid role"))
		return
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, err)
		return
	}
	if err != nil || summary.Role != req.Role || !utils.CheckPasswordHash(req.Password, hash) {
		fail(c, apperr.BadRequest(msgInvalidCredentials))
		return
	}

	token, err := h.issueSession(c, summary.ID, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User Logged In Successfully", gin.H{"user": summary, "token": token})
}

// Logout ends the session of role: its token id is revoked until the token
// would have expired, and the cookie is cleared.
func (h *Handler) Logout(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := middleware.CurrentClaims(c); ok && h.Revocations != nil && claims.ExpiresAt != nil {
			h.Revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
		h.clearSessionCookie(c, role)
		respond(c, http.StatusOK, fmt.Sprintf("%s Logged Out Successfully.", role), nil)
	}
}

// GetAccountDetails returns the Admin or Patient attached to the session.
func (h *Handler) GetAccountDetails(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		fail(c, apperr.Unauthorized("Please Login to access this resource"))
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("%s Details", account.Role), account)
}

func (h *Handler) GetDoctorDetails(c *gin.Context) {
	doctor, ok := middleware.CurrentDoctor(c)
	if !ok {
		fail(c, apperr.Unauthorized("Please Login to access this resource"))
		return
	}
	respond(c, http.StatusOK, "Doctor Details", doctor)
}
