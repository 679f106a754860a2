package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/store"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

const (
	UserKey   = "user"
	DoctorKey = "doctor"
	ClaimsKey = "claims"
)

const msgLoginRequired = "Please Login to access this resource"

// Verifier resolves a session cookie to the actor it was issued to.
type Verifier struct {
	Tokens      *utils.TokenManager
	Revocations *utils.RevocationList
	Accounts    store.AccountStore
	Doctors     store.DoctorStore
}

// Authenticate requires a valid session cookie for role. The loaded Account
// (Admin, Patient) or Doctor is attached to the context with the token claims.
func Authenticate(role string, v *Verifier) gin.HandlerFunc {
	cookieName := models.CookieName(role)
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abort(c, apperr.Unauthorized(msgLoginRequired))
			return
		}

		claims, err := v.Tokens.Parse(token)
		if err != nil {
			abort(c, err)
			return
		}
		if v.Revocations != nil && v.Revocations.IsRevoked(claims.ID) {
			abort(c, apperr.BadRequest(apperr.MsgTokenInvalid))
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil || claims.Role != role {
			abort(c, apperr.BadRequest(apperr.MsgTokenInvalid))
			return
		}

		if role == models.RoleDoctor {
			doctor, err := v.Doctors.FindByID(c.Request.Context(), id)
			if err != nil {
				abort(c, lookupErr(err))
				return
			}
			if doctor.Role != role {
				abort(c, apperr.BadRequest(apperr.MsgTokenInvalid))
				return
			}
			c.Set(DoctorKey, doctor)
		} else {
			account, err := v.Accounts.FindByID(c.Request.Context(), id)
			if err != nil {
				abort(c, lookupErr(err))
				return
			}
			if account.Role != role {
				abort(c, apperr.BadRequest(apperr.MsgTokenInvalid))
				return
			}
			c.Set(UserKey, account)
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// A token for an entity that no longer exists is treated as invalid.
func lookupErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.BadRequest(apperr.MsgTokenInvalid)
	}
	return err
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// CurrentAccount returns the Admin or Patient attached by Authenticate.
func CurrentAccount(c *gin.Context) (*models.Account, bool) {
	a, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	account, ok := a.(*models.Account)
	return account, ok
}

// CurrentDoctor returns the Doctor attached by Authenticate.
func CurrentDoctor(c *gin.Context) (*models.Doctor, bool) {
	d, ok := c.Get(DoctorKey)
	if !ok {
		return nil, false
	}
	doctor, ok := d.(*models.Doctor)
	return doctor, ok
}

func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
