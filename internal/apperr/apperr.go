// Package apperr holds the error types shared by the store, the handlers and
// the error middleware, and the single mapping from any failure to an HTTP
// status and message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	MsgInternal     = "Internal Server Error"
	MsgTokenInvalid = "Json Web Token is invalid, Try again!"
	MsgTokenExpired = "Json Web Token is expired, Try again!"
)

// Error carries an explicit status code. Its status is always honored verbatim.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }

// DuplicateKeyError reports a unique constraint rejected by the store.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Duplicate %s Entered", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// CastError reports a value that could not be converted to the type of Path.
type CastError struct {
	Path  string
	Value string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("Invalid %s", e.Path)
}

// ValidationError collects one message per failing field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

// DuplicateField extracts the first key field named in a driver duplicate key
// message, or "" when none can be found.
func DuplicateField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if m := dupKeyPattern.FindStringSubmatch(e.Message); m != nil {
				return m[1]
			}
		}
	}
	if m := dupKeyPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}

var invalidTokenErrs = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidClaims,
	jwt.ErrTokenInvalidId,
	jwt.ErrInvalidKey,
	jwt.ErrInvalidKeyType,
	jwt.ErrHashUnavailable,
}

// Normalize maps a failure to the status and message written to the client.
// It has no side effects.
func Normalize(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, MsgInternal
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if msg == "" {
			msg = http.StatusText(appErr.Status)
		}
		return appErr.Status, msg
	}

	var dupErr *DuplicateKeyError
	if errors.As(err, &dupErr) {
		return http.StatusBadRequest, dupErr.Error()
	}
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusBadRequest, (&DuplicateKeyError{Field: DuplicateField(err)}).Error()
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return http.StatusBadRequest, MsgTokenExpired
	}
	for _, target := range invalidTokenErrs {
		if errors.Is(err, target) {
			return http.StatusBadRequest, MsgTokenInvalid
		}
	}

	var castErr *CastError
	if errors.As(err, &castErr) {
		return http.StatusBadRequest, castErr.Error()
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, valErr.Error()
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fe.Error())
		}
		return http.StatusBadRequest, strings.Join(msgs, " ")
	}

	if msg := err.Error(); msg != "" {
		return http.StatusInternalServerError, msg
	}
	return http.StatusInternalServerError, MsgInternal
}
