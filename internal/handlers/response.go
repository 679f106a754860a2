package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
)

// respond writes the success envelope.
func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{
		"success":    true,
		"statusCode": status,
		"message":    message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched so the caller's required-field checks report what is missing.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &apperr.CastError{Path: typeErr.Field, Value: typeErr.Value}
	}
	return apperr.BadRequest("Invalid request body")
}

// objectID parses a hex identifier; a malformed one is a cast failure on path.
func objectID(hex, path string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, &apperr.CastError{Path: path, Value: hex}
	}
	return id, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain calendar dates.
func parseDate(value, path string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &apperr.CastError{Path: path, Value: value}
}

func queryInt(c *gin.Context, key string, def int64) int64 {
	n, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (h *Handler) setSessionCookie(c *gin.Context, role, token string) {
	h.writeCookie(c, role, token, int(h.Cookies.MaxAge.Seconds()))
}

// clearSessionCookie replaces the role cookie with an empty, expired one.
func (h *Handler) clearSessionCookie(c *gin.Context, role string) {
	h.writeCookie(c, role, "", -1)
}

func (h *Handler) writeCookie(c *gin.Context, role, value string, maxAge int) {
	if h.Cookies.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(models.CookieName(role), value, maxAge, "/", "", h.Cookies.Secure, true)
}

// issueSession signs a token for the entity, sets the role cookie and returns
// the token for the response body.
func (h *Handler) issueSession(c *gin.Context, id primitive.ObjectID, role string) (string, error) {
	token, _, err := h.Tokens.Issue(id.Hex(), role)
	if err != nil {
		return "", err
	}
	h.setSessionCookie(c, role, token)
	return token, nil
}

func allSet(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}

// numeric is a request number that may arrive as a JSON number or a numeric
// string. Set is false for absent, null or empty values; OK is false when a
// value was given but does not parse.
type numeric struct {
	Set   bool
	OK    bool
	Value float64
}

func (n *numeric) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}
	n.Set = true
	v, err := strconv.ParseFloat(raw, 64)
	if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		n.OK, n.Value = true, v
	}
	return nil
}

// maxCount bounds integral request fields so they convert to int unchanged.
const maxCount = math.MaxInt32

func (n numeric) isInt() bool {
	return n.OK && n.Value == math.Trunc(n.Value)
}
