package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/medihub-api/internal/apperr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Now is the clock used by the "future" rule.
var Now = time.Now

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return strings.ToLower(f.Name[:1]) + f.Name[1:]
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			return ok && t.After(Now())
		})
		_ = v.RegisterValidation("medcategory", func(fl validator.FieldLevel) bool {
			return slices.Contains(MedicineCategories, fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Field messages keyed by "<path>.<tag>", where path is the json field path
// below the root struct with slice indexes removed.
var fieldMessages = map[string]string{
	"firstName.required":       "First Name is required",
	"firstName.min":            "First Name must contain at least 3 characters",
	"lastName.required":        "Last Name is required",
	"lastName.min":             "Last Name must contain at least 3 characters",
	"email.required":           "Email is required",
	"email.email":              "Email is invalid",
	"phone.required":           "Phone Number is required",
	"phone.len":                "Phone Number must contain exactly 10 digits",
	"phone.numeric":            "Phone Number must contain exactly 10 digits",
	"password.required":        "Password is required",
	"password.min":             "Password must contain at least 8 characters",
	"address.country.required": "Country is required",
	"address.city.required":    "City is required",
	"address.pincode.required": "Pincode is required",
	"gender.required":          "Gender is required",
	"dob.required":             "Date of Birth is required",
	"role.required":            "Role is required",

	"department.name.required":             "Department name is required",
	"department.description.required":      "Department description is required",
	"specializations.required":             "At least one specialization is required",
	"specializations.min":                  "At least one specialization is required",
	"specializations.name.required":        "Specialization name is required",
	"specializations.description.required": "Specialization description is required",
	"qualifications.required":              "At least one qualification is required",
	"qualifications.min":                   "At least one qualification is required",
	"experience.required":                  "Experience is required",
	"availability.days.required":           "Availability days are required",
	"availability.days.min":                "Availability days are required",
	"availability.hours.required":          "Availability hours are required",
	"languagesKnown.required":              "At least one language is required",
	"languagesKnown.min":                   "At least one language is required",
	"appointmentCharges.required":          "Appointment charges are required",
	"docAvatar.required":                   "Doctor avatar is required",
	"docAvatar.url":                        "Doctor avatar must be a valid URL",

	"name.required":         "Medicine name is required",
	"name.min":              "Medicine name must contain at least 3 characters",
	"price.gte":             "Price cannot be negative",
	"description.required":  "Description is required",
	"description.min":       "Description must contain at least 10 characters",
	"category.required":     "Category is required",
	"manufacturer.required": "Manufacturer is required",
	"expiryDate.required":   "Expiry date is required",
	"expiryDate.future":     "Expiry date must be a valid future date",
	"stock.gte":             "Stock cannot be negative",
	"discount.gte":          "Discount cannot be negative",
	"discount.lte":          "Discount cannot exceed 100%",
	"image.url":             "Image must be a valid URL",

	"status.required":   "Status is required",
	"quantity.gt":       "Quantity must be positive",
	"totalPrice.gte":    "Total price cannot be negative",
	"message.required":  "Message is required",
	"fullName.required": "Full Name is required",
	"country.required":  "Country is required",
	"state.required":    "State is required",
	"review.required":   "Review is required",
}

var sliceIndex = regexp.MustCompile(`\[\d+\]`)

// Validate checks v against its validate tags and returns an
// *apperr.ValidationError holding one message per failing field.
func Validate(v any) error {
	return validationError(validatorInstance().Struct(v))
}

// ValidateExcept is Validate with the named Go struct fields skipped, e.g.
// "DocAvatar" while the avatar is not uploaded yet.
func ValidateExcept(v any, fields ...string) error {
	return validationError(validatorInstance().StructExcept(v, fields...))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &apperr.ValidationError{Messages: msgs}
}

func fieldMessage(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	path = sliceIndex.ReplaceAllString(path, "")
	if msg, ok := fieldMessages[path+"."+fe.Tag()]; ok {
		return msg
	}

	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "oneof", "eq", "medcategory":
		return fmt.Sprintf("%v is not a valid %s", fe.Value(), label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must contain at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "future":
		return fmt.Sprintf("%s must be a valid future date", label)
	}
	return fmt.Sprintf("%s is invalid", label)
}
