package user

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/nutriplan/client/pkg/errors"
)

// Credentials are what the auth endpoint accepts
type Credentials struct {
	Email    string `json:"email" validate:"required,email_address"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up payload
type Registration struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email_address"`
	Password      string  `json:"password" validate:"required,strong_password"`
	HeightCm      float64 `json:"height" validate:"gt=0"`
	WeightKg      float64 `json:"weight" validate:"gt=0"`
	ActivityLevel string  `json:"activity_level" validate:"required"`
	Sex           string  `json:"sex"`
	Age           float64 `json:"age" validate:"gte=0"`
}

// ProfileUpdate is the settings payload. Every field is mandatory and the
// backend asks the user to sign in again afterwards.
type ProfileUpdate struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email_address"`
	Password      string  `json:"password" validate:"required,strong_password"`
	HeightCm      float64 `json:"height" validate:"gt=0"`
	WeightKg      float64 `json:"weight" validate:"gt=0"`
	ActivityLevel string  `json:"activity_level" validate:"required"`
	Sex           string  `json:"sex" validate:"required"`
	Age           float64 `json:"age" validate:"gt=0"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator validates user payloads
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the account rules registered
func NewValidator() *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	validate.RegisterValidation("email_address", validateEmailAddress)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	return &Validator{validate: validate}
}

// Validate checks a payload and returns a VALIDATION_FAILED AppError
// listing every failing field.
func (v *Validator) Validate(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewBadRequestError(err.Error())
	}

	fields := make(apperrors.FieldErrors, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		fields = append(fields, apperrors.FieldError{
			Field:   field,
			Tag:     e.Tag(),
			Message: messageFor(field, e),
		})
	}
	return apperrors.NewFieldErrors(fields)
}

func messageFor(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email_address":
		return fmt.Sprintf("%s must be a valid email", field)
	case "strong_password":
		return "password must be at least 8 characters and include an upper case letter, a number and a special character"
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validateEmailAddress(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// validateStrongPassword requires 8+ characters with an upper case letter,
// a digit and a special character.
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasNumber && hasSpecial
}
