// Package errors provides structured error handling for the application
// Every failure the client core reports carries a stable code so the
// presentation layer can branch on it without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client side input errors
	CodeBadRequest          ErrorCode = "BAD_REQUEST"
	CodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	CodeDuplicateIngredient ErrorCode = "DUPLICATE_INGREDIENT"
	CodeIncompleteProfile   ErrorCode = "INCOMPLETE_PROFILE"

	// Identity errors
	CodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
	CodeUserResolutionFailed ErrorCode = "USER_RESOLUTION_FAILED"

	// Remote errors
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeRecipeNotFound       ErrorCode = "RECIPE_NOT_FOUND"
	CodeSaveFailed           ErrorCode = "SAVE_FAILED"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeStorageError         ErrorCode = "STORAGE_ERROR"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error to the closest HTTP status, used when the
// client reports remote failures back through the CLI exit path.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeDuplicateIngredient, CodeIncompleteProfile:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials, CodeUserResolutionFailed:
		return http.StatusUnauthorized
	case CodeNotFound, CodeRecipeNotFound:
		return http.StatusNotFound
	case CodeSaveFailed, CodeExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Field returns the offending field of a validation error, or "".
func (e *AppError) Field() string {
	if f, ok := e.Metadata["field"].(string); ok {
		return f
	}
	return ""
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error naming the missing or invalid field
func NewValidationError(field, details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details).
		WithMetadata("field", field)
}

// NewDuplicateIngredientError reports an ingredient already present in a draft
func NewDuplicateIngredientError(ingredientID int64, cause error) *AppError {
	return NewAppError(
		CodeDuplicateIngredient,
		"Ingredient already added",
		fmt.Sprintf("Ingredient %d is already part of the recipe", ingredientID),
	).WithMetadata("ingredient_id", ingredientID).WithCause(cause)
}

// NewIncompleteProfileError reports a biometric profile that cannot feed the calculator
func NewIncompleteProfileError(cause error) *AppError {
	return NewAppError(
		CodeIncompleteProfile,
		"Incomplete profile",
		"Sex, weight, height, age and activity level are required",
	).WithCause(cause)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewInvalidCredentialsError creates an invalid credentials error
func NewInvalidCredentialsError() *AppError {
	return NewAppError(
		CodeInvalidCredentials,
		"Invalid credentials",
		"The provided email or password is incorrect",
	)
}

// NewUserResolutionError reports that the current user could not be determined
func NewUserResolutionError(details string, cause error) *AppError {
	return NewAppError(CodeUserResolutionFailed, "Could not resolve current user", details).
		WithCause(cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID int64) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %d does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewSaveFailedError wraps a gateway failure that aborted a recipe save
func NewSaveFailedError(operation string, cause error) *AppError {
	return NewAppError(
		CodeSaveFailed,
		"Recipe could not be saved",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(service string, cause error) *AppError {
	return NewAppError(
		CodeExternalServiceError,
		"External service error",
		fmt.Sprintf("Failed to communicate with %s", service),
	).WithCause(cause)
}

// NewStorageError creates a local storage error
func NewStorageError(operation string, cause error) *AppError {
	return NewAppError(
		CodeStorageError,
		"Local storage operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// As finds the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// FieldError represents a single field validation failure
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// FieldErrors represents multiple validation failures
type FieldErrors []FieldError

// Error implements the error interface
func (v FieldErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewFieldErrors creates a validation error from several field failures.
// The first failing field is exposed through Field().
func NewFieldErrors(errs FieldErrors) *AppError {
	field := ""
	if len(errs) > 0 {
		field = errs[0].Field
	}

	return NewValidationError(field, errs.Error()).
		WithMetadata("validation_errors", errs)
}
