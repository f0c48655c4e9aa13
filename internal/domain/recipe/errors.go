package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Draft validation errors
	ErrNameRequired        = errors.New("recipe name is required")
	ErrPreparationRequired = errors.New("recipe preparation is required")
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrInvalidQuantity     = errors.New("ingredient quantity must be greater than 0")

	// Business rule violations
	ErrDuplicateIngredient = errors.New("ingredient already exists in recipe")
	ErrRecipeNotFound      = errors.New("recipe not found")
)

// FieldError names the draft field that failed validation
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
