// Package catalog provides ingredient search over the shared catalog and
// turns a catalog selection into a draft line.
package catalog

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// Service implements the catalog use cases
type Service struct {
	catalog  outbound.IngredientCatalog
	validate *validator.Validate
	logger   *zap.Logger
}

var _ inbound.CatalogService = (*Service)(nil)

// NewService creates a catalog service
func NewService(catalog outbound.IngredientCatalog, logger *zap.Logger) *Service {
	return &Service{
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger.Named("catalog-service"),
	}
}

// Search returns catalog entries whose name contains query, ignoring case.
// An empty query returns the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]recipe.Ingredient, error) {
	all, err := s.catalog.ListIngredients(ctx)
	if err != nil {
		s.logger.Error("Failed to list ingredients", zap.Error(err))
		return nil, errors.NewExternalServiceError("ingredients", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return all, nil
	}

	matches := make([]recipe.Ingredient, 0, len(all))
	for _, ing := range all {
		if strings.Contains(strings.ToLower(ing.Name), needle) {
			matches = append(matches, ing)
		}
	}
	return matches, nil
}

// BuildLine looks up ingredientID and builds a line for quantity
func (s *Service) BuildLine(ctx context.Context, ingredientID int64, quantity float64) (recipe.IngredientLine, error) {
	if err := s.validate.Var(quantity, "gt=0"); err != nil {
		return recipe.IngredientLine{}, errors.NewValidationError(recipe.FieldQuantity, recipe.ErrInvalidQuantity.Error()).
			WithCause(recipe.ErrInvalidQuantity)
	}

	all, err := s.catalog.ListIngredients(ctx)
	if err != nil {
		return recipe.IngredientLine{}, errors.NewExternalServiceError("ingredients", err)
	}

	for _, ing := range all {
		if ing.ID == ingredientID {
			return ing.LineFor(quantity), nil
		}
	}
	return recipe.IngredientLine{}, errors.NewNotFoundError("ingredient").WithMetadata("ingredient_id", ingredientID)
}
