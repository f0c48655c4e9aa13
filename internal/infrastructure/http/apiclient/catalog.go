package apiclient

import (
	"context"
	"net/http"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/ports/outbound"
)

// CatalogGateway implements outbound.IngredientCatalog and
// outbound.AdviceGateway
type CatalogGateway struct {
	client *Client
}

// NewCatalogGateway creates a catalog gateway backed by client
func NewCatalogGateway(client *Client) *CatalogGateway {
	return &CatalogGateway{client: client}
}

var (
	_ outbound.IngredientCatalog = (*CatalogGateway)(nil)
	_ outbound.AdviceGateway     = (*CatalogGateway)(nil)
)

// ListIngredients fetches the full ingredient catalog
func (g *CatalogGateway) ListIngredients(ctx context.Context) ([]recipe.Ingredient, error) {
	var dtos []catalogIngredientDTO
	if _, err := g.client.doEnvelope(ctx, call{
		endpoint: "/api/v1/ingredients",
		method:   http.MethodGet,
		path:     "/api/v1/ingredients",
		auth:     authOptional,
	}, &dtos); err != nil {
		return nil, err
	}

	ingredients := make([]recipe.Ingredient, 0, len(dtos))
	for _, dto := range dtos {
		ingredients = append(ingredients, dto.toDomain())
	}
	return ingredients, nil
}

// ListAdvice fetches published advice in publication order
func (g *CatalogGateway) ListAdvice(ctx context.Context) ([]outbound.Advice, error) {
	var dtos []adviceDTO
	if _, err := g.client.doEnvelope(ctx, call{
		endpoint: "/api/v1/advices",
		method:   http.MethodGet,
		path:     "/api/v1/advices",
		auth:     authRequired,
	}, &dtos); err != nil {
		return nil, err
	}

	advice := make([]outbound.Advice, 0, len(dtos))
	for _, dto := range dtos {
		advice = append(advice, dto.toPort())
	}
	return advice, nil
}
