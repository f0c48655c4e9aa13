package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/ports/outbound"
)

// RecipeGateway implements outbound.RecipeGateway
type RecipeGateway struct {
	client *Client
}

// NewRecipeGateway creates a recipe gateway backed by client
func NewRecipeGateway(client *Client) outbound.RecipeGateway {
	return &RecipeGateway{client: client}
}

// Create posts a new recipe. The created recipe is returned when the
// backend echoes it.
func (g *RecipeGateway) Create(ctx context.Context, sub recipe.Submission) (*recipe.SavedRecipe, error) {
	return g.write(ctx, call{
		endpoint: "/api/v1/recipes",
		method:   http.MethodPost,
		path:     "/api/v1/recipes",
		body:     newSubmissionDTO(sub),
		auth:     authRequired,
	})
}

// Update replaces recipe id
func (g *RecipeGateway) Update(ctx context.Context, id int64, sub recipe.Submission) (*recipe.SavedRecipe, error) {
	return g.write(ctx, call{
		endpoint: "/api/v1/recipes/{id}",
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/v1/recipes/%d", id),
		body:     newSubmissionDTO(sub),
		auth:     authRequired,
	})
}

// Delete removes recipe id
func (g *RecipeGateway) Delete(ctx context.Context, id int64) error {
	_, err := g.client.do(ctx, call{
		endpoint: "/api/v1/recipes/{id}",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/api/v1/recipes/%d", id),
		auth:     authRequired,
	})
	return err
}

// FetchByID returns nil, nil on 404
func (g *RecipeGateway) FetchByID(ctx context.Context, id int64) (*recipe.SavedRecipe, error) {
	var dto recipeDTO
	ok, err := g.client.doEnvelope(ctx, call{
		endpoint: "/api/v1/recipes/{id}",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/v1/recipes/%d", id),
		auth:     authRequired,
	}, &dto)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil || !ok {
		return nil, err
	}

	saved := dto.toDomain()
	return &saved, nil
}

// FetchAllForUser lists every recipe owned by userID
func (g *RecipeGateway) FetchAllForUser(ctx context.Context, userID int64) ([]recipe.SavedRecipe, error) {
	var dtos []recipeDTO
	if _, err := g.client.doEnvelope(ctx, call{
		endpoint: "/api/v1/recipes/user/{userId}",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/v1/recipes/user/%d", userID),
		auth:     authRequired,
	}, &dtos); err != nil {
		return nil, err
	}

	recipes := make([]recipe.SavedRecipe, 0, len(dtos))
	for _, dto := range dtos {
		recipes = append(recipes, dto.toDomain())
	}
	return recipes, nil
}

func (g *RecipeGateway) write(ctx context.Context, cl call) (*recipe.SavedRecipe, error) {
	var dto recipeDTO
	ok, err := g.client.doEnvelope(ctx, cl, &dto)
	if err != nil {
		return nil, err
	}
	if !ok || dto.ID == 0 {
		return nil, nil
	}

	saved := dto.toDomain()
	return &saved, nil
}
