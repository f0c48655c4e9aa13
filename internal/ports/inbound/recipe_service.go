// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the presentation layer
package inbound

import (
	"context"

	"github.com/nutriplan/client/internal/domain/recipe"
)

// DraftService manages the recipe being composed
type DraftService interface {
	// Commands - mutate the draft
	SetName(name string)
	SetPreparation(text string)
	AddIngredientLine(line recipe.IngredientLine) error
	RemoveIngredientLine(ingredientID int64)
	ReplaceIngredientLines(lines []recipe.IngredientLine)
	ResetDraft()

	// Remote operations
	LoadForEdit(ctx context.Context, recipeID int64) error
	Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error)

	// Queries
	Draft() DraftDTO
}

// RecipeListService exposes the user's saved recipes
type RecipeListService interface {
	RefetchAll(ctx context.Context) error
	Insert(r recipe.SavedRecipe)
	RemoveFromList(id int64)
	UpdateInList(r recipe.SavedRecipe)
	DeleteRecipe(ctx context.Context, id int64) error

	// Queries - derived values are computed on every call
	Recipes() []recipe.SavedRecipe
	Recipe(id int64) (recipe.SavedRecipe, bool)
	RecipeCalories(id int64) (float64, bool)
	TotalCalories(ids []int64) float64
}

// SaveCommand selects create or edit
type SaveCommand struct {
	Mode     recipe.SaveMode
	RecipeID int64 // required in edit mode
}

// SaveResult describes an accepted save
type SaveResult struct {
	Mode recipe.SaveMode

	// Recipe is the saved state when known. A create the backend did not
	// echo leaves it nil; the list is refetched instead.
	Recipe *recipe.SavedRecipe
}

// DraftDTO is a read-only snapshot of the draft
type DraftDTO struct {
	Name          string
	Preparation   string
	Lines         []recipe.IngredientLine
	TotalCalories float64
}
