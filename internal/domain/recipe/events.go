package recipe

import "time"

// Domain Events - Events that occur within the recipe domain

// IngredientLineAddedEvent is raised when a line is appended to the draft
type IngredientLineAddedEvent struct {
	IngredientID int64
	AddedAt      time.Time
}

func (e IngredientLineAddedEvent) EventName() string {
	return "recipe.draft.ingredient.added"
}

func (e IngredientLineAddedEvent) OccurredAt() time.Time {
	return e.AddedAt
}

// IngredientLineRemovedEvent is raised when a line leaves the draft
type IngredientLineRemovedEvent struct {
	IngredientID int64
	RemovedAt    time.Time
}

func (e IngredientLineRemovedEvent) EventName() string {
	return "recipe.draft.ingredient.removed"
}

func (e IngredientLineRemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}

// DraftLoadedEvent is raised when an existing recipe is loaded for editing
type DraftLoadedEvent struct {
	RecipeID int64
	LoadedAt time.Time
}

func (e DraftLoadedEvent) EventName() string {
	return "recipe.draft.loaded"
}

func (e DraftLoadedEvent) OccurredAt() time.Time {
	return e.LoadedAt
}

// DraftResetEvent is raised when the draft returns to its empty state
type DraftResetEvent struct {
	ResetAt time.Time
}

func (e DraftResetEvent) EventName() string {
	return "recipe.draft.reset"
}

func (e DraftResetEvent) OccurredAt() time.Time {
	return e.ResetAt
}

// RecipeSavedEvent is raised after the backend accepted a draft
type RecipeSavedEvent struct {
	RecipeID int64 // zero when the backend did not echo the created recipe
	Mode     SaveMode
	SavedAt  time.Time
}

func (e RecipeSavedEvent) EventName() string {
	return "recipe.saved"
}

func (e RecipeSavedEvent) OccurredAt() time.Time {
	return e.SavedAt
}

// RecipeListChangedEvent is raised whenever the saved recipe list changes
type RecipeListChangedEvent struct {
	Reason    string
	Count     int
	ChangedAt time.Time
}

func (e RecipeListChangedEvent) EventName() string {
	return "recipe.list.changed"
}

func (e RecipeListChangedEvent) OccurredAt() time.Time {
	return e.ChangedAt
}
