// Package recipe contains the core domain logic for composing recipes.
// The Draft aggregate is the working copy a user edits before it is
// submitted to the backend; SavedRecipe is what the backend returns.
package recipe

import (
	"strings"
	"time"

	"github.com/nutriplan/client/internal/domain/shared"
)

// Draft represents an in-progress recipe. It is a single mutable aggregate
// owned by one editing session.
type Draft struct {
	name        string
	preparation string

	// resolved at save time, never edited by the user
	ownerUserID int64

	// insertion order is display order; ingredient ids are unique
	lines []IngredientLine

	// Domain events to be dispatched
	events []shared.DomainEvent
}

// NewDraft creates an empty draft
func NewDraft() *Draft {
	return &Draft{lines: []IngredientLine{}}
}

// Name returns the draft name as typed
func (d *Draft) Name() string {
	return d.name
}

// Preparation returns the preparation text as typed
func (d *Draft) Preparation() string {
	return d.preparation
}

// OwnerUserID returns the user id resolved by the last save attempt
func (d *Draft) OwnerUserID() int64 {
	return d.ownerUserID
}

// IngredientLines returns a copy of the ingredient lines in display order
func (d *Draft) IngredientLines() []IngredientLine {
	out := make([]IngredientLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// TotalCalories sums caloriesForQuantity across the draft's lines
func (d *Draft) TotalCalories() float64 {
	var total float64
	for _, line := range d.lines {
		total += line.CaloriesForQuantity
	}
	return total
}

// IsEmpty reports whether the draft is in its initial state
func (d *Draft) IsEmpty() bool {
	return d.name == "" && d.preparation == "" && len(d.lines) == 0
}

// SetName replaces the name unconditionally. Validation happens at save.
func (d *Draft) SetName(name string) {
	d.name = name
}

// SetPreparation replaces the preparation text unconditionally
func (d *Draft) SetPreparation(text string) {
	d.preparation = text
}

// HasIngredient reports whether a line for ingredientID is present
func (d *Draft) HasIngredient(ingredientID int64) bool {
	return d.indexOf(ingredientID) >= 0
}

// AddIngredientLine appends a line. A line whose ingredient is already in
// the draft is rejected with ErrDuplicateIngredient and the draft is left
// untouched.
func (d *Draft) AddIngredientLine(line IngredientLine) error {
	if d.HasIngredient(line.IngredientID) {
		return ErrDuplicateIngredient
	}

	d.lines = append(d.lines, line)
	d.addEvent(IngredientLineAddedEvent{
		IngredientID: line.IngredientID,
		AddedAt:      time.Now(),
	})

	return nil
}

// RemoveIngredientLine drops the line for ingredientID. Absent ids are a
// no-op and the return value reports whether anything was removed.
func (d *Draft) RemoveIngredientLine(ingredientID int64) bool {
	idx := d.indexOf(ingredientID)
	if idx < 0 {
		return false
	}

	d.lines = append(d.lines[:idx:idx], d.lines[idx+1:]...)
	d.addEvent(IngredientLineRemovedEvent{
		IngredientID: ingredientID,
		RemovedAt:    time.Now(),
	})

	return true
}

// ReplaceIngredientLines swaps in lines wholesale. Lines come from the
// backend and are trusted, so no duplicate check runs here.
func (d *Draft) ReplaceIngredientLines(lines []IngredientLine) {
	d.lines = make([]IngredientLine, len(lines))
	copy(d.lines, lines)
}

// LoadFrom populates the draft from a saved recipe for editing
func (d *Draft) LoadFrom(saved SavedRecipe) {
	d.name = saved.Name
	d.preparation = saved.Preparation
	d.ReplaceIngredientLines(saved.IngredientLines())

	d.addEvent(DraftLoadedEvent{
		RecipeID: saved.ID,
		LoadedAt: time.Now(),
	})
}

// Reset returns the draft to its empty initial state
func (d *Draft) Reset() {
	d.name = ""
	d.preparation = ""
	d.ownerUserID = 0
	d.lines = []IngredientLine{}

	d.addEvent(DraftResetEvent{ResetAt: time.Now()})
}

// Validate checks the draft can be submitted. Checks run in a fixed order
// and the first failure is returned as a *FieldError.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.name) == "" {
		return &FieldError{Field: FieldName, Err: ErrNameRequired}
	}
	if strings.TrimSpace(d.preparation) == "" {
		return &FieldError{Field: FieldPreparation, Err: ErrPreparationRequired}
	}
	if len(d.lines) == 0 {
		return &FieldError{Field: FieldIngredients, Err: ErrNoIngredients}
	}
	return nil
}

// Submission builds the backend payload for ownerUserID
func (d *Draft) Submission(ownerUserID int64) Submission {
	d.ownerUserID = ownerUserID

	lines := make([]SubmissionLine, 0, len(d.lines))
	for _, line := range d.lines {
		lines = append(lines, SubmissionLine{
			IngredientID:        line.IngredientID,
			Quantity:            line.Quantity,
			CaloriesForQuantity: line.CaloriesForQuantity,
		})
	}

	return Submission{
		Name:        d.name,
		Preparation: d.preparation,
		OwnerUserID: ownerUserID,
		Ingredients: lines,
	}
}

// AsSaved reflects the draft as the saved recipe recipeID. Used after an
// update, when the backend does not echo the result back. Every ingredient
// is marked active.
func (d *Draft) AsSaved(recipeID int64) SavedRecipe {
	ingredients := make([]SavedIngredient, 0, len(d.lines))
	for _, line := range d.lines {
		ingredients = append(ingredients, SavedIngredient{
			ID:                  line.IngredientID,
			DisplayName:         line.DisplayName,
			Quantity:            line.Quantity,
			Active:              true,
			CaloriesForQuantity: line.CaloriesForQuantity,
		})
	}

	return SavedRecipe{
		ID:          recipeID,
		Name:        d.name,
		Preparation: d.preparation,
		Ingredients: ingredients,
	}
}

func (d *Draft) indexOf(ingredientID int64) int {
	for i, line := range d.lines {
		if line.IngredientID == ingredientID {
			return i
		}
	}
	return -1
}

// addEvent adds a domain event to be dispatched
func (d *Draft) addEvent(event shared.DomainEvent) {
	d.events = append(d.events, event)
}

// Events returns and clears pending domain events
func (d *Draft) Events() []shared.DomainEvent {
	events := d.events
	d.events = []shared.DomainEvent{}
	return events
}
