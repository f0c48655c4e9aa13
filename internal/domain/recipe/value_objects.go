package recipe

// Value Objects - Immutable objects that describe aspects of the domain

// IngredientLine is one ingredient of a draft. Name and calories are copied
// from the catalog when the line is created so rendering never needs the
// catalog again.
type IngredientLine struct {
	IngredientID        int64
	DisplayName         string
	Quantity            float64
	CaloriesForQuantity float64
	Active              bool
}

// SavedIngredient is an ingredient of a recipe as the backend returns it
type SavedIngredient struct {
	ID                  int64
	DisplayName         string
	Quantity            float64
	Active              bool
	CaloriesForQuantity float64
}

// SavedRecipe is a recipe persisted by the backend. The id is assigned by
// the server and is the recipe's identity everywhere in the client.
type SavedRecipe struct {
	ID          int64
	Name        string
	Preparation string
	Ingredients []SavedIngredient
}

// TotalCalories sums the calorie contribution of every ingredient
func (r SavedRecipe) TotalCalories() float64 {
	var total float64
	for _, ing := range r.Ingredients {
		total += ing.CaloriesForQuantity
	}
	return total
}

// IngredientLines maps the saved ingredients into draft lines. Calorie data
// the backend omitted arrives here as zero.
func (r SavedRecipe) IngredientLines() []IngredientLine {
	lines := make([]IngredientLine, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		lines = append(lines, IngredientLine{
			IngredientID:        ing.ID,
			DisplayName:         ing.DisplayName,
			Quantity:            ing.Quantity,
			CaloriesForQuantity: ing.CaloriesForQuantity,
			Active:              ing.Active,
		})
	}
	return lines
}

// Submission is the payload sent to the backend on create and update
type Submission struct {
	Name        string
	Preparation string
	OwnerUserID int64
	Ingredients []SubmissionLine
}

// SubmissionLine is one ingredient of a Submission
type SubmissionLine struct {
	IngredientID        int64
	Quantity            float64
	CaloriesForQuantity float64
}

// Ingredient is an entry of the shared ingredient catalog
type Ingredient struct {
	ID   int64
	Name string

	// CaloriesPer100 is kcal per 100 units of quantity; nil when the
	// catalog has no calorie data for the entry.
	CaloriesPer100 *float64
}

// LineFor builds a draft line for the given quantity
func (i Ingredient) LineFor(quantity float64) IngredientLine {
	line := IngredientLine{
		IngredientID: i.ID,
		DisplayName:  i.Name,
		Quantity:     quantity,
	}
	if i.CaloriesPer100 != nil {
		line.CaloriesForQuantity = quantity / 100 * *i.CaloriesPer100
	}
	return line
}

// SaveMode selects between creating a new recipe and updating an existing one
type SaveMode string

const (
	SaveModeCreate SaveMode = "create"
	SaveModeEdit   SaveMode = "edit"
)

// Draft field names reported by validation
const (
	FieldName        = "name"
	FieldPreparation = "preparation"
	FieldIngredients = "ingredients"
	FieldRecipeID    = "recipe_id"
	FieldQuantity    = "quantity"
)
