package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/user"
)

// Factory creates test data from a seeded faker
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory; a zero seed uses the current time
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed)}
}

// Line returns an ingredient line for ingredientID
func (f *Factory) Line(ingredientID int64) recipe.IngredientLine {
	return recipe.IngredientLine{
		IngredientID:        ingredientID,
		DisplayName:         f.faker.Vegetable(),
		Quantity:            float64(f.faker.IntRange(10, 500)),
		CaloriesForQuantity: float64(f.faker.IntRange(0, 900)),
		Active:              true,
	}
}

// SavedRecipe returns a saved recipe with id and n ingredients
func (f *Factory) SavedRecipe(id int64, n int) recipe.SavedRecipe {
	ingredients := make([]recipe.SavedIngredient, 0, n)
	for i := 0; i < n; i++ {
		line := f.Line(int64(i + 1))
		ingredients = append(ingredients, recipe.SavedIngredient{
			ID:                  line.IngredientID,
			DisplayName:         line.DisplayName,
			Quantity:            line.Quantity,
			Active:              true,
			CaloriesForQuantity: line.CaloriesForQuantity,
		})
	}
	return recipe.SavedRecipe{
		ID:          id,
		Name:        f.faker.Dinner(),
		Preparation: f.faker.Sentence(8),
		Ingredients: ingredients,
	}
}

// Ingredient returns a catalog entry, with calorie data when kcal is set
func (f *Factory) Ingredient(id int64, name string, kcal *float64) recipe.Ingredient {
	if name == "" {
		name = f.faker.Fruit()
	}
	return recipe.Ingredient{ID: id, Name: name, CaloriesPer100: kcal}
}

// User returns a user with a complete biometric profile
func (f *Factory) User(id int64) *user.User {
	weight := float64(f.faker.IntRange(45, 110))
	height := float64(f.faker.IntRange(150, 200))
	age := float64(f.faker.IntRange(18, 80))
	return &user.User{
		ID:               id,
		Name:             f.faker.FirstName(),
		RegistrationDate: f.faker.Date(),
		Profile: user.BiometricProfile{
			WeightKg:      &weight,
			HeightCm:      &height,
			Age:           &age,
			Sex:           f.faker.RandomString([]string{"Femenino", "Masculino"}),
			ActivityLevel: f.faker.RandomString([]string{"Baja", "Moderada", "Alta"}),
		},
	}
}

// Email returns a fresh email address
func (f *Factory) Email() string {
	return f.faker.Email()
}
