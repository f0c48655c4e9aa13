package apiclient

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/outbound"
)

// envelope is the backend's response wrapper
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// empty reports whether the envelope carries no payload
func (e envelope) empty() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// number decodes a JSON number or numeric string. Null, empty and
// unparsable values decode to unset.
type number struct {
	value *float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	n.value = nil

	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		return nil
	}
	raw = strings.Trim(raw, `"`)

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.value = &f
	return nil
}

func (n number) orZero() float64 {
	if n.value == nil {
		return 0
	}
	return *n.value
}

// Recipes

type ingredientDTO struct {
	ID               int64  `json:"id"`
	IngredientID     int64  `json:"ingredientId"`
	Name             string `json:"name"`
	Quantity         number `json:"quantity"`
	Active           bool   `json:"active"`
	QuantityCalories number `json:"quantityCalories"`
}

type recipeDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Preparation string          `json:"preparation"`
	Ingredients []ingredientDTO `json:"ingredients"`
}

func (d recipeDTO) toDomain() recipe.SavedRecipe {
	r := recipe.SavedRecipe{
		ID:          d.ID,
		Name:        d.Name,
		Preparation: d.Preparation,
		Ingredients: make([]recipe.SavedIngredient, 0, len(d.Ingredients)),
	}
	for _, ing := range d.Ingredients {
		id := ing.ID
		if id == 0 {
			id = ing.IngredientID
		}
		r.Ingredients = append(r.Ingredients, recipe.SavedIngredient{
			ID:                  id,
			DisplayName:         ing.Name,
			Quantity:            ing.Quantity.orZero(),
			Active:              ing.Active,
			CaloriesForQuantity: ing.QuantityCalories.orZero(),
		})
	}
	return r
}

type submissionLineDTO struct {
	IngredientID     int64   `json:"ingredientId"`
	Quantity         float64 `json:"quantity"`
	QuantityCalories float64 `json:"quantityCalories"`
}

type submissionDTO struct {
	Name        string              `json:"name"`
	Preparation string              `json:"preparation"`
	UserID      int64               `json:"userId"`
	Ingredients []submissionLineDTO `json:"ingredients"`
}

func newSubmissionDTO(sub recipe.Submission) submissionDTO {
	dto := submissionDTO{
		Name:        sub.Name,
		Preparation: sub.Preparation,
		UserID:      sub.OwnerUserID,
		Ingredients: make([]submissionLineDTO, 0, len(sub.Ingredients)),
	}
	for _, line := range sub.Ingredients {
		dto.Ingredients = append(dto.Ingredients, submissionLineDTO{
			IngredientID:     line.IngredientID,
			Quantity:         line.Quantity,
			QuantityCalories: line.CaloriesForQuantity,
		})
	}
	return dto
}

// Users

type infoUserDTO struct {
	Height        number `json:"height"`
	Weight        number `json:"weight"`
	ActivityLevel string `json:"activityLevel"`
	Sex           string `json:"sex"`
	Age           number `json:"age"`
}

type userDTO struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	RegistrationDate string       `json:"registrationDate"`
	InfoUser         *infoUserDTO `json:"infoUser"`
}

func (d userDTO) toDomain() *user.User {
	u := &user.User{ID: d.ID, Name: d.Name}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, d.RegistrationDate); err == nil {
			u.RegistrationDate = t
			break
		}
	}
	if d.InfoUser != nil {
		u.Profile = user.BiometricProfile{
			WeightKg:      d.InfoUser.Weight.value,
			HeightCm:      d.InfoUser.Height.value,
			Age:           d.InfoUser.Age.value,
			Sex:           d.InfoUser.Sex,
			ActivityLevel: d.InfoUser.ActivityLevel,
		}
	}
	return u
}

type accountInfoDTO struct {
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
	Sex           string  `json:"sex,omitempty"`
	Age           float64 `json:"age,omitempty"`
}

type accountDTO struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	InfoUser accountInfoDTO `json:"infoUser"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Catalog and advice

type catalogIngredientDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Calories number `json:"calories"`
}

func (d catalogIngredientDTO) toDomain() recipe.Ingredient {
	return recipe.Ingredient{ID: d.ID, Name: d.Name, CaloriesPer100: d.Calories.value}
}

type adviceDTO struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreationDate string `json:"creationDate"`
}

func (d adviceDTO) toPort() outbound.Advice {
	return outbound.Advice{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		CreationDate: d.CreationDate,
	}
}
