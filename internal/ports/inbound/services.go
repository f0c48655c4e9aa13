package inbound

import (
	"context"

	"github.com/nutriplan/client/internal/domain/nutrition"
	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/outbound"
)

// SessionService handles sign-in state and account maintenance
type SessionService interface {
	Login(ctx context.Context, creds user.Credentials) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg user.Registration) error
	UpdateProfile(ctx context.Context, upd user.ProfileUpdate) error
	CurrentUser(ctx context.Context) (*user.User, error)
}

// CatalogService searches the ingredient catalog
type CatalogService interface {
	Search(ctx context.Context, query string) ([]recipe.Ingredient, error)
	BuildLine(ctx context.Context, ingredientID int64, quantity float64) (recipe.IngredientLine, error)
}

// NutritionService computes the dashboard figures
type NutritionService interface {
	Dashboard(ctx context.Context, selectedRecipeIDs []int64) (*DashboardDTO, error)
}

// AdviceService returns the advice feed
type AdviceService interface {
	Latest(ctx context.Context) ([]outbound.Advice, error)
}

// DashboardDTO is everything the home screen renders
type DashboardDTO struct {
	UserName string

	BMI           float64
	BMICategory   nutrition.BMICategory
	MarkerPercent float64

	RecommendedCalories float64
	// UsingFallback is set when the profile was incomplete and the
	// configured fallback budget was used.
	UsingFallback bool

	Budget nutrition.Budget
}
