// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to reach the backend and local storage
package outbound

import (
	"context"
	"time"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/user"
)

// RecipeGateway is the remote recipe service. Every call carries the
// bearer credential held by the adapter.
type RecipeGateway interface {
	// Create returns nil when the backend accepted the recipe without
	// echoing it back.
	Create(ctx context.Context, sub recipe.Submission) (*recipe.SavedRecipe, error)
	Update(ctx context.Context, id int64, sub recipe.Submission) (*recipe.SavedRecipe, error)
	Delete(ctx context.Context, id int64) error

	// FetchByID returns nil, nil when the backend has no such recipe
	FetchByID(ctx context.Context, id int64) (*recipe.SavedRecipe, error)
	FetchAllForUser(ctx context.Context, userID int64) ([]recipe.SavedRecipe, error)
}

// UserGateway is the remote user service
type UserGateway interface {
	// ResolveByEmail returns nil, nil when no user matches
	ResolveByEmail(ctx context.Context, email string) (*user.User, error)
	Register(ctx context.Context, reg user.Registration) error
	Update(ctx context.Context, userID int64, upd user.ProfileUpdate) error
}

// AuthGateway exchanges credentials for an access token
type AuthGateway interface {
	Login(ctx context.Context, creds user.Credentials) (accessToken string, err error)
}

// IngredientCatalog lists the shared ingredient catalog
type IngredientCatalog interface {
	ListIngredients(ctx context.Context) ([]recipe.Ingredient, error)
}

// Advice is a nutrition tip published by the backend
type Advice struct {
	ID           int64
	Title        string
	Description  string
	CreationDate string
}

// AdviceGateway lists published advice in publication order
type AdviceGateway interface {
	ListAdvice(ctx context.Context) ([]Advice, error)
}

// MetricsRecorder records gateway call metrics
type MetricsRecorder interface {
	RecordRequest(endpoint, method string, status int, duration time.Duration)
	RecordRateLimited(endpoint string)
}
