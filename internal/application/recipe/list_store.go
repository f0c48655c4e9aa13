// Package recipe provides the application layer for recipe composition:
// the draft manager and the store of the user's saved recipes.
package recipe

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/shared"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// UserIDResolver resolves the signed-in user's backend id
type UserIDResolver interface {
	CurrentUserID(ctx context.Context) (int64, error)
}

// ListStore holds the signed-in user's saved recipes, unique by id.
//
// The mutex guards the slice only. It is never held across a gateway call,
// so a refetch and a save in flight at the same time apply their results in
// arrival order.
type ListStore struct {
	gateway  outbound.RecipeGateway
	resolver UserIDResolver
	events   shared.EventDispatcher
	logger   *zap.Logger

	mu      sync.RWMutex
	recipes []recipe.SavedRecipe
}

var _ inbound.RecipeListService = (*ListStore)(nil)

// NewListStore creates an empty store
func NewListStore(
	gateway outbound.RecipeGateway,
	resolver UserIDResolver,
	events shared.EventDispatcher,
	logger *zap.Logger,
) *ListStore {
	return &ListStore{
		gateway:  gateway,
		resolver: resolver,
		events:   events,
		logger:   logger.Named("recipe-list"),
		recipes:  []recipe.SavedRecipe{},
	}
}

// RefetchAll replaces the collection with the backend's list. Repeated ids
// in the response keep the position of their first occurrence and the
// values of their last.
func (s *ListStore) RefetchAll(ctx context.Context) error {
	userID, err := s.resolver.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	fetched, err := s.gateway.FetchAllForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch recipes", zap.Int64("user_id", userID), zap.Error(err))
		return errors.NewExternalServiceError("recipes", err)
	}

	deduped := dedupe(fetched)

	s.mu.Lock()
	s.recipes = deduped
	s.mu.Unlock()

	s.logger.Info("Recipes refetched",
		zap.Int64("user_id", userID),
		zap.Int("fetched", len(fetched)),
		zap.Int("kept", len(deduped)),
	)
	s.changed("refetch", len(deduped))
	return nil
}

// Insert adds a recipe. An id already present is replaced in place so the
// collection stays unique.
func (s *ListStore) Insert(r recipe.SavedRecipe) {
	s.mu.Lock()
	if idx := s.indexOf(r.ID); idx >= 0 {
		s.recipes[idx] = clone(r)
	} else {
		s.recipes = append(s.recipes, clone(r))
	}
	n := len(s.recipes)
	s.mu.Unlock()

	s.changed("insert", n)
}

// RemoveFromList drops the recipe with id. Absent ids are a no-op.
func (s *ListStore) RemoveFromList(id int64) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.recipes = append(s.recipes[:idx:idx], s.recipes[idx+1:]...)
	n := len(s.recipes)
	s.mu.Unlock()

	s.changed("remove", n)
}

// UpdateInList replaces the entry matching r.ID. Nothing is inserted when
// no entry matches.
func (s *ListStore) UpdateInList(r recipe.SavedRecipe) {
	s.mu.Lock()
	idx := s.indexOf(r.ID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("Update for unknown recipe ignored", zap.Int64("recipe_id", r.ID))
		return
	}
	s.recipes[idx] = clone(r)
	n := len(s.recipes)
	s.mu.Unlock()

	s.changed("update", n)
}

// DeleteRecipe deletes remotely, then locally. A gateway failure leaves
// the list unchanged.
func (s *ListStore) DeleteRecipe(ctx context.Context, id int64) error {
	s.logger.Info("Deleting recipe", zap.Int64("recipe_id", id))

	if err := s.gateway.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete recipe", zap.Int64("recipe_id", id), zap.Error(err))
		return errors.NewExternalServiceError("recipes", err)
	}

	s.RemoveFromList(id)
	return nil
}

// Recipes returns a copy of the collection in order
func (s *ListStore) Recipes() []recipe.SavedRecipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recipe.SavedRecipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, clone(r))
	}
	return out
}

// Recipe returns the recipe with id
func (s *ListStore) Recipe(id int64) (recipe.SavedRecipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return clone(s.recipes[idx]), true
	}
	return recipe.SavedRecipe{}, false
}

// RecipeCalories returns the calorie total of one recipe
func (s *ListStore) RecipeCalories(id int64) (float64, bool) {
	r, ok := s.Recipe(id)
	if !ok {
		return 0, false
	}
	return r.TotalCalories(), true
}

// TotalCalories sums the recipes selected by ids. Unknown ids are ignored
// and each recipe counts once.
func (s *ListStore) TotalCalories(ids []int64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	var total float64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if idx := s.indexOf(id); idx >= 0 {
			total += s.recipes[idx].TotalCalories()
		}
	}
	return total
}

// indexOf must be called with mu held
func (s *ListStore) indexOf(id int64) int {
	for i, r := range s.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *ListStore) changed(reason string, count int) {
	event := recipe.RecipeListChangedEvent{Reason: reason, Count: count, ChangedAt: time.Now()}
	if err := s.events.Dispatch(event); err != nil {
		s.logger.Error("Failed to dispatch event", zap.String("event", event.EventName()), zap.Error(err))
	}
}

func dedupe(fetched []recipe.SavedRecipe) []recipe.SavedRecipe {
	positions := make(map[int64]int, len(fetched))
	out := make([]recipe.SavedRecipe, 0, len(fetched))
	for _, r := range fetched {
		if idx, ok := positions[r.ID]; ok {
			out[idx] = clone(r)
			continue
		}
		positions[r.ID] = len(out)
		out = append(out, clone(r))
	}
	return out
}

func clone(r recipe.SavedRecipe) recipe.SavedRecipe {
	if r.Ingredients != nil {
		ingredients := make([]recipe.SavedIngredient, len(r.Ingredients))
		copy(ingredients, r.Ingredients)
		r.Ingredients = ingredients
	}
	return r
}
