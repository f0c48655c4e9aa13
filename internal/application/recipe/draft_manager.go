package recipe

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/shared"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// DraftManager implements the draft use cases. One manager owns one draft.
type DraftManager struct {
	gateway  outbound.RecipeGateway
	resolver UserIDResolver
	list     *ListStore
	events   shared.EventDispatcher
	logger   *zap.Logger

	mu    sync.Mutex
	draft *recipe.Draft
}

var _ inbound.DraftService = (*DraftManager)(nil)

// NewDraftManager creates a manager with an empty draft
func NewDraftManager(
	gateway outbound.RecipeGateway,
	resolver UserIDResolver,
	list *ListStore,
	events shared.EventDispatcher,
	logger *zap.Logger,
) *DraftManager {
	return &DraftManager{
		gateway:  gateway,
		resolver: resolver,
		list:     list,
		events:   events,
		logger:   logger.Named("recipe-draft"),
		draft:    recipe.NewDraft(),
	}
}

// SetName replaces the draft name
func (m *DraftManager) SetName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.SetName(name)
}

// SetPreparation replaces the preparation text
func (m *DraftManager) SetPreparation(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.SetPreparation(text)
}

// AddIngredientLine appends line, rejecting ingredients already present
func (m *DraftManager) AddIngredientLine(line recipe.IngredientLine) error {
	m.mu.Lock()
	err := m.draft.AddIngredientLine(line)
	m.mu.Unlock()

	if stderrors.Is(err, recipe.ErrDuplicateIngredient) {
		m.logger.Warn("Duplicate ingredient rejected", zap.Int64("ingredient_id", line.IngredientID))
		return errors.NewDuplicateIngredientError(line.IngredientID, err)
	}
	if err != nil {
		return errors.Wrap(err, "failed to add ingredient")
	}

	m.publish()
	return nil
}

// RemoveIngredientLine removes the line for ingredientID if present
func (m *DraftManager) RemoveIngredientLine(ingredientID int64) {
	m.mu.Lock()
	removed := m.draft.RemoveIngredientLine(ingredientID)
	m.mu.Unlock()

	if removed {
		m.publish()
	}
}

// ReplaceIngredientLines swaps the lines wholesale without duplicate checks
func (m *DraftManager) ReplaceIngredientLines(lines []recipe.IngredientLine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.ReplaceIngredientLines(lines)
}

// ResetDraft empties the draft
func (m *DraftManager) ResetDraft() {
	m.mu.Lock()
	m.draft.Reset()
	m.mu.Unlock()

	m.publish()
}

// LoadForEdit fetches recipeID and loads it into the draft
func (m *DraftManager) LoadForEdit(ctx context.Context, recipeID int64) error {
	m.logger.Info("Loading recipe for edit", zap.Int64("recipe_id", recipeID))

	saved, err := m.gateway.FetchByID(ctx, recipeID)
	if err != nil {
		m.logger.Error("Failed to fetch recipe", zap.Int64("recipe_id", recipeID), zap.Error(err))
		return errors.NewExternalServiceError("recipes", err)
	}
	if saved == nil {
		return errors.NewRecipeNotFoundError(recipeID).WithCause(recipe.ErrRecipeNotFound)
	}

	m.mu.Lock()
	m.draft.LoadFrom(*saved)
	m.mu.Unlock()

	m.publish()
	return nil
}

// Save validates the draft, resolves the owner and submits it. On any
// failure the draft is left as it was so the user can retry.
func (m *DraftManager) Save(ctx context.Context, cmd inbound.SaveCommand) (*inbound.SaveResult, error) {
	if cmd.Mode != recipe.SaveModeCreate && cmd.Mode != recipe.SaveModeEdit {
		return nil, errors.NewBadRequestError(fmt.Sprintf("unknown save mode %q", cmd.Mode))
	}

	m.mu.Lock()
	err := m.draft.Validate()
	m.mu.Unlock()
	if err != nil {
		var fieldErr *recipe.FieldError
		if stderrors.As(err, &fieldErr) {
			return nil, errors.NewValidationError(fieldErr.Field, fieldErr.Err.Error()).WithCause(err)
		}
		return nil, errors.Wrap(err, "draft validation failed")
	}
	if cmd.Mode == recipe.SaveModeEdit && cmd.RecipeID <= 0 {
		return nil, errors.NewValidationError(recipe.FieldRecipeID, "recipe id is required in edit mode")
	}

	ownerID, err := m.resolver.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	sub := m.draft.Submission(ownerID)
	edited := m.draft.AsSaved(cmd.RecipeID)
	m.mu.Unlock()

	m.logger.Info("Saving recipe",
		zap.String("mode", string(cmd.Mode)),
		zap.Int64("recipe_id", cmd.RecipeID),
		zap.Int64("owner_id", ownerID),
		zap.Int("ingredients", len(sub.Ingredients)),
	)

	var result *inbound.SaveResult
	if cmd.Mode == recipe.SaveModeEdit {
		result, err = m.update(ctx, cmd.RecipeID, sub, edited)
	} else {
		result, err = m.create(ctx, sub)
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.draft.Reset()
	m.mu.Unlock()

	savedID := int64(0)
	if result.Recipe != nil {
		savedID = result.Recipe.ID
	}
	m.dispatch(recipe.RecipeSavedEvent{RecipeID: savedID, Mode: cmd.Mode, SavedAt: time.Now()})
	m.publish()

	m.logger.Info("Recipe saved", zap.String("mode", string(cmd.Mode)), zap.Int64("recipe_id", savedID))
	return result, nil
}

func (m *DraftManager) create(ctx context.Context, sub recipe.Submission) (*inbound.SaveResult, error) {
	created, err := m.gateway.Create(ctx, sub)
	if err != nil {
		m.logger.Error("Failed to create recipe", zap.Error(err))
		return nil, errors.NewSaveFailedError("create recipe", err)
	}

	if created != nil {
		m.list.Insert(*created)
		return &inbound.SaveResult{Mode: recipe.SaveModeCreate, Recipe: created}, nil
	}

	// accepted without echo; the list only learns the new id by refetching
	if err := m.list.RefetchAll(ctx); err != nil {
		m.logger.Error("Refetch after create failed", zap.Error(err))
	}
	return &inbound.SaveResult{Mode: recipe.SaveModeCreate}, nil
}

func (m *DraftManager) update(ctx context.Context, recipeID int64, sub recipe.Submission, edited recipe.SavedRecipe) (*inbound.SaveResult, error) {
	if _, err := m.gateway.Update(ctx, recipeID, sub); err != nil {
		m.logger.Error("Failed to update recipe", zap.Int64("recipe_id", recipeID), zap.Error(err))
		return nil, errors.NewSaveFailedError("update recipe", err)
	}

	m.list.UpdateInList(edited)
	return &inbound.SaveResult{Mode: recipe.SaveModeEdit, Recipe: &edited}, nil
}

// Draft returns a snapshot of the draft
func (m *DraftManager) Draft() inbound.DraftDTO {
	m.mu.Lock()
	defer m.mu.Unlock()

	return inbound.DraftDTO{
		Name:          m.draft.Name(),
		Preparation:   m.draft.Preparation(),
		Lines:         m.draft.IngredientLines(),
		TotalCalories: m.draft.TotalCalories(),
	}
}

// publish dispatches the draft's pending events
func (m *DraftManager) publish() {
	m.mu.Lock()
	pending := m.draft.Events()
	m.mu.Unlock()

	for _, event := range pending {
		m.dispatch(event)
	}
}

func (m *DraftManager) dispatch(event shared.DomainEvent) {
	if err := m.events.Dispatch(event); err != nil {
		m.logger.Error("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}
}
