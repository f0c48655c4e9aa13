// Package nutrition assembles the dashboard: body-mass index, calorie
// recommendation and the day's budget.
package nutrition

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/nutrition"
	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/pkg/errors"
)

// DefaultFallbackCalories is shown when the profile cannot feed the calculator
const DefaultFallbackCalories = 1500

// Config holds the dashboard settings
type Config struct {
	FallbackDailyCalories float64
	WarningRatio          float64
}

// UserSource resolves the signed-in user
type UserSource interface {
	CurrentUser(ctx context.Context) (*user.User, error)
}

// CalorieSource sums the calories of saved recipes
type CalorieSource interface {
	TotalCalories(ids []int64) float64
}

// Service implements the dashboard use case
type Service struct {
	users   UserSource
	recipes CalorieSource
	cfg     Config
	logger  *zap.Logger
}

var _ inbound.NutritionService = (*Service)(nil)

// NewService creates a nutrition service
func NewService(users UserSource, recipes CalorieSource, cfg Config, logger *zap.Logger) *Service {
	if cfg.FallbackDailyCalories <= 0 {
		cfg.FallbackDailyCalories = DefaultFallbackCalories
	}
	if cfg.WarningRatio <= 0 {
		cfg.WarningRatio = nutrition.DefaultWarningRatio
	}
	return &Service{
		users:   users,
		recipes: recipes,
		cfg:     cfg,
		logger:  logger.Named("nutrition-service"),
	}
}

// Dashboard computes the home-screen figures for the selected recipes
func (s *Service) Dashboard(ctx context.Context, selectedRecipeIDs []int64) (*inbound.DashboardDTO, error) {
	u, err := s.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	dto := &inbound.DashboardDTO{UserName: u.Name}

	p := u.Profile
	if p.WeightKg != nil && p.HeightCm != nil {
		dto.BMI = nutrition.BMI(*p.WeightKg, *p.HeightCm)
		dto.BMICategory = nutrition.CategoryFor(dto.BMI)
		dto.MarkerPercent = nutrition.MarkerPercent(dto.BMI)
	}

	recommended, err := RecommendedOrFallback(p, s.cfg.FallbackDailyCalories)
	if err != nil {
		s.logger.Warn("Profile incomplete, using fallback budget",
			zap.Int64("user_id", u.ID),
			zap.Float64("fallback", recommended),
		)
		dto.UsingFallback = true
	}
	dto.RecommendedCalories = recommended

	consumed := s.recipes.TotalCalories(selectedRecipeIDs)
	dto.Budget = nutrition.EvaluateBudget(consumed, recommended, s.cfg.WarningRatio)

	return dto, nil
}

// RecommendedOrFallback returns the recommendation for p, or fallback
// together with the INCOMPLETE_PROFILE error when p is incomplete.
func RecommendedOrFallback(p user.BiometricProfile, fallback float64) (float64, error) {
	kcal, err := nutrition.RecommendedCalories(p.CalculatorProfile())
	if stderrors.Is(err, nutrition.ErrIncompleteProfile) {
		return fallback, errors.NewIncompleteProfileError(err)
	}
	return kcal, err
}
