// Package advice serves the latest nutrition advice for the home screen
package advice

import (
	"context"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// DefaultLimit is how many advice entries the home screen shows
const DefaultLimit = 5

// Service implements the advice feed
type Service struct {
	gateway outbound.AdviceGateway
	limit   int
	logger  *zap.Logger
}

var _ inbound.AdviceService = (*Service)(nil)

// NewService creates an advice service returning at most limit entries
func NewService(gateway outbound.AdviceGateway, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		gateway: gateway,
		limit:   limit,
		logger:  logger.Named("advice-service"),
	}
}

// Latest returns the newest entries first. The backend lists advice in
// publication order, so the tail of its list is the newest.
func (s *Service) Latest(ctx context.Context) ([]outbound.Advice, error) {
	all, err := s.gateway.ListAdvice(ctx)
	if err != nil {
		s.logger.Error("Failed to list advice", zap.Error(err))
		return nil, errors.NewExternalServiceError("advices", err)
	}

	start := max(len(all)-s.limit, 0)
	latest := make([]outbound.Advice, 0, len(all)-start)
	for i := len(all) - 1; i >= start; i-- {
		latest = append(latest, all[i])
	}
	return latest, nil
}
