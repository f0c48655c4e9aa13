package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// Resolver maps the session's stored email to the backend user
type Resolver struct {
	store  outbound.CredentialStore
	users  outbound.UserGateway
	logger *zap.Logger
}

// NewResolver creates a current-user resolver
func NewResolver(store outbound.CredentialStore, users outbound.UserGateway, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		users:  users,
		logger: logger.Named("user-resolver"),
	}
}

// CurrentUser resolves the signed-in user. Every failure is reported as
// USER_RESOLUTION_FAILED with the underlying reason as cause.
func (r *Resolver) CurrentUser(ctx context.Context) (*user.User, error) {
	stored, ok, err := r.store.Get(ctx, outbound.KeyUserEmail)
	if err != nil {
		return nil, errors.NewUserResolutionError("stored email unavailable", err)
	}
	if !ok {
		return nil, errors.NewUserResolutionError("no stored email", user.ErrEmailMissing)
	}

	email, err := user.CheckEmail(stored)
	if err != nil {
		return nil, errors.NewUserResolutionError("stored email unusable", err)
	}

	u, err := r.users.ResolveByEmail(ctx, email)
	if err != nil {
		r.logger.Error("Failed to resolve user by email", zap.Error(err))
		return nil, errors.NewUserResolutionError("user lookup failed", err)
	}
	if u == nil {
		return nil, errors.NewUserResolutionError("no user matches stored email", user.ErrUserNotFound)
	}

	return u, nil
}

// CurrentUserID resolves only the id of the signed-in user
func (r *Resolver) CurrentUserID(ctx context.Context) (int64, error) {
	u, err := r.CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}
