// Package user provides the application layer for the signed-in account:
// session handling and resolution of the current user.
package user

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// SessionService implements the account use cases
type SessionService struct {
	auth      outbound.AuthGateway
	users     outbound.UserGateway
	store     outbound.CredentialStore
	resolver  *Resolver
	validator *user.Validator
	logger    *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	auth outbound.AuthGateway,
	users outbound.UserGateway,
	store outbound.CredentialStore,
	resolver *Resolver,
	validator *user.Validator,
	logger *zap.Logger,
) inbound.SessionService {
	return &SessionService{
		auth:      auth,
		users:     users,
		store:     store,
		resolver:  resolver,
		validator: validator,
		logger:    logger.Named("session-service"),
	}
}

// Login exchanges credentials for a token and stores the session. Values
// are written JSON-serialized.
func (s *SessionService) Login(ctx context.Context, creds user.Credentials) error {
	if err := s.validator.Validate(creds); err != nil {
		return err
	}

	s.logger.Info("Logging in", zap.String("email", creds.Email))

	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, errors.CodeUnauthorized) || errors.Is(err, errors.CodeInvalidCredentials) {
			return err
		}
		return errors.NewExternalServiceError("auth", err)
	}
	if token == "" {
		return errors.NewInvalidCredentialsError()
	}

	if err := s.put(ctx, outbound.KeyUserToken, token); err != nil {
		return err
	}
	if err := s.put(ctx, outbound.KeyUserEmail, creds.Email); err != nil {
		return err
	}

	s.logger.Info("Logged in", zap.String("email", creds.Email))
	return nil
}

// Logout forgets the stored session
func (s *SessionService) Logout(ctx context.Context) error {
	for _, key := range []string{outbound.KeyUserToken, outbound.KeyUserEmail} {
		if err := s.store.Delete(ctx, key); err != nil {
			return errors.NewStorageError("delete "+key, err)
		}
	}
	s.logger.Info("Logged out")
	return nil
}

// Register creates a new account
func (s *SessionService) Register(ctx context.Context, reg user.Registration) error {
	if err := s.validator.Validate(reg); err != nil {
		return err
	}

	if err := s.users.Register(ctx, reg); err != nil {
		s.logger.Error("Registration failed", zap.String("email", reg.Email), zap.Error(err))
		return errors.NewExternalServiceError("users", err)
	}

	s.logger.Info("User registered", zap.String("email", reg.Email))
	return nil
}

// UpdateProfile replaces the signed-in user's account data. The backend
// invalidates the session afterwards, so the caller should log in again.
func (s *SessionService) UpdateProfile(ctx context.Context, upd user.ProfileUpdate) error {
	if err := s.validator.Validate(upd); err != nil {
		return err
	}

	userID, err := s.resolver.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	if err := s.users.Update(ctx, userID, upd); err != nil {
		s.logger.Error("Profile update failed", zap.Int64("user_id", userID), zap.Error(err))
		return errors.NewExternalServiceError("users", err)
	}

	s.logger.Info("Profile updated", zap.Int64("user_id", userID))
	return nil
}

// CurrentUser returns the signed-in user
func (s *SessionService) CurrentUser(ctx context.Context) (*user.User, error) {
	return s.resolver.CurrentUser(ctx)
}

func (s *SessionService) put(ctx context.Context, key, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return errors.NewInternalError("encode " + key)
	}
	if err := s.store.Set(ctx, key, string(encoded)); err != nil {
		return errors.NewStorageError("store "+key, err)
	}
	return nil
}
