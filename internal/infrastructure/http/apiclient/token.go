package apiclient

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// TokenSource reads the bearer credential from the credential store
type TokenSource struct {
	store outbound.CredentialStore
	now   func() time.Time
}

// NewTokenSource creates a token source over store
func NewTokenSource(store outbound.CredentialStore) *TokenSource {
	return &TokenSource{store: store, now: time.Now}
}

// Token returns the stored access token. Tokens are stored JSON-encoded,
// so surrounding quotes are stripped. JWTs whose exp has passed are
// rejected; anything that does not parse as a JWT is treated as opaque.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	raw, ok, err := s.store.Get(ctx, outbound.KeyUserToken)
	if err != nil {
		return "", errors.NewStorageError("read token", err)
	}

	token := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if !ok || token == "" {
		return "", errors.NewUnauthorizedError("no active session")
	}

	if s.expired(token) {
		return "", errors.NewUnauthorizedError("session expired")
	}

	return token, nil
}

func (s *TokenSource) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.Time.After(s.now())
}
