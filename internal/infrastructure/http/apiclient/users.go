package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// UserGateway implements outbound.UserGateway and outbound.AuthGateway
type UserGateway struct {
	client *Client
}

// NewUserGateway creates a user gateway backed by client
func NewUserGateway(client *Client) *UserGateway {
	return &UserGateway{client: client}
}

var (
	_ outbound.UserGateway = (*UserGateway)(nil)
	_ outbound.AuthGateway = (*UserGateway)(nil)
)

// ResolveByEmail looks a user up by email. 404 means no such user.
func (g *UserGateway) ResolveByEmail(ctx context.Context, email string) (*user.User, error) {
	var dto userDTO
	ok, err := g.client.doEnvelope(ctx, call{
		endpoint: "/api/v1/users/by-email",
		method:   http.MethodGet,
		path:     "/api/v1/users/by-email?email=" + url.QueryEscape(email),
		auth:     authOptional,
	}, &dto)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil || !ok || dto.ID == 0 {
		return nil, err
	}

	return dto.toDomain(), nil
}

// Register creates an account
func (g *UserGateway) Register(ctx context.Context, reg user.Registration) error {
	account := accountDTO{
		Name:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
		InfoUser: accountInfoDTO{
			Height:        reg.HeightCm,
			Weight:        reg.WeightKg,
			ActivityLevel: reg.ActivityLevel,
			Sex:           reg.Sex,
			Age:           reg.Age,
		},
	}

	_, err := g.client.do(ctx, call{
		endpoint: "/api/v1/users",
		method:   http.MethodPost,
		path:     "/api/v1/users",
		body:     account,
		auth:     authNone,
	})
	return err
}

// Update replaces the account and biometric profile of userID
func (g *UserGateway) Update(ctx context.Context, userID int64, upd user.ProfileUpdate) error {
	body := accountDTO{
		Name:     upd.Name,
		Email:    upd.Email,
		Password: upd.Password,
		InfoUser: accountInfoDTO{
			Height:        upd.HeightCm,
			Weight:        upd.WeightKg,
			ActivityLevel: upd.ActivityLevel,
			Sex:           upd.Sex,
			Age:           upd.Age,
		},
	}

	_, err := g.client.do(ctx, call{
		endpoint: "/api/v1/users/{id}",
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/v1/users/%d", userID),
		body:     body,
		auth:     authRequired,
	})
	return err
}

// Login exchanges credentials for an access token. 401 and 403 are
// reported as invalid credentials.
func (g *UserGateway) Login(ctx context.Context, creds user.Credentials) (string, error) {
	var resp loginResponse
	err := g.client.doJSON(ctx, call{
		endpoint: "/api/auth/login",
		method:   http.MethodPost,
		path:     "/api/auth/login",
		body:     loginRequest{Email: creds.Email, Password: creds.Password},
		auth:     authNone,
	}, &resp)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
		return "", errors.NewInvalidCredentialsError().WithCause(err)
	}
	if err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}
