package user

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/internal/testutils"
	"github.com/nutriplan/client/pkg/errors"
)

// SessionServiceTestSuite covers login state and current-user resolution
type SessionServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	auth     *testutils.MockAuthGateway
	users    *testutils.MockUserGateway
	store    *testutils.FakeCredentialStore
	resolver *Resolver
	service  inbound.SessionService
	factory  *testutils.Factory
}

func (s *SessionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.auth = new(testutils.MockAuthGateway)
	s.users = new(testutils.MockUserGateway)
	s.store = testutils.NewFakeCredentialStore(nil)
	s.factory = testutils.NewFactory(7)

	logger := zaptest.NewLogger(s.T())
	s.resolver = NewResolver(s.store, s.users, logger)
	s.service = NewSessionService(s.auth, s.users, s.store, s.resolver, user.NewValidator(), logger)
}

func (s *SessionServiceTestSuite) TearDownTest() {
	s.auth.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
}

func (s *SessionServiceTestSuite) TestLogin_StoresJSONSerializedValues() {
	creds := user.Credentials{Email: "ana@example.com", Password: "Secreta#1"}
	s.auth.On("Login", mock.Anything, creds).Return("tok.en.value", nil).Once()

	require.NoError(s.T(), s.service.Login(s.ctx, creds))

	token, ok, _ := s.store.Get(s.ctx, outbound.KeyUserToken)
	require.True(s.T(), ok)
	assert.Equal(s.T(), `"tok.en.value"`, token)

	email, _, _ := s.store.Get(s.ctx, outbound.KeyUserEmail)
	assert.Equal(s.T(), `"ana@example.com"`, email)
}

func (s *SessionServiceTestSuite) TestLogin_Failures() {
	s.Run("InvalidPayload", func() {
		err := s.service.Login(s.ctx, user.Credentials{Email: "nope"})
		assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	s.Run("Rejected", func() {
		creds := user.Credentials{Email: "ana@example.com", Password: "bad"}
		s.auth.On("Login", mock.Anything, creds).Return("", errors.NewInvalidCredentialsError()).Once()

		err := s.service.Login(s.ctx, creds)

		assert.True(s.T(), errors.Is(err, errors.CodeInvalidCredentials))
		_, ok, _ := s.store.Get(s.ctx, outbound.KeyUserToken)
		assert.False(s.T(), ok)
	})

	s.Run("Unreachable", func() {
		creds := user.Credentials{Email: "ana@example.com", Password: "pw"}
		s.auth.On("Login", mock.Anything, creds).Return("", stderrors.New("dial tcp")).Once()

		err := s.service.Login(s.ctx, creds)

		assert.True(s.T(), errors.Is(err, errors.CodeExternalServiceError))
	})
}

func (s *SessionServiceTestSuite) TestLogout() {
	require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserToken, `"t"`))
	require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserEmail, `"e@x.io"`))

	require.NoError(s.T(), s.service.Logout(s.ctx))

	_, ok, _ := s.store.Get(s.ctx, outbound.KeyUserToken)
	assert.False(s.T(), ok)
	_, ok, _ = s.store.Get(s.ctx, outbound.KeyUserEmail)
	assert.False(s.T(), ok)
}

func (s *SessionServiceTestSuite) TestCurrentUser() {
	s.Run("QuotedEmailIsCleaned", func() {
		u := s.factory.User(17)
		require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserEmail, `"ana@example.com"`))
		s.users.On("ResolveByEmail", mock.Anything, "ana@example.com").Return(u, nil).Once()

		id, err := s.resolver.CurrentUserID(s.ctx)

		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(17), id)
	})

	s.Run("NoStoredEmail", func() {
		require.NoError(s.T(), s.store.Delete(s.ctx, outbound.KeyUserEmail))

		_, err := s.service.CurrentUser(s.ctx)

		assert.True(s.T(), errors.Is(err, errors.CodeUserResolutionFailed))
		assert.ErrorIs(s.T(), err, user.ErrEmailMissing)
	})

	s.Run("MalformedEmail", func() {
		require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserEmail, `"ana"`))

		_, err := s.service.CurrentUser(s.ctx)

		assert.ErrorIs(s.T(), err, user.ErrEmailMalformed)
	})

	s.Run("UnknownUser", func() {
		require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserEmail, "ghost@example.com"))
		s.users.On("ResolveByEmail", mock.Anything, "ghost@example.com").Return(nil, nil).Once()

		_, err := s.service.CurrentUser(s.ctx)

		assert.True(s.T(), errors.Is(err, errors.CodeUserResolutionFailed))
		assert.ErrorIs(s.T(), err, user.ErrUserNotFound)
	})

	s.Run("GatewayError", func() {
		require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserEmail, "ana@example.com"))
		s.users.On("ResolveByEmail", mock.Anything, "ana@example.com").Return(nil, stderrors.New("boom")).Once()

		_, err := s.service.CurrentUser(s.ctx)

		assert.True(s.T(), errors.Is(err, errors.CodeUserResolutionFailed))
	})

	s.Run("StoreError", func() {
		s.store.Err = stderrors.New("disk")
		defer func() { s.store.Err = nil }()

		_, err := s.service.CurrentUser(s.ctx)

		assert.True(s.T(), errors.Is(err, errors.CodeUserResolutionFailed))
	})
}

func (s *SessionServiceTestSuite) TestRegister() {
	reg := user.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "Secreta#2024",
		HeightCm: 165, WeightKg: 60, ActivityLevel: "Moderada",
	}
	s.users.On("Register", mock.Anything, reg).Return(nil).Once()
	require.NoError(s.T(), s.service.Register(s.ctx, reg))

	weak := reg
	weak.Password = "password"
	err := s.service.Register(s.ctx, weak)
	appErr, ok := errors.As(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "password", appErr.Field())
}

func (s *SessionServiceTestSuite) TestUpdateProfile() {
	upd := user.ProfileUpdate{
		Name: "Ana", Email: "ana@example.com", Password: "Secreta#2024",
		HeightCm: 165, WeightKg: 61, ActivityLevel: "Alta", Sex: "Femenino", Age: 31,
	}
	require.NoError(s.T(), s.store.Set(s.ctx, outbound.KeyUserEmail, `"ana@example.com"`))
	s.users.On("ResolveByEmail", mock.Anything, "ana@example.com").Return(s.factory.User(4), nil).Once()
	s.users.On("Update", mock.Anything, int64(4), upd).Return(nil).Once()

	assert.NoError(s.T(), s.service.UpdateProfile(s.ctx, upd))
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
