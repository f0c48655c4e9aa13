package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/internal/testutils"
	"github.com/nutriplan/client/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// ClientTestSuite runs the gateways against a fake backend
type ClientTestSuite struct {
	suite.Suite
	router  *chi.Mux
	server  *httptest.Server
	store   *testutils.FakeCredentialStore
	metrics *testutils.MockMetricsRecorder
	client  *Client
}

func (suite *ClientTestSuite) SetupTest() {
	suite.router = chi.NewRouter()
	suite.server = httptest.NewServer(suite.router)
	suite.store = testutils.NewFakeCredentialStore(map[string]string{
		outbound.KeyUserToken: `"opaque-token"`,
	})
	suite.metrics = new(testutils.MockMetricsRecorder)
	suite.metrics.On("RecordRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	suite.metrics.On("RecordRateLimited", mock.Anything).Maybe()

	suite.client = NewClient(Options{
		BaseURL:           suite.server.URL + "/",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		UserAgent:         "nutriplan-test",
	}, NewTokenSource(suite.store), suite.metrics, zaptest.NewLogger(suite.T()))
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.server.Close()
	suite.client.httpClient.CloseIdleConnections()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (suite *ClientTestSuite) TestCreateRecipe() {
	suite.Run("EchoedRecipe", func() {
		var got submissionDTO
		var auth string
		suite.router.Post("/api/v1/recipes", func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			require.NoError(suite.T(), json.NewDecoder(r.Body).Decode(&got))
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"data": map[string]interface{}{
					"id": 31, "name": "Salad", "preparation": "mix",
					"ingredients": []map[string]interface{}{
						{"id": 2, "name": "Lettuce", "quantity": "150", "active": true, "quantityCalories": 22.5},
					},
				},
			})
		})

		saved, err := NewRecipeGateway(suite.client).Create(context.Background(), recipe.Submission{
			Name:        "Salad",
			Preparation: "mix",
			OwnerUserID: 8,
			Ingredients: []recipe.SubmissionLine{{IngredientID: 2, Quantity: 150, CaloriesForQuantity: 22.5}},
		})

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), saved)
		assert.Equal(suite.T(), "Bearer opaque-token", auth)
		assert.Equal(suite.T(), int64(8), got.UserID)
		assert.Equal(suite.T(), []submissionLineDTO{{IngredientID: 2, Quantity: 150, QuantityCalories: 22.5}}, got.Ingredients)
		assert.Equal(suite.T(), int64(31), saved.ID)
		assert.InDelta(suite.T(), 150.0, saved.Ingredients[0].Quantity, 1e-9)
		assert.InDelta(suite.T(), 22.5, saved.TotalCalories(), 1e-9)
	})
}

func (suite *ClientTestSuite) TestCreateRecipe_NoEcho() {
	suite.router.Post("/api/v1/recipes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	saved, err := NewRecipeGateway(suite.client).Create(context.Background(), recipe.Submission{Name: "x"})

	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), saved)
}

func (suite *ClientTestSuite) TestFetchByID() {
	suite.router.Get("/api/v1/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "4" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{
				"id": 4, "name": "Soup", "preparation": "boil",
				"ingredients": []map[string]interface{}{
					{"ingredientId": 9, "name": "Leek", "quantity": 80, "active": false, "quantityCalories": nil},
				},
			},
		})
	})
	gateway := NewRecipeGateway(suite.client)

	saved, err := gateway.FetchByID(context.Background(), 4)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), saved)
	require.Len(suite.T(), saved.Ingredients, 1)
	assert.Equal(suite.T(), int64(9), saved.Ingredients[0].ID)
	assert.False(suite.T(), saved.Ingredients[0].Active)
	assert.Zero(suite.T(), saved.Ingredients[0].CaloriesForQuantity)

	missing, err := gateway.FetchByID(context.Background(), 5)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), missing)
}

func (suite *ClientTestSuite) TestFetchAllForUser() {
	suite.router.Get("/api/v1/recipes/user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), "12", chi.URLParam(r, "userId"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": 1, "name": "A", "preparation": "a"},
				{"id": 2, "name": "B", "preparation": "b"},
			},
		})
	})

	recipes, err := NewRecipeGateway(suite.client).FetchAllForUser(context.Background(), 12)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 2)
	assert.Equal(suite.T(), "B", recipes[1].Name)
	suite.metrics.AssertCalled(suite.T(), "RecordRequest", "/api/v1/recipes/user/{userId}", http.MethodGet, http.StatusOK, mock.Anything)
}

func (suite *ClientTestSuite) TestDeleteRecipe_ServerError() {
	suite.router.Delete("/api/v1/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})

	err := NewRecipeGateway(suite.client).Delete(context.Background(), 3)

	require.Error(suite.T(), err)
	assert.True(suite.T(), IsStatus(err, http.StatusInternalServerError))
}

func (suite *ClientTestSuite) TestAuthorization() {
	suite.Run("MissingToken", func() {
		require.NoError(suite.T(), suite.store.Delete(context.Background(), outbound.KeyUserToken))

		_, err := NewRecipeGateway(suite.client).FetchAllForUser(context.Background(), 1)

		assert.True(suite.T(), errors.Is(err, errors.CodeUnauthorized))
		suite.metrics.AssertNotCalled(suite.T(), "RecordRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	suite.Run("ExpiredToken", func() {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user@example.com",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), suite.store.Set(context.Background(), outbound.KeyUserToken, `"`+token+`"`))

		_, err = NewCatalogGateway(suite.client).ListAdvice(context.Background())

		appErr, ok := errors.As(err)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), errors.CodeUnauthorized, appErr.Code)
		assert.Equal(suite.T(), "session expired", appErr.Message)
	})

	suite.Run("OptionalWithoutToken", func() {
		require.NoError(suite.T(), suite.store.Delete(context.Background(), outbound.KeyUserToken))
		suite.router.Get("/api/v1/ingredients", func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(suite.T(), r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": []map[string]interface{}{
					{"id": 1, "name": "Rice", "calories": 130},
					{"id": 2, "name": "Salt", "calories": nil},
				},
			})
		})

		ingredients, err := NewCatalogGateway(suite.client).ListIngredients(context.Background())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), ingredients, 2)
		require.NotNil(suite.T(), ingredients[0].CaloriesPer100)
		assert.InDelta(suite.T(), 130.0, *ingredients[0].CaloriesPer100, 1e-9)
		assert.Nil(suite.T(), ingredients[1].CaloriesPer100)
	})
}

func (suite *ClientTestSuite) TestResolveByEmail() {
	suite.router.Get("/api/v1/users/by-email", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") != "ana+diet@example.com" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no user"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{
				"id": 77, "name": "Ana", "registrationDate": "2024-03-01",
				"infoUser": map[string]interface{}{
					"height": "170", "weight": 65.5, "activityLevel": "moderada", "sex": "femenino", "age": 30,
				},
			},
		})
	})
	gateway := NewUserGateway(suite.client)

	u, err := gateway.ResolveByEmail(context.Background(), "ana+diet@example.com")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), u)
	assert.Equal(suite.T(), int64(77), u.ID)
	assert.Equal(suite.T(), 2024, u.RegistrationDate.Year())
	require.NotNil(suite.T(), u.Profile.HeightCm)
	assert.InDelta(suite.T(), 170.0, *u.Profile.HeightCm, 1e-9)
	assert.Equal(suite.T(), "femenino", u.Profile.Sex)

	nobody, err := gateway.ResolveByEmail(context.Background(), "ghost@example.com")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), nobody)
}

func (suite *ClientTestSuite) TestLogin() {
	suite.router.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(suite.T(), r.Header.Get("Authorization"))
		var req loginRequest
		require.NoError(suite.T(), json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "Secret#123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{AccessToken: "fresh"})
	})
	gateway := NewUserGateway(suite.client)

	token, err := gateway.Login(context.Background(), user.Credentials{Email: "a@b.co", Password: "Secret#123"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "fresh", token)

	_, err = gateway.Login(context.Background(), user.Credentials{Email: "a@b.co", Password: "wrong"})
	assert.True(suite.T(), errors.Is(err, errors.CodeInvalidCredentials))
}

func (suite *ClientTestSuite) TestRegisterAndUpdate() {
	var registered, updated accountDTO
	suite.router.Post("/api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(suite.T(), json.NewDecoder(r.Body).Decode(&registered))
		w.WriteHeader(http.StatusCreated)
	})
	suite.router.Put("/api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), "5", chi.URLParam(r, "id"))
		require.NoError(suite.T(), json.NewDecoder(r.Body).Decode(&updated))
		w.WriteHeader(http.StatusNoContent)
	})
	gateway := NewUserGateway(suite.client)

	require.NoError(suite.T(), gateway.Register(context.Background(), user.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "Secret#123",
		HeightCm: 170, WeightKg: 65, ActivityLevel: "baja",
	}))
	assert.Equal(suite.T(), "ana@example.com", registered.Email)
	assert.InDelta(suite.T(), 170.0, registered.InfoUser.Height, 1e-9)
	assert.Empty(suite.T(), registered.InfoUser.Sex)

	require.NoError(suite.T(), gateway.Update(context.Background(), 5, user.ProfileUpdate{
		Name: "Ana", Email: "ana@example.com", Password: "Secret#123",
		HeightCm: 171, WeightKg: 64, ActivityLevel: "alta", Sex: "femenino", Age: 31,
	}))
	assert.Equal(suite.T(), "alta", updated.InfoUser.ActivityLevel)
	assert.InDelta(suite.T(), 31.0, updated.InfoUser.Age, 1e-9)
}

func (suite *ClientTestSuite) TestListAdvice() {
	suite.router.Get("/api/v1/advices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": 1, "title": "Water", "description": "Drink", "creationDate": "2024-01-01"},
			},
		})
	})

	advice, err := NewCatalogGateway(suite.client).ListAdvice(context.Background())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []outbound.Advice{{ID: 1, Title: "Water", Description: "Drink", CreationDate: "2024-01-01"}}, advice)
}

// TestClientTestSuite runs the client test suite
func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestClient_RateLimited(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/ingredients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": []interface{}{}})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	metrics := new(testutils.MockMetricsRecorder)
	metrics.On("RecordRequest", "/api/v1/ingredients", http.MethodGet, http.StatusOK, mock.Anything)
	metrics.On("RecordRateLimited", "/api/v1/ingredients").Once()

	client := NewClient(Options{BaseURL: server.URL, RequestsPerSecond: 50, Burst: 1},
		NewTokenSource(testutils.NewFakeCredentialStore(nil)), metrics, zaptest.NewLogger(t))
	defer client.httpClient.CloseIdleConnections()
	gateway := NewCatalogGateway(client)

	_, err := gateway.ListIngredients(context.Background())
	require.NoError(t, err)
	_, err = gateway.ListIngredients(context.Background())
	require.NoError(t, err)

	metrics.AssertExpectations(t)
	metrics.AssertNumberOfCalls(t, "RecordRequest", 2)
}

func TestTokenSource(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	sign := func(exp time.Time) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}
	valid := sign(now.Add(time.Hour))

	tests := []struct {
		name     string
		stored   map[string]string
		expected string
		code     errors.ErrorCode
	}{
		{"QuotedOpaque", map[string]string{outbound.KeyUserToken: `"abc"`}, "abc", ""},
		{"ValidJWT", map[string]string{outbound.KeyUserToken: `"` + valid + `"`}, valid, ""},
		{"ExpiredJWT", map[string]string{outbound.KeyUserToken: sign(now.Add(-time.Minute))}, "", errors.CodeUnauthorized},
		{"Missing", nil, "", errors.CodeUnauthorized},
		{"OnlyQuotes", map[string]string{outbound.KeyUserToken: `""`}, "", errors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewTokenSource(testutils.NewFakeCredentialStore(tt.stored))
			src.now = func() time.Time { return now }

			token, err := src.Token(context.Background())
			if tt.code != "" {
				assert.True(t, errors.Is(err, tt.code))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}
