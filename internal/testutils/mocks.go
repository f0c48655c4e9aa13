// Package testutils provides mock implementations of the outbound ports and
// data factories for tests
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/domain/shared"
	"github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/ports/outbound"
)

// MockRecipeGateway provides a mock implementation of RecipeGateway
type MockRecipeGateway struct {
	mock.Mock
}

func (m *MockRecipeGateway) Create(ctx context.Context, sub recipe.Submission) (*recipe.SavedRecipe, error) {
	args := m.Called(ctx, sub)
	saved, _ := args.Get(0).(*recipe.SavedRecipe)
	return saved, args.Error(1)
}

func (m *MockRecipeGateway) Update(ctx context.Context, id int64, sub recipe.Submission) (*recipe.SavedRecipe, error) {
	args := m.Called(ctx, id, sub)
	saved, _ := args.Get(0).(*recipe.SavedRecipe)
	return saved, args.Error(1)
}

func (m *MockRecipeGateway) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeGateway) FetchByID(ctx context.Context, id int64) (*recipe.SavedRecipe, error) {
	args := m.Called(ctx, id)
	saved, _ := args.Get(0).(*recipe.SavedRecipe)
	return saved, args.Error(1)
}

func (m *MockRecipeGateway) FetchAllForUser(ctx context.Context, userID int64) ([]recipe.SavedRecipe, error) {
	args := m.Called(ctx, userID)
	recipes, _ := args.Get(0).([]recipe.SavedRecipe)
	return recipes, args.Error(1)
}

// MockUserGateway provides a mock implementation of UserGateway
type MockUserGateway struct {
	mock.Mock
}

func (m *MockUserGateway) ResolveByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserGateway) Register(ctx context.Context, reg user.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockUserGateway) Update(ctx context.Context, userID int64, upd user.ProfileUpdate) error {
	args := m.Called(ctx, userID, upd)
	return args.Error(0)
}

// MockAuthGateway provides a mock implementation of AuthGateway
type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Login(ctx context.Context, creds user.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

// MockIngredientCatalog provides a mock implementation of IngredientCatalog
type MockIngredientCatalog struct {
	mock.Mock
}

func (m *MockIngredientCatalog) ListIngredients(ctx context.Context) ([]recipe.Ingredient, error) {
	args := m.Called(ctx)
	ingredients, _ := args.Get(0).([]recipe.Ingredient)
	return ingredients, args.Error(1)
}

// MockAdviceGateway provides a mock implementation of AdviceGateway
type MockAdviceGateway struct {
	mock.Mock
}

func (m *MockAdviceGateway) ListAdvice(ctx context.Context) ([]outbound.Advice, error) {
	args := m.Called(ctx)
	advice, _ := args.Get(0).([]outbound.Advice)
	return advice, args.Error(1)
}

// MockMetricsRecorder provides a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordRequest(endpoint, method string, status int, duration time.Duration) {
	m.Called(endpoint, method, status, duration)
}

func (m *MockMetricsRecorder) RecordRateLimited(endpoint string) {
	m.Called(endpoint)
}

// FakeCredentialStore is an in-memory CredentialStore for service tests
type FakeCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
	Err    error // returned by every call when set
}

// NewFakeCredentialStore creates a store seeded with values
func NewFakeCredentialStore(values map[string]string) *FakeCredentialStore {
	s := &FakeCredentialStore{values: make(map[string]string)}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *FakeCredentialStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", false, s.Err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FakeCredentialStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.values[key] = value
	return nil
}

func (s *FakeCredentialStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.values, key)
	return nil
}

// RecordingDispatcher collects every dispatched event
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (d *RecordingDispatcher) Dispatch(event shared.DomainEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *RecordingDispatcher) Register(string, shared.EventHandler) {}

// Names returns the names of dispatched events in order
func (d *RecordingDispatcher) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.events))
	for _, e := range d.events {
		names = append(names, e.EventName())
	}
	return names
}
