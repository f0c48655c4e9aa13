package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/pkg/healthcheck"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutriplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestModule_Validates(t *testing.T) {
	var app *App
	err := fx.ValidateApp(fx.NopLogger, Module(""), fx.Populate(&app))
	assert.NoError(t, err)
}

func TestModule_StartsWithSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "nutriplan.prom")
	path := writeConfig(t, `
app:
  log_level: error
api:
  base_url: http://127.0.0.1:1
credentials:
  backend: sqlite
  sqlite_path: `+filepath.Join(dir, "creds.db")+`
monitoring:
  metrics_file: `+metricsFile+`
`)

	var app *App
	fxApp := fxtest.New(t, fx.NopLogger, Module(path), fx.Populate(&app))
	fxApp.RequireStart()

	require.NotNil(t, app)
	assert.Equal(t, "http://127.0.0.1:1", app.Config.API.BaseURL)

	app.Drafts.SetName("Soup")
	require.NoError(t, app.Drafts.AddIngredientLine(recipe.IngredientLine{IngredientID: 1, Quantity: 10}))
	assert.Equal(t, "Soup", app.Drafts.Draft().Name)
	assert.Empty(t, app.Recipes.Recipes())

	require.NoError(t, app.Session.Logout(context.Background()))

	status := app.Health.Check(context.Background())
	require.Len(t, status.Checks, 3)
	assert.Equal(t, "credentials", status.Checks[1].Name)
	assert.Equal(t, healthcheck.StatusHealthy, status.Checks[1].Status)
	assert.Equal(t, healthcheck.StatusDegraded, status.Checks[2].Status, "no session stored")

	fxApp.RequireStop()

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nutriplan_domain_events_total")
}

func TestModule_UnknownBackendFails(t *testing.T) {
	path := writeConfig(t, "credentials:\n  backend: floppy\n")

	var app *App
	err := fx.New(fx.NopLogger, Module(path), fx.Populate(&app)).Err()
	assert.Error(t, err)
}
