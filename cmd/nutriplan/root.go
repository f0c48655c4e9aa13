package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/infrastructure/container"
	"github.com/nutriplan/client/internal/infrastructure/monitoring"
	"github.com/nutriplan/client/pkg/errors"
)

// appStarter builds and starts the application, returning a stop function
type appStarter func(ctx context.Context, configPath string) (*container.App, func(context.Context) error, error)

// startApp starts the fx application for one command invocation
func startApp(ctx context.Context, configPath string) (*container.App, func(context.Context) error, error) {
	var app *container.App
	fxApp := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's
		container.Module(configPath),
		fx.Populate(&app),
	)

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return nil, nil, fmt.Errorf("failed to start application: %w", err)
	}

	return app, fxApp.Stop, nil
}

// cli holds the state shared by every command
type cli struct {
	start      appStarter
	configPath string

	app  *container.App
	stop func(context.Context) error
	span trace.Span
}

func newRootCommand(start appStarter) *cobra.Command {
	c := &cli{start: start}

	root := &cobra.Command{
		Use:   "nutriplan",
		Short: "Plan recipes and track daily calories",
		Long: `nutriplan is a client for the NutriPlan service.

Sign in, compose recipes from the shared ingredient catalog and compare
the day's intake against the recommended calorie budget.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown(cmd.Context(), nil)
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./nutriplan.yaml)")

	root.AddCommand(
		c.loginCommand(),
		c.logoutCommand(),
		c.registerCommand(),
		c.profileCommand(),
		c.recipesCommand(),
		c.ingredientsCommand(),
		c.dashboardCommand(),
		c.adviceCommand(),
		c.statusCommand(),
	)

	return root
}

// setup starts the application before any leaf command runs
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	app, stop, err := c.start(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	c.app = app
	c.stop = stop

	if app.Telemetry != nil {
		ctx, span := app.Telemetry.StartCommandSpan(cmd.Context(), cmd.CommandPath())
		c.span = span
		cmd.SetContext(ctx)
	}
	return nil
}

// teardown ends the command span and stops the application. PostRun hooks
// do not run after a failed RunE, so run wraps every command body.
func (c *cli) teardown(ctx context.Context, runErr error) error {
	if c.span != nil {
		if runErr != nil {
			c.span.RecordError(runErr)
			c.span.SetStatus(codes.Error, runErr.Error())
		}
		c.span.End()
		c.span = nil
	}

	if c.stop == nil {
		return nil
	}
	stop := c.stop
	c.stop = nil

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return stop(stopCtx)
}

// run adapts a command body so failures are logged and still stop the app
func (c *cli) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			c.app.Logger.Debug("Command failed",
				zap.String("command", cmd.CommandPath()),
				zap.String("trace_id", monitoring.TraceIDFromContext(cmd.Context())),
				zap.Error(err),
			)
			if stopErr := c.teardown(cmd.Context(), err); stopErr != nil {
				c.app.Logger.Warn("Failed to stop application", zap.Error(stopErr))
			}
		}
		return err
	}
}

// describe renders an error for the terminal
func describe(err error) string {
	appErr, ok := errors.As(err)
	if !ok {
		return err.Error()
	}
	if appErr.Details != "" {
		return fmt.Sprintf("%s: %s", appErr.Message, appErr.Details)
	}
	return appErr.Message
}
