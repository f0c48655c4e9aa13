package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) ingredientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Browse the ingredient catalog",
	}

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by name",
		Args:  cobra.MaximumNArgs(1),
	}
	search.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		ingredients, err := c.app.Catalog.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKCAL/100")
		for _, ing := range ingredients {
			kcal := "-"
			if ing.CaloriesPer100 != nil {
				kcal = fmt.Sprintf("%.0f", *ing.CaloriesPer100)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", ing.ID, ing.Name, kcal)
		}
		return w.Flush()
	})

	cmd.AddCommand(search)
	return cmd
}

func (c *cli) dashboardCommand() *cobra.Command {
	var selected []int64

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show BMI and the day's calorie budget",
		Long: `Show the body-mass index and recommended daily calories of the
signed-in user, and the budget used by the recipes selected with --recipe.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		if err := c.app.Recipes.RefetchAll(cmd.Context()); err != nil {
			return err
		}

		d, err := c.app.Nutrition.Dashboard(cmd.Context(), selected)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Hello, %s\n\n", d.UserName)
		if d.BMI > 0 {
			fmt.Fprintf(out, "BMI          %.1f (%s)\n", d.BMI, d.BMICategory)
			fmt.Fprintf(out, "             %s\n", markerBar(d.MarkerPercent, 30))
		}

		recommended := fmt.Sprintf("%.0f kcal", d.RecommendedCalories)
		if d.UsingFallback {
			recommended += " (default, complete your profile)"
		}
		fmt.Fprintf(out, "Recommended  %s\n", recommended)
		fmt.Fprintf(out, "Consumed     %.0f kcal (%s)\n", d.Budget.Consumed, d.Budget.Level)
		fmt.Fprintf(out, "Remaining    %.0f kcal\n", d.Budget.Remaining)
		return nil
	})

	cmd.Flags().Int64SliceVar(&selected, "recipe", nil, "recipe id eaten today, repeatable")
	return cmd
}

// markerBar draws the BMI scale with the marker at percent
func markerBar(percent float64, width int) string {
	pos := int(percent / 100 * float64(width-1))
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return "[" + strings.Repeat("-", pos) + "|" + strings.Repeat("-", width-1-pos) + "]"
}

func (c *cli) adviceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advice",
		Short: "Show the latest nutrition advice",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		advice, err := c.app.Advice.Latest(cmd.Context())
		if err != nil {
			return err
		}
		if len(advice) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No advice published yet")
			return nil
		}

		for _, a := range advice {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n  %s\n\n", a.CreationDate, a.Title, a.Description)
		}
		return nil
	})
	return cmd
}

func (c *cli) statusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the backend, credential store and session",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		resp := c.app.Health.Check(cmd.Context())

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "nutriplan %s\t%s\n", resp.Version, resp.Status)
		for _, check := range resp.Checks {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", check.Name, check.Status, check.Message)
		}
		return w.Flush()
	})
	return cmd
}
