package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nutriplan/client/internal/domain/recipe"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/pkg/errors"
)

func (c *cli) recipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage saved recipes",
	}

	cmd.AddCommand(
		c.recipesListCommand(),
		c.recipesCaloriesCommand(),
		c.recipesDeleteCommand(),
		c.recipesNewCommand(),
		c.recipesEditCommand(),
	)
	return cmd
}

func (c *cli) recipesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recipes with their calories",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		if err := c.app.Recipes.RefetchAll(cmd.Context()); err != nil {
			return err
		}

		recipes := c.app.Recipes.Recipes()
		if len(recipes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recipes yet")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tINGREDIENTS\tKCAL")
		for _, r := range recipes {
			fmt.Fprintf(w, "%d\t%s\t%d\t%.0f\n", r.ID, r.Name, len(r.Ingredients), r.TotalCalories())
		}
		return w.Flush()
	})
	return cmd
}

func (c *cli) recipesCaloriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calories <id>...",
		Short: "Total the calories of the selected recipes",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		if err := c.app.Recipes.RefetchAll(cmd.Context()); err != nil {
			return err
		}

		for _, id := range ids {
			kcal, ok := c.app.Recipes.RecipeCalories(id)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\tnot found\n", id)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%.0f kcal\n", id, kcal)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Total\t%.0f kcal\n", c.app.Recipes.TotalCalories(ids))
		return nil
	})
	return cmd
}

func (c *cli) recipesDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved recipe",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		if err := c.app.Recipes.DeleteRecipe(cmd.Context(), ids[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe #%d\n", ids[0])
		return nil
	})
	return cmd
}

func (c *cli) recipesNewCommand() *cobra.Command {
	var (
		name, preparation string
		ingredients       []string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Compose and save a new recipe",
		Example: `  nutriplan recipes new --name "Porridge" --preparation "Simmer 5 minutes" \
    --ingredient 12:50 --ingredient 3:200`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		drafts := c.app.Drafts
		drafts.ResetDraft()
		drafts.SetName(name)
		drafts.SetPreparation(preparation)

		if err := c.addLines(cmd.Context(), ingredients); err != nil {
			return err
		}

		result, err := drafts.Save(cmd.Context(), inbound.SaveCommand{Mode: recipe.SaveModeCreate})
		if err != nil {
			return err
		}
		printSaved(cmd, result)
		return nil
	})

	cmd.Flags().StringVar(&name, "name", "", "recipe name")
	cmd.Flags().StringVar(&preparation, "preparation", "", "preparation steps")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "ingredient as id:quantity, repeatable")
	return cmd
}

func (c *cli) recipesEditCommand() *cobra.Command {
	var (
		name, preparation string
		ingredients       []string
		remove            []int64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a saved recipe",
		Long: `Load a saved recipe, apply the changes given by flags and save it.

--ingredient adds a line; an ingredient already in the recipe is rejected.
--remove drops the line of an ingredient.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		recipeID := ids[0]

		drafts := c.app.Drafts
		if err := c.app.Recipes.RefetchAll(cmd.Context()); err != nil {
			return err
		}
		if err := drafts.LoadForEdit(cmd.Context(), recipeID); err != nil {
			return err
		}

		if cmd.Flags().Changed("name") {
			drafts.SetName(name)
		}
		if cmd.Flags().Changed("preparation") {
			drafts.SetPreparation(preparation)
		}
		for _, id := range remove {
			drafts.RemoveIngredientLine(id)
		}
		if err := c.addLines(cmd.Context(), ingredients); err != nil {
			return err
		}

		result, err := drafts.Save(cmd.Context(), inbound.SaveCommand{Mode: recipe.SaveModeEdit, RecipeID: recipeID})
		if err != nil {
			return err
		}
		printSaved(cmd, result)
		return nil
	})

	cmd.Flags().StringVar(&name, "name", "", "new recipe name")
	cmd.Flags().StringVar(&preparation, "preparation", "", "new preparation steps")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "ingredient to add as id:quantity, repeatable")
	cmd.Flags().Int64SliceVar(&remove, "remove", nil, "ingredient id to remove, repeatable")
	return cmd
}

// addLines builds catalog lines for id:quantity flag values and adds them
// to the draft
func (c *cli) addLines(ctx context.Context, raws []string) error {
	for _, raw := range raws {
		id, qty, err := parseIngredient(raw)
		if err != nil {
			return err
		}
		line, err := c.app.Catalog.BuildLine(ctx, id, qty)
		if err != nil {
			return err
		}
		if err := c.app.Drafts.AddIngredientLine(line); err != nil {
			return err
		}
	}
	return nil
}

func printSaved(cmd *cobra.Command, result *inbound.SaveResult) {
	out := cmd.OutOrStdout()
	if result.Recipe == nil {
		fmt.Fprintln(out, "Recipe saved")
		return
	}
	fmt.Fprintf(out, "Saved recipe #%d %q (%.0f kcal)\n", result.Recipe.ID, result.Recipe.Name, result.Recipe.TotalCalories())
}

// parseIngredient parses an id:quantity flag value
func parseIngredient(raw string) (int64, float64, error) {
	idPart, qtyPart, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, errors.NewBadRequestError(fmt.Sprintf("ingredient %q must be id:quantity", raw))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, errors.NewBadRequestError(fmt.Sprintf("invalid ingredient id in %q", raw))
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(qtyPart), 64)
	if err != nil {
		return 0, 0, errors.NewBadRequestError(fmt.Sprintf("invalid quantity in %q", raw))
	}
	return id, qty, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.NewBadRequestError(fmt.Sprintf("invalid recipe id %q", arg))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
