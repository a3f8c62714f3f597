package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/view"
)

func newRecipesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"r"},
		Short:   "Find recipes",
	}

	var req models.RecipeSearchRequest
	searchCmd := &cobra.Command{
		Use:   "search <ingredients...>",
		Short: "Search recipes by ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = strings.Join(args, ",")
			a, err := opts.open()
			if err != nil {
				return err
			}
			results, err := a.api.SearchRecipes(cmd.Context(), req)
			if err != nil {
				view.SearchResults(cmd.OutOrStdout(), nil, err)
				return nil
			}
			f := a.favorites()
			if _, err := f.Load(cmd.Context()); err != nil {
				return err
			}
			view.SearchResults(cmd.OutOrStdout(), f.Annotate(results), nil)
			return nil
		},
	}
	searchCmd.Flags().StringVar(&req.Diet, "diet", "", "Diet, e.g. vegetarian or vegan")
	searchCmd.Flags().BoolVar(&req.IgnorePantry, "ignore-pantry", false, "Ignore pantry staples like water, salt and flour")
	searchCmd.Flags().IntVar(&req.Number, "number", models.DefaultRecipeResults, "Number of results")

	showCmd := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show recipe details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			recipe, err := a.api.GetRecipe(cmd.Context(), id)
			if err != nil {
				view.Notice(cmd.OutOrStdout(), err)
				return nil
			}
			f := a.favorites()
			if _, err := f.Load(cmd.Context()); err != nil {
				return err
			}
			view.Recipe(cmd.OutOrStdout(), recipe, f.IsFavorited(id))
			return nil
		},
	}

	toListCmd := &cobra.Command{
		Use:   "to-list <recipe-id>",
		Short: "Add a recipe's ingredients to the grocery list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			recipe, err := a.api.GetRecipe(cmd.Context(), id)
			if err != nil {
				view.Notice(cmd.OutOrStdout(), err)
				return nil
			}
			g := a.groceries()
			if _, err := g.Load(cmd.Context()); err != nil {
				return err
			}
			added, err := g.AddIngredients(cmd.Context(), recipe)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d ingredients from %q\n", len(added), recipe.Title)
			view.GroceryList(cmd.OutOrStdout(), g.Items())
			return err
		},
	}

	cmd.AddCommand(searchCmd, showCmd, toListCmd)
	return cmd
}
