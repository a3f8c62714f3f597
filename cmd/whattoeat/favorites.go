package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whattoeat/backend/internal/view"
)

func newFavoritesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite recipes",
	}

	var details bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			f := a.favorites()
			favs, err := f.Load(cmd.Context())
			if err != nil {
				return err
			}
			if !details || len(favs) == 0 {
				view.Favorites(cmd.OutOrStdout(), favs)
				return nil
			}
			recipes, err := f.Details(cmd.Context(), favs)
			if err != nil {
				view.Notice(cmd.OutOrStdout(), err)
				return nil
			}
			for i, r := range recipes {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				view.Recipe(cmd.OutOrStdout(), r, true)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&details, "details", false, "Fetch the full recipe of every favorite")

	addCmd := &cobra.Command{
		Use:   "add <recipe-id> <title>",
		Short: "Favorite a recipe",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setFavorite(opts, cmd, args[0], strings.Join(args[1:], " "), true)
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <recipe-id>",
		Short: "Unfavorite a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setFavorite(opts, cmd, args[0], "", false)
		},
	}

	cmd.AddCommand(listCmd, addCmd, rmCmd)
	return cmd
}

func setFavorite(opts *rootOptions, cmd *cobra.Command, rawID, title string, want bool) error {
	id, err := parseRecipeID(rawID)
	if err != nil {
		return err
	}
	a, err := opts.open()
	if err != nil {
		return err
	}
	f := a.favorites()
	if _, err := f.Load(cmd.Context()); err != nil {
		return err
	}
	if f.IsFavorited(id) != want {
		if _, err := f.Toggle(cmd.Context(), id, title); err != nil {
			return err
		}
	}
	view.Favorites(cmd.OutOrStdout(), f.List())
	return nil
}
