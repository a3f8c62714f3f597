package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whattoeat/backend/internal/state"
	"github.com/whattoeat/backend/internal/view"
)

func newGroceryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "grocery",
		Aliases: []string{"g"},
		Short:   "Manage your grocery list",
	}

	var showIDs bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the grocery list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroceries(opts, cmd, func(g *state.Groceries) error {
				if showIDs {
					view.GroceryTable(cmd.OutOrStdout(), g.Items())
				} else {
					view.GroceryList(cmd.OutOrStdout(), g.Items())
				}
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&showIDs, "ids", false, "Show item ids")

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroceries(opts, cmd, func(g *state.Groceries) error {
				item, err := g.Add(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", item.Title, item.ID)
				return nil
			})
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Rename an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroceries(opts, cmd, func(g *state.Groceries) error {
				item, err := g.Update(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", item.Title)
				return nil
			})
		},
	}

	checkCmd := newCheckCmd(opts, "check", "Tick an item off", true)
	uncheckCmd := newCheckCmd(opts, "uncheck", "Untick an item", false)

	rmCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroceries(opts, cmd, func(g *state.Groceries) error {
				if err := g.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroceries(opts, cmd, func(g *state.Groceries) error {
				if err := g.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Grocery list cleared")
				return nil
			})
		},
	}

	cmd.AddCommand(listCmd, addCmd, editCmd, checkCmd, uncheckCmd, rmCmd, clearCmd)
	return cmd
}

func newCheckCmd(opts *rootOptions, use, short string, checked bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroceries(opts, cmd, func(g *state.Groceries) error {
				if _, err := g.SetChecked(cmd.Context(), args[0], checked); err != nil {
					return err
				}
				view.GroceryList(cmd.OutOrStdout(), g.Items())
				return nil
			})
		},
	}
}

// withGroceries loads the caller's list before running fn.
func withGroceries(opts *rootOptions, cmd *cobra.Command, fn func(*state.Groceries) error) error {
	a, err := opts.open()
	if err != nil {
		return err
	}
	g := a.groceries()
	if _, err := g.Load(cmd.Context()); err != nil {
		if errors.Is(err, state.ErrNoSession) {
			view.Welcome(cmd.OutOrStdout(), a.session())
		}
		return err
	}
	return fn(g)
}
