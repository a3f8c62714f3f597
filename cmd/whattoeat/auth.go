package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/view"
)

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			auth, err := a.api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := a.remember(opts.serverFor(a), auth); err != nil {
				return err
			}
			view.Welcome(cmd.OutOrStdout(), a.session())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (at least 6 characters)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var req models.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			auth, err := a.api.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := a.remember(opts.serverFor(a), auth); err != nil {
				return err
			}
			view.Welcome(cmd.OutOrStdout(), a.session())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if a.api.Token() == "" {
				view.Welcome(cmd.OutOrStdout(), a.session())
				return nil
			}
			sess, err := a.api.Session(cmd.Context())
			if err != nil {
				return err
			}
			view.Welcome(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}

func newAccountCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your grocery list, favorites and account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete the account without --yes")
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			if !a.session().Authenticated() {
				view.Welcome(cmd.OutOrStdout(), a.session())
				return nil
			}
			if err := a.api.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			if err := a.sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	cmd.AddCommand(deleteCmd)
	return cmd
}
