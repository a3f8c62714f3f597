package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/whattoeat/backend/internal/client"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/state"
	"github.com/whattoeat/backend/internal/storage"
)

const defaultServer = "http://localhost:8080"

type rootOptions struct {
	server    string
	configDir string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "whattoeat",
		Short:         "whattoeat finds recipes for what you have and keeps your grocery list",
		Long:          "whattoeat searches recipes by ingredients, keeps your favorite recipes and builds a grocery list from them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", os.Getenv("WHATTOEAT_SERVER"), "API server URL (default: saved session server or "+defaultServer+")")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", os.Getenv("WHATTOEAT_CONFIG_DIR"), "Directory holding the saved session")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "Request timeout")

	cmd.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newAccountCmd(opts),
		newGroceryCmd(opts),
		newFavoritesCmd(opts),
		newRecipesCmd(opts),
	)
	return cmd
}

// app is the per-invocation wiring of session, API client and replicas.
type app struct {
	sessions *storage.SessionStore
	saved    *storage.SavedSession
	api      *client.Client
}

func (o *rootOptions) open() (*app, error) {
	dir := o.configDir
	if dir == "" {
		var err error
		if dir, err = storage.DefaultDir(); err != nil {
			return nil, err
		}
	}
	sessions, err := storage.NewSessionStore(dir)
	if err != nil {
		return nil, err
	}
	saved, err := sessions.Load()
	if err != nil {
		return nil, err
	}

	a := &app{sessions: sessions, saved: saved}
	server := o.serverFor(a)

	opts := []client.Option{client.WithTimeout(o.timeout)}
	// A token is only valid for the server that issued it.
	if saved != nil && server == saved.Server {
		opts = append(opts, client.WithToken(saved.Token))
	}
	a.api = client.New(server, opts...)
	return a, nil
}

// serverFor returns the server URL the client of a talks to.
func (o *rootOptions) serverFor(a *app) string {
	if s := strings.TrimSpace(o.server); s != "" {
		return s
	}
	if a.saved != nil && a.saved.Server != "" {
		return a.saved.Server
	}
	return defaultServer
}

func (a *app) session() models.Session {
	if a.api.Token() == "" {
		return models.Session{Status: models.SessionUnauthenticated}
	}
	return a.saved.Session()
}

func (a *app) groceries() *state.Groceries {
	return state.NewGroceries(a.api, a.session)
}

func (a *app) favorites() *state.Favorites {
	return state.NewFavorites(a.api, a.session)
}

func (a *app) remember(server string, auth *models.AuthResponse) error {
	a.saved = &storage.SavedSession{
		Server: server,
		Token:  auth.Token,
		User:   models.SessionUser{ID: auth.User.ID, Name: auth.User.Name, Email: auth.User.Email},
	}
	return a.sessions.Save(a.saved)
}

func parseRecipeID(value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid recipe id %q", value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("recipe id must be > 0")
	}
	return v, nil
}
