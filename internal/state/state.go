// Package state keeps the client-side replicas of the grocery list and the
// favorites set. Mutations are applied locally first and reconciled with the
// server response; failures roll the local change back.
package state

import (
	"context"
	"errors"

	"github.com/whattoeat/backend/internal/models"
)

var (
	// ErrNoSession is returned by every operation unless the session is
	// authenticated. A loading session is treated the same as no session.
	ErrNoSession = errors.New("no authenticated session")

	ErrUnknownItem  = errors.New("grocery item is not loaded")
	ErrInvalidTitle = errors.New("invalid grocery title")
)

// SessionFunc reports the current session.
type SessionFunc func() models.Session

// StaticSession returns a SessionFunc that always reports sess.
func StaticSession(sess models.Session) SessionFunc {
	return func() models.Session { return sess }
}

// GroceryAPI is the part of the API client the grocery replica needs.
type GroceryAPI interface {
	ListGroceries(ctx context.Context) ([]models.GroceryItem, error)
	CreateGrocery(ctx context.Context, title string) (*models.GroceryItem, error)
	UpdateGrocery(ctx context.Context, id, title string, checked *bool) (*models.GroceryItem, error)
	DeleteGrocery(ctx context.Context, id string) error
	DeleteAllGroceries(ctx context.Context) error
}

// FavoritesAPI is the part of the API client the favorites replica needs.
type FavoritesAPI interface {
	ListFavorites(ctx context.Context) ([]models.FavoriteRecipe, error)
	AddFavorite(ctx context.Context, id int64, title string) (*models.FavoriteRecipe, error)
	RemoveFavorite(ctx context.Context, id int64) error
	GetRecipe(ctx context.Context, id int64) (*models.RecipeDetail, error)
}

func requireSession(fn SessionFunc) (models.Session, error) {
	if fn == nil {
		return models.Session{}, ErrNoSession
	}
	sess := fn()
	if !sess.Authenticated() {
		return sess, ErrNoSession
	}
	return sess, nil
}
