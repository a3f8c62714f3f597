package services

import (
	"context"
	"errors"

	"github.com/whattoeat/backend/internal/models"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyFavorited = errors.New("recipe already favorited")
	ErrFavoriteBadInput = errors.New("invalid favorite input")
)

// FavoriteService stores the recipes a user has favorited. Add never upserts:
// a second Add for the same recipe fails with ErrAlreadyFavorited.
type FavoriteService interface {
	List(ctx context.Context, userID string) ([]*models.FavoriteRecipe, error)
	Add(ctx context.Context, userID string, recipeID int64, title string) (*models.FavoriteRecipe, error)
	Remove(ctx context.Context, userID string, recipeID int64) error
	RemoveAll(ctx context.Context, userID string) (int64, error)
}
