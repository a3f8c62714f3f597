package models

import (
	"strings"
	"time"
)

// FavoriteRecipe is keyed by the external recipe id; the pair (ID, UserID)
// is unique.
type FavoriteRecipe struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type AddFavoriteRequest struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (r *AddFavoriteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Title = strings.TrimSpace(r.Title)
	if r.ID <= 0 {
		errors["id"] = "Recipe id is required"
	}
	if r.Title == "" {
		errors["title"] = "Title is required"
	}

	return errors
}
