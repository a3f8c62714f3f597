package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinGroceryTitleLen = 2
	MaxGroceryTitleLen = 100
)

type GroceryItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateGroceryItemRequest struct {
	Title string `json:"title"`
}

// UpdateGroceryItemRequest edits the title and optionally the checked flag.
// A nil Checked leaves the stored value untouched.
type UpdateGroceryItemRequest struct {
	Title   string `json:"title"`
	Checked *bool  `json:"checked,omitempty"`
}

func (r *CreateGroceryItemRequest) Validate() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return validateGroceryTitle(r.Title)
}

func (r *UpdateGroceryItemRequest) Validate() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return validateGroceryTitle(r.Title)
}

func validateGroceryTitle(title string) map[string]string {
	errors := make(map[string]string)

	n := utf8.RuneCountInString(title)
	if n == 0 {
		errors["title"] = "Title is required"
	} else if n < MinGroceryTitleLen {
		errors["title"] = "Title must be at least 2 characters"
	} else if n > MaxGroceryTitleLen {
		errors["title"] = "Title must be at most 100 characters"
	}

	return errors
}
