package services

import (
	"context"
	"errors"

	"github.com/whattoeat/backend/internal/models"
)

var (
	// ErrGroceryNotFound covers both a missing row and a row owned by someone
	// else; the (id, user_id) match cannot tell them apart.
	ErrGroceryNotFound = errors.New("grocery item not found or not permitted")
	ErrGroceryBadInput = errors.New("invalid grocery item input")
)

// GroceryService is the grocery-list contract. Every method is scoped by
// userID, which callers must take from the authenticated session.
type GroceryService interface {
	List(ctx context.Context, userID string) ([]*models.GroceryItem, error)
	Create(ctx context.Context, userID, title string) (*models.GroceryItem, error)
	Update(ctx context.Context, userID, id string, req *models.UpdateGroceryItemRequest) (*models.GroceryItem, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// normalizeGroceryTitle trims the title and enforces the length bounds again
// so non-HTTP callers get the same guarantees as the handlers.
func normalizeGroceryTitle(title string) (string, error) {
	req := models.CreateGroceryItemRequest{Title: title}
	if errs := req.Validate(); len(errs) > 0 {
		return "", ErrGroceryBadInput
	}
	return req.Title, nil
}
