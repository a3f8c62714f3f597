package services

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
)

// AccountService removes everything stored for a user. The deletes are not
// transactional: each collection is cleared independently and failures are
// reported together.
type AccountService struct {
	groceries GroceryService
	favorites FavoriteService
	users     UserService
}

func NewAccountService(groceries GroceryService, favorites FavoriteService, users UserService) *AccountService {
	return &AccountService{groceries: groceries, favorites: favorites, users: users}
}

type DeleteAccountResult struct {
	GroceryItems int64 `json:"grocery_items"`
	Favorites    int64 `json:"favorites"`
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID string) (*DeleteAccountResult, error) {
	var result DeleteAccountResult
	var errs *multierror.Error

	n, err := s.groceries.DeleteAll(ctx, userID)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	result.GroceryItems = n

	n, err = s.favorites.RemoveAll(ctx, userID)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	result.Favorites = n

	// Externally authenticated users never have a local user row.
	if err := s.users.Delete(ctx, userID); err != nil && !errors.Is(err, ErrUserNotFound) {
		errs = multierror.Append(errs, err)
	}

	return &result, errs.ErrorOrNil()
}

// DefaultAccountTimeout bounds a full account deletion.
func DefaultAccountTimeout() time.Duration { return 20 * time.Second }
