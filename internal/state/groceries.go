package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/whattoeat/backend/internal/cache"
	"github.com/whattoeat/backend/internal/models"
)

// PendingPrefix marks the ids of items that exist only locally while their
// create request is in flight.
const PendingPrefix = "pending-"

var groceryKey = cache.Key{Entity: "grocery"}

// IsPending reports whether item has not been confirmed by the server yet.
func IsPending(item models.GroceryItem) bool {
	return strings.HasPrefix(item.ID, PendingPrefix)
}

// Groceries replicates the caller's grocery list. Successful mutations are
// reconciled by accepting the record the server returned.
type Groceries struct {
	api     GroceryAPI
	session SessionFunc
	store   *cache.Store[[]models.GroceryItem]
	now     func() time.Time
}

func NewGroceries(api GroceryAPI, session SessionFunc) *Groceries {
	return &Groceries{
		api:     api,
		session: session,
		store:   cache.New[[]models.GroceryItem](),
		now:     time.Now,
	}
}

// Load fetches the list unless a fresh copy is cached. A read superseded by a
// local mutation returns the local state.
func (g *Groceries) Load(ctx context.Context) ([]models.GroceryItem, error) {
	if _, err := requireSession(g.session); err != nil {
		return nil, err
	}
	items, err := g.store.Fetch(ctx, groceryKey, g.api.ListGroceries)
	if errors.Is(err, cache.ErrDiscarded) {
		return g.Items(), nil
	}
	if err != nil {
		return nil, err
	}
	return clone(items), nil
}

// Refresh drops the cached list and loads it again.
func (g *Groceries) Refresh(ctx context.Context) ([]models.GroceryItem, error) {
	g.store.Invalidate(groceryKey)
	return g.Load(ctx)
}

// Items returns a copy of the local list, newest first.
func (g *Groceries) Items() []models.GroceryItem {
	items, _ := g.store.Get(groceryKey)
	return clone(items)
}

func (g *Groceries) Find(id string) (models.GroceryItem, bool) {
	items, _ := g.store.Get(groceryKey)
	i := indexOf(items, id)
	if i < 0 {
		return models.GroceryItem{}, false
	}
	return items[i], true
}

func (g *Groceries) Add(ctx context.Context, title string) (*models.GroceryItem, error) {
	sess, err := requireSession(g.session)
	if err != nil {
		return nil, err
	}
	title, err = validTitle(title)
	if err != nil {
		return nil, err
	}

	g.store.Cancel(groceryKey)
	now := g.now().UTC()
	pending := models.GroceryItem{
		ID:        PendingPrefix + uuid.New().String(),
		UserID:    sess.User.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.store.Patch(groceryKey, func(cur []models.GroceryItem, _ bool) []models.GroceryItem {
		return append([]models.GroceryItem{pending}, cur...)
	})

	created, err := g.api.CreateGrocery(ctx, title)
	if err != nil {
		g.store.Patch(groceryKey, func(cur []models.GroceryItem, _ bool) []models.GroceryItem {
			return without(cur, pending.ID)
		})
		return nil, err
	}

	g.store.Patch(groceryKey, func(cur []models.GroceryItem, _ bool) []models.GroceryItem {
		// A refetch may already have delivered the server record.
		cur = without(cur, created.ID)
		if i := indexOf(cur, pending.ID); i >= 0 {
			out := clone(cur)
			out[i] = *created
			return out
		}
		return cur
	})
	return created, nil
}

// Update changes the title of an item and keeps its checked flag.
func (g *Groceries) Update(ctx context.Context, id, title string) (*models.GroceryItem, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	return g.modify(ctx, id, func(item *models.GroceryItem) (string, *bool) {
		item.Title = title
		return title, nil
	})
}

func (g *Groceries) SetChecked(ctx context.Context, id string, checked bool) (*models.GroceryItem, error) {
	return g.modify(ctx, id, func(item *models.GroceryItem) (string, *bool) {
		item.Checked = checked
		return item.Title, &checked
	})
}

func (g *Groceries) modify(ctx context.Context, id string, edit func(*models.GroceryItem) (string, *bool)) (*models.GroceryItem, error) {
	if _, err := requireSession(g.session); err != nil {
		return nil, err
	}
	original, ok := g.Find(id)
	if !ok || IsPending(original) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	g.store.Cancel(groceryKey)
	edited := original
	title, checked := edit(&edited)
	edited.UpdatedAt = g.now().UTC()
	g.store.Patch(groceryKey, replaceFn(id, edited))

	updated, err := g.api.UpdateGrocery(ctx, id, title, checked)
	if err != nil {
		g.store.Patch(groceryKey, replaceFn(id, original))
		return nil, err
	}
	g.store.Patch(groceryKey, replaceFn(id, *updated))
	return updated, nil
}

func (g *Groceries) Delete(ctx context.Context, id string) error {
	if _, err := requireSession(g.session); err != nil {
		return err
	}
	items, _ := g.store.Get(groceryKey)
	pos := indexOf(items, id)
	if pos < 0 || IsPending(items[pos]) {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	original := items[pos]

	g.store.Cancel(groceryKey)
	g.store.Patch(groceryKey, func(cur []models.GroceryItem, _ bool) []models.GroceryItem {
		return without(cur, id)
	})

	if err := g.api.DeleteGrocery(ctx, id); err != nil {
		g.store.Patch(groceryKey, func(cur []models.GroceryItem, _ bool) []models.GroceryItem {
			return insertAt(cur, pos, original)
		})
		return err
	}
	return nil
}

// Clear deletes the whole list.
func (g *Groceries) Clear(ctx context.Context) error {
	if _, err := requireSession(g.session); err != nil {
		return err
	}
	g.store.Cancel(groceryKey)
	snap := g.store.Patch(groceryKey, func([]models.GroceryItem, bool) []models.GroceryItem {
		return []models.GroceryItem{}
	})
	if err := g.api.DeleteAllGroceries(ctx); err != nil {
		g.store.Restore(groceryKey, snap)
		return err
	}
	return nil
}

// AddIngredients adds one item per ingredient of recipe, titled
// "name: amount unit". Ingredients already on the list are skipped. It
// returns the items created and every failure.
func (g *Groceries) AddIngredients(ctx context.Context, recipe *models.RecipeDetail) ([]*models.GroceryItem, error) {
	if _, err := requireSession(g.session); err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, nil
	}
	current, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, item := range current {
		seen[strings.ToLower(item.Title)] = true
	}

	var (
		added  []*models.GroceryItem
		result *multierror.Error
	)
	for _, ing := range recipe.ExtendedIngredients {
		title := ing.GroceryTitle()
		if seen[strings.ToLower(title)] {
			continue
		}
		seen[strings.ToLower(title)] = true

		item, err := g.Add(ctx, title)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%q: %w", title, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		added = append(added, item)
	}
	return added, result.ErrorOrNil()
}

func validTitle(title string) (string, error) {
	req := models.CreateGroceryItemRequest{Title: title}
	if errs := req.Validate(); len(errs) > 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidTitle, errs["title"])
	}
	return req.Title, nil
}

func clone(items []models.GroceryItem) []models.GroceryItem {
	if items == nil {
		return nil
	}
	out := make([]models.GroceryItem, len(items))
	copy(out, items)
	return out
}

func indexOf(items []models.GroceryItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func without(items []models.GroceryItem, id string) []models.GroceryItem {
	out := make([]models.GroceryItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func insertAt(items []models.GroceryItem, pos int, item models.GroceryItem) []models.GroceryItem {
	if indexOf(items, item.ID) >= 0 {
		return items
	}
	if pos > len(items) {
		pos = len(items)
	}
	out := make([]models.GroceryItem, 0, len(items)+1)
	out = append(out, items[:pos]...)
	out = append(out, item)
	return append(out, items[pos:]...)
}

func replaceFn(id string, item models.GroceryItem) func([]models.GroceryItem, bool) []models.GroceryItem {
	return func(cur []models.GroceryItem, _ bool) []models.GroceryItem {
		i := indexOf(cur, id)
		if i < 0 {
			return cur
		}
		out := clone(cur)
		out[i] = item
		return out
	}
}
