package state

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/whattoeat/backend/internal/cache"
	"github.com/whattoeat/backend/internal/client"
	"github.com/whattoeat/backend/internal/models"
)

// detailConcurrency bounds parallel detail lookups against the recipe quota.
const detailConcurrency = 4

var favoritesKey = cache.Key{Entity: "favorites"}

// RecipeCard is a search result annotated with the caller's favorite flag.
type RecipeCard struct {
	models.RecipeSummary
	Favorited bool `json:"favorited"`
}

// Favorites replicates the caller's favorite set. Successful toggles are
// reconciled by refetching the whole set.
type Favorites struct {
	api     FavoritesAPI
	session SessionFunc
	store   *cache.Store[[]models.FavoriteRecipe]
}

func NewFavorites(api FavoritesAPI, session SessionFunc) *Favorites {
	return &Favorites{
		api:     api,
		session: session,
		store:   cache.New[[]models.FavoriteRecipe](),
	}
}

// Load fetches the favorite set once; later calls use the cached copy until a
// toggle invalidates it.
func (f *Favorites) Load(ctx context.Context) ([]models.FavoriteRecipe, error) {
	if _, err := requireSession(f.session); err != nil {
		return nil, err
	}
	favs, err := f.store.Fetch(ctx, favoritesKey, f.api.ListFavorites)
	if errors.Is(err, cache.ErrDiscarded) {
		return f.List(), nil
	}
	if err != nil {
		return nil, err
	}
	return cloneFavorites(favs), nil
}

func (f *Favorites) List() []models.FavoriteRecipe {
	favs, _ := f.store.Get(favoritesKey)
	return cloneFavorites(favs)
}

func (f *Favorites) IsFavorited(id int64) bool {
	favs, _ := f.store.Get(favoritesKey)
	return favoriteIndex(favs, id) >= 0
}

func (f *Favorites) Annotate(recipes []models.RecipeSummary) []RecipeCard {
	favs, _ := f.store.Get(favoritesKey)
	cards := make([]RecipeCard, len(recipes))
	for i, r := range recipes {
		cards[i] = RecipeCard{RecipeSummary: r, Favorited: favoriteIndex(favs, r.ID) >= 0}
	}
	return cards
}

// Toggle flips the favorite state of a recipe and returns the new state.
func (f *Favorites) Toggle(ctx context.Context, id int64, title string) (bool, error) {
	sess, err := requireSession(f.session)
	if err != nil {
		return false, err
	}

	// The direction depends on the server's set, so it must be known.
	if _, ok := f.store.Get(favoritesKey); !ok {
		if _, err := f.Load(ctx); err != nil {
			return false, err
		}
	}

	f.store.Cancel(favoritesKey)
	favs, _ := f.store.Get(favoritesKey)
	pos := favoriteIndex(favs, id)
	adding := pos < 0

	var original models.FavoriteRecipe
	if adding {
		fav := models.FavoriteRecipe{ID: id, UserID: sess.User.ID, Title: title}
		f.store.Patch(favoritesKey, func(cur []models.FavoriteRecipe, _ bool) []models.FavoriteRecipe {
			return append([]models.FavoriteRecipe{fav}, cur...)
		})
		_, err = f.api.AddFavorite(ctx, id, title)
		// Already favorited on the server: the desired state holds.
		if errors.Is(err, client.ErrConflict) {
			err = nil
		}
	} else {
		original = favs[pos]
		f.store.Patch(favoritesKey, func(cur []models.FavoriteRecipe, _ bool) []models.FavoriteRecipe {
			return withoutFavorite(cur, id)
		})
		err = f.api.RemoveFavorite(ctx, id)
		if errors.Is(err, client.ErrNotFound) {
			err = nil
		}
	}

	if err != nil {
		f.store.Patch(favoritesKey, func(cur []models.FavoriteRecipe, _ bool) []models.FavoriteRecipe {
			if adding {
				return withoutFavorite(cur, id)
			}
			if favoriteIndex(cur, id) >= 0 {
				return cur
			}
			if pos > len(cur) {
				pos = len(cur)
			}
			out := make([]models.FavoriteRecipe, 0, len(cur)+1)
			out = append(out, cur[:pos]...)
			out = append(out, original)
			return append(out, cur[pos:]...)
		})
		return !adding, err
	}

	f.store.Invalidate(favoritesKey)
	if _, err := f.Load(ctx); err != nil {
		log.Printf("[Favorites] refetch after toggle of %d failed: %v", id, err)
	}
	return adding, nil
}

// Details fetches the full recipe of every favorite concurrently. Results
// keep the order of favs. The first error, e.g. client.ErrQuotaExceeded,
// cancels the remaining lookups.
func (f *Favorites) Details(ctx context.Context, favs []models.FavoriteRecipe) ([]*models.RecipeDetail, error) {
	if _, err := requireSession(f.session); err != nil {
		return nil, err
	}

	out := make([]*models.RecipeDetail, len(favs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, fav := range favs {
		i, id := i, fav.ID
		g.Go(func() error {
			detail, err := f.api.GetRecipe(gctx, id)
			if err != nil {
				return err
			}
			out[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneFavorites(favs []models.FavoriteRecipe) []models.FavoriteRecipe {
	if favs == nil {
		return nil
	}
	out := make([]models.FavoriteRecipe, len(favs))
	copy(out, favs)
	return out
}

func favoriteIndex(favs []models.FavoriteRecipe, id int64) int {
	for i := range favs {
		if favs[i].ID == id {
			return i
		}
	}
	return -1
}

func withoutFavorite(favs []models.FavoriteRecipe, id int64) []models.FavoriteRecipe {
	out := make([]models.FavoriteRecipe, 0, len(favs))
	for _, fav := range favs {
		if fav.ID != id {
			out = append(out, fav)
		}
	}
	return out
}
