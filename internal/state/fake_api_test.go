package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/whattoeat/backend/internal/models"
)

// fakeAPI hands every call to the test over a channel and blocks until the
// test answers it, so tests can observe local state while a request is in
// flight.
type fakeAPI struct {
	t     *testing.T
	calls chan *call
}

type call struct {
	method string
	args   []interface{}
	reply  chan reply
}

type reply struct {
	value interface{}
	err   error
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{t: t, calls: make(chan *call)}
}

func (f *fakeAPI) invoke(method string, args ...interface{}) (interface{}, error) {
	c := &call{method: method, args: args, reply: make(chan reply, 1)}
	f.calls <- c
	r := <-c.reply
	return r.value, r.err
}

// expect waits for the next call and checks its method.
func (f *fakeAPI) expect(method string) *call {
	f.t.Helper()
	select {
	case c := <-f.calls:
		require.Equal(f.t, method, c.method, "unexpected call %s%v", c.method, c.args)
		return c
	case <-time.After(2 * time.Second):
		require.FailNow(f.t, "timed out waiting for "+method)
	}
	return nil
}

func (f *fakeAPI) assertNoCalls() {
	f.t.Helper()
	select {
	case c := <-f.calls:
		require.FailNowf(f.t, "unexpected call", "%s%v", c.method, c.args)
	case <-time.After(20 * time.Millisecond):
	}
}

func (c *call) respond(value interface{}, err error) {
	c.reply <- reply{value: value, err: err}
}

func (f *fakeAPI) ListGroceries(ctx context.Context) ([]models.GroceryItem, error) {
	v, err := f.invoke("ListGroceries")
	items, _ := v.([]models.GroceryItem)
	return items, err
}

func (f *fakeAPI) CreateGrocery(ctx context.Context, title string) (*models.GroceryItem, error) {
	v, err := f.invoke("CreateGrocery", title)
	item, _ := v.(*models.GroceryItem)
	return item, err
}

func (f *fakeAPI) UpdateGrocery(ctx context.Context, id, title string, checked *bool) (*models.GroceryItem, error) {
	v, err := f.invoke("UpdateGrocery", id, title, checked)
	item, _ := v.(*models.GroceryItem)
	return item, err
}

func (f *fakeAPI) DeleteGrocery(ctx context.Context, id string) error {
	_, err := f.invoke("DeleteGrocery", id)
	return err
}

func (f *fakeAPI) DeleteAllGroceries(ctx context.Context) error {
	_, err := f.invoke("DeleteAllGroceries")
	return err
}

func (f *fakeAPI) ListFavorites(ctx context.Context) ([]models.FavoriteRecipe, error) {
	v, err := f.invoke("ListFavorites")
	favs, _ := v.([]models.FavoriteRecipe)
	return favs, err
}

func (f *fakeAPI) AddFavorite(ctx context.Context, id int64, title string) (*models.FavoriteRecipe, error) {
	v, err := f.invoke("AddFavorite", id, title)
	fav, _ := v.(*models.FavoriteRecipe)
	return fav, err
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, id int64) error {
	_, err := f.invoke("RemoveFavorite", id)
	return err
}

func (f *fakeAPI) GetRecipe(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	v, err := f.invoke("GetRecipe", id)
	d, _ := v.(*models.RecipeDetail)
	return d, err
}

var alice = models.NewSession(models.SessionUser{ID: "alice", Name: "Alice"})

func async(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.FailNow(t, "operation did not finish")
	}
	return nil
}
