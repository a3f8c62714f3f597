package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groceryKey = Key{Entity: "grocery"}

func TestFetchCachesUntilInvalidated(t *testing.T) {
	s := New[[]string]()
	calls := 0
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"Milk"}, nil
	}

	v, err := s.Fetch(context.Background(), groceryKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk"}, v)

	_, err = s.Fetch(context.Background(), groceryKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	s.Invalidate(groceryKey)
	_, err = s.Fetch(context.Background(), groceryKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchErrorKeepsCachedValue(t *testing.T) {
	s := New[[]string]()
	s.Set(groceryKey, []string{"Eggs"})
	s.Invalidate(groceryKey)

	boom := errors.New("boom")
	_, err := s.Fetch(context.Background(), groceryKey, func(ctx context.Context) ([]string, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, ok := s.Get(groceryKey)
	require.True(t, ok)
	assert.Equal(t, []string{"Eggs"}, v)
}

func TestCancelDiscardsInFlightRead(t *testing.T) {
	s := New[[]string]()
	started := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		_, err := s.Fetch(context.Background(), groceryKey, func(ctx context.Context) ([]string, error) {
			close(started)
			<-release
			// The response arrives even though the request was cancelled.
			return []string{"stale"}, nil
		})
		result <- err
	}()

	<-started
	require.True(t, s.Fetching(groceryKey))
	s.Cancel(groceryKey)
	assert.False(t, s.Fetching(groceryKey))
	s.Patch(groceryKey, func(cur []string, _ bool) []string {
		return append([]string{"optimistic"}, cur...)
	})
	close(release)

	require.ErrorIs(t, <-result, ErrDiscarded)
	v, _ := s.Get(groceryKey)
	assert.Equal(t, []string{"optimistic"}, v)
}

func TestPatchDuringFetchWinsWithoutCancel(t *testing.T) {
	s := New[[]string]()
	started := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		_, err := s.Fetch(context.Background(), groceryKey, func(ctx context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"server"}, nil
		})
		result <- err
	}()

	<-started
	s.Patch(groceryKey, func(cur []string, _ bool) []string { return []string{"local"} })
	close(release)

	require.ErrorIs(t, <-result, ErrDiscarded)
	v, _ := s.Get(groceryKey)
	assert.Equal(t, []string{"local"}, v)
}

func TestCancelAbortsFetcherContext(t *testing.T) {
	s := New[int]()
	started := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		_, err := s.Fetch(context.Background(), groceryKey, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		result <- err
	}()

	<-started
	s.Cancel(groceryKey)
	require.ErrorIs(t, <-result, ErrDiscarded)
}

func TestPatchRestore(t *testing.T) {
	s := New[[]string]()
	s.Set(groceryKey, []string{"Eggs"})

	snap := s.Patch(groceryKey, func(cur []string, present bool) []string {
		require.True(t, present)
		return append([]string{"Milk"}, cur...)
	})
	v, _ := s.Get(groceryKey)
	assert.Equal(t, []string{"Milk", "Eggs"}, v)

	s.Restore(groceryKey, snap)
	v, _ = s.Get(groceryKey)
	assert.Equal(t, []string{"Eggs"}, v)
}

func TestRestoreEmptySnapshot(t *testing.T) {
	s := New[[]string]()
	snap := s.Patch(groceryKey, func(cur []string, present bool) []string {
		assert.False(t, present)
		return []string{"Milk"}
	})
	s.Restore(groceryKey, snap)
	_, ok := s.Get(groceryKey)
	assert.False(t, ok)
}

func TestPatchBeforeFetchStillReads(t *testing.T) {
	s := New[[]string]()
	s.Patch(groceryKey, func(cur []string, present bool) []string {
		return append([]string{"Milk"}, cur...)
	})

	calls := 0
	v, err := s.Fetch(context.Background(), groceryKey, func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"Milk", "Eggs", "Bread"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"Milk", "Eggs", "Bread"}, v)

	// A patch on a loaded entry keeps it fresh.
	s.Patch(groceryKey, func(cur []string, _ bool) []string { return cur[1:] })
	v, err = s.Fetch(context.Background(), groceryKey, func(ctx context.Context) ([]string, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"Eggs", "Bread"}, v)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "grocery", groceryKey.String())
	assert.Equal(t, "recipes?query=eggs", Key{Entity: "recipes", Params: "query=eggs"}.String())
}
