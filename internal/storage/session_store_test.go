package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whattoeat/backend/internal/models"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	s, err := NewSessionStore(dir)
	require.NoError(t, err)

	saved, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
	assert.Equal(t, models.SessionUnauthenticated, saved.Session().Status)

	in := &SavedSession{
		Server: "http://localhost:8080",
		Token:  "tok",
		User:   models.SessionUser{ID: "u-1", Name: "Ada", Email: "ada@example.com"},
	}
	require.NoError(t, s.Save(in))
	assert.False(t, in.SavedAt.IsZero())

	info, err := os.Stat(filepath.Join(dir, sessionFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Token, out.Token)
	assert.Equal(t, in.User, out.User)
	assert.True(t, out.Session().Authenticated())

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	out, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSessionStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionFileName), []byte("{"), 0o600))

	s, err := NewSessionStore(dir)
	require.NoError(t, err)
	_, err = s.Load()
	assert.Error(t, err)
}

func TestSavedSessionWithoutToken(t *testing.T) {
	s := &SavedSession{User: models.SessionUser{ID: "u-1"}}
	assert.False(t, s.Session().Authenticated())
}
