package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/whattoeat/backend/internal/models"
)

const (
	appDirName      = "whattoeat"
	sessionFileName = "session.json"
)

// SavedSession is what the CLI remembers between runs.
type SavedSession struct {
	Server  string             `json:"server"`
	Token   string             `json:"token"`
	User    models.SessionUser `json:"user"`
	SavedAt time.Time          `json:"saved_at"`
}

// Session converts the saved credentials into a session. Without a token the
// session is unauthenticated.
func (s *SavedSession) Session() models.Session {
	if s == nil || s.Token == "" || s.User.ID == "" {
		return models.Session{Status: models.SessionUnauthenticated}
	}
	return models.NewSession(s.User)
}

type SessionStore struct {
	store *JSONStore
}

// DefaultDir returns the per-user config directory for the CLI.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func NewSessionStore(dir string) (*SessionStore, error) {
	store, err := NewJSONStore(dir, sessionFileName, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	return &SessionStore{store: store}, nil
}

// Load returns the saved session, or nil when nobody is logged in.
func (s *SessionStore) Load() (*SavedSession, error) {
	if !s.store.Exists() {
		return nil, nil
	}
	var saved SavedSession
	if err := s.store.Load(&saved); err != nil {
		return nil, fmt.Errorf("read session %s: %w", s.store.Path(), err)
	}
	return &saved, nil
}

func (s *SessionStore) Save(saved *SavedSession) error {
	if saved.SavedAt.IsZero() {
		saved.SavedAt = time.Now().UTC()
	}
	if err := s.store.Save(saved); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear() error {
	return s.store.Remove()
}
