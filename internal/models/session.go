package models

// SessionStatus distinguishes a session that is still being resolved from
// one that is known to be absent. The zero value is unauthenticated.
type SessionStatus int

const (
	SessionUnauthenticated SessionStatus = iota
	SessionLoading
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Session struct {
	Status SessionStatus `json:"-"`
	User   SessionUser   `json:"user"`
}

// Authenticated reports whether scoped operations may run for this session.
func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated && s.User.ID != ""
}

func NewSession(u SessionUser) Session {
	return Session{Status: SessionAuthenticated, User: u}
}
