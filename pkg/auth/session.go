package auth

import (
	"context"
	"time"
)

// Session is a signed in browser, identified by the opaque token stored in
// the session cookie.
type Session struct {
	Token        string
	IDToken      string
	RefreshToken string
	Username     string
	Email        string
	DomainIDs    []string
	Created      time.Time
	Expires      time.Time
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	// UpdateSessionTokens stores the credentials obtained by a refresh.
	UpdateSessionTokens(ctx context.Context, token, idToken, refreshToken string, expires time.Time) error
	DeleteSession(ctx context.Context, token string) error
}
