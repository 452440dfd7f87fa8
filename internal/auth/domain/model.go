package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// Credentials is a username/password pair submitted at login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Actor identifies the authenticated administrator.
type Actor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Session is the explicit authentication context handed to components that
// gate mutations. The zero value is the anonymous session.
//
// This is a placeholder gate around a single static credential, not a
// security mechanism: there is no expiry, no hashing and no multi-user support.
type Session struct {
	Authenticated bool  `json:"authenticated"`
	Actor         Actor `json:"actor"`
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// NewSession returns an authenticated session for a.
func NewSession(a Actor) Session {
	return Session{Authenticated: true, Actor: a}
}

// CanWrite reports whether the session may perform mutations.
func (s Session) CanWrite() bool {
	return s.Authenticated && s.Actor.UserID != ""
}

// Logout clears both the flag and the actor.
func (s Session) Logout() Session {
	return Anonymous()
}
