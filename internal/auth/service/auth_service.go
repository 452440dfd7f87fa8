package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cerroazul/gestao-obras/internal/auth/domain"
	"github.com/cerroazul/gestao-obras/internal/auth/repository"
)

// AuthService checks logins against the single configured administrator and
// keeps track of issued session tokens.
type AuthService struct {
	username string
	password string
	actor    domain.Actor
	sessions repository.SessionStore
}

func NewAuthService(username, password, userID string, sessions repository.SessionStore) *AuthService {
	return &AuthService{
		username: username,
		password: password,
		actor:    domain.Actor{UserID: userID, Username: username},
		sessions: sessions,
	}
}

// Authenticate succeeds only on an exact match with the configured pair.
func (s *AuthService) Authenticate(creds domain.Credentials) (domain.Session, error) {
	if creds.Username != s.username || creds.Password != s.password {
		return domain.Anonymous(), domain.ErrInvalidCredentials
	}
	return domain.NewSession(s.actor), nil
}

// Login authenticates and issues an opaque token for the new session.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, domain.Session, error) {
	sess, err := s.Authenticate(creds)
	if err != nil {
		return "", sess, err
	}

	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, sess.Actor); err != nil {
		return "", domain.Anonymous(), fmt.Errorf("save session: %w", err)
	}
	return token, sess, nil
}

// Logout forgets the token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a token to its session. A blank or unknown token resolves to
// the anonymous session.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Anonymous(), nil
	}

	actor, err := s.sessions.Load(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Anonymous(), nil
		}
		return domain.Anonymous(), err
	}
	return domain.NewSession(actor), nil
}
