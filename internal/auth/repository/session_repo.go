package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cerroazul/gestao-obras/internal/auth/domain"
)

const sessionKeyPrefix = "obras:session:" // obras:session:{token} -> actor JSON

// SessionStore maps opaque session tokens to the actor that logged in.
type SessionStore interface {
	Save(ctx context.Context, token string, actor domain.Actor) error
	Load(ctx context.Context, token string) (domain.Actor, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Actor
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Actor)}
}

func (r *MemorySessionRepository) Save(_ context.Context, token string, actor domain.Actor) error {
	if token == "" {
		return fmt.Errorf("session token required")
	}
	r.mu.Lock()
	r.sessions[token] = actor
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Load(_ context.Context, token string) (domain.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actor, ok := r.sessions[token]
	if !ok {
		return domain.Actor{}, domain.ErrSessionNotFound
	}
	return actor, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Ping(context.Context) error { return nil }

// RedisSessionRepository keeps sessions in Redis so they survive restarts
// and are shared between API replicas.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository creates a Redis-backed store. A zero ttl keeps
// sessions until logout.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func (r *RedisSessionRepository) Save(ctx context.Context, token string, actor domain.Actor) error {
	if token == "" {
		return fmt.Errorf("session token required")
	}
	data, err := json.Marshal(actor)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Load(ctx context.Context, token string) (domain.Actor, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Actor{}, domain.ErrSessionNotFound
		}
		return domain.Actor{}, fmt.Errorf("failed to load session: %w", err)
	}

	var actor domain.Actor
	if err := json.Unmarshal(data, &actor); err != nil {
		return domain.Actor{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return actor, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSessionRepository) key(token string) string {
	return sessionKeyPrefix + token
}
