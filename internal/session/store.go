// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/wizard"
)

const defaultKeyPrefix = "wizard:session:"

// Store persists wizard sessions in Redis. Each session is a JSON blob
// under <prefix><id> with a sliding TTL, so abandoned sessions expire
// without a sweeper.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

// NewStore creates a session store on top of an existing Redis client.
// An empty prefix falls back to wizard:session:.
func NewStore(client redis.Cmdable, prefix string, ttl time.Duration, log logger.Logger) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log,
	}
}

func (s *Store) sessionKey(id string) string {
	return s.prefix + id
}

// Save writes the session state and resets its TTL.
func (s *Store) Save(ctx context.Context, state *wizard.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return stderrors.NewSessionStoreFailedError(fmt.Errorf("marshal session: %w", err))
	}

	if err := s.client.Set(ctx, s.sessionKey(state.ID), data, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Error("Failed to persist session", map[string]interface{}{
			"session_id": state.ID,
		})
		return stderrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Get loads a session by id. A missing or expired session returns
// SESSION_NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (*wizard.State, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, stderrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to load session", map[string]interface{}{
			"session_id": id,
		})
		return nil, stderrors.NewSessionStoreFailedError(err)
	}

	var state wizard.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, stderrors.NewSessionStoreFailedError(fmt.Errorf("unmarshal session: %w", err))
	}
	return &state, nil
}

// Delete removes a session, typically after a completed submit.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.sessionKey(id)).Err(); err != nil {
		return stderrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Touch extends a live session's TTL without rewriting its state.
func (s *Store) Touch(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, s.sessionKey(id), s.ttl).Result()
	if err != nil {
		return stderrors.NewSessionStoreFailedError(err)
	}
	if !ok {
		return stderrors.NewSessionNotFoundError(id)
	}
	return nil
}
