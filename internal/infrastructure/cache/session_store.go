package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	redis "github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "partner:session:"
	subjectKeyPrefix = "partner:subject-sessions:"
)

// RedisSessionStore registers issued tokens so logout can revoke them before
// they expire. Each account also keeps a set of its token ids.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

func subjectKey(kind domain.SubjectKind, subjectID string) string {
	return subjectKeyPrefix + string(kind) + ":" + subjectID
}

func (s *RedisSessionStore) Save(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.TokenID)
	}
	key := sessionKey(session.TokenID)
	setKey := subjectKey(session.Kind, session.SubjectID)

	// Tokens share one TTL, so the newest session outlives the others.
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, session.SubjectID, ttl)
		pipe.SAdd(ctx, setKey, session.TokenID)
		pipe.Expire(ctx, setKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session %s: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	key := sessionKey(tokenID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis EXISTS %s: %w", key, err)
	}
	return n == 1, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, tokenID string) error {
	key := sessionKey(tokenID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteSubject(ctx context.Context, kind domain.SubjectKind, subjectID string) error {
	setKey := subjectKey(kind, subjectID)
	tokenIDs, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("redis SMEMBERS %s: %w", setKey, err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, tokenID := range tokenIDs {
		keys = append(keys, sessionKey(tokenID))
	}
	keys = append(keys, setKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL sessions of %s: %w", setKey, err)
	}
	return nil
}
