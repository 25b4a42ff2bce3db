package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	redis "github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "partner:reset:"

type RedisResetTokenStore struct {
	client *redis.Client
}

func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func (s *RedisResetTokenStore) Put(ctx context.Context, token string, ticket domain.ResetTicket, ttl time.Duration) error {
	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("marshal reset ticket: %w", err)
	}
	key := resetKeyPrefix + token
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (s *RedisResetTokenStore) Take(ctx context.Context, token string) (*domain.ResetTicket, error) {
	key := resetKeyPrefix + token
	data, err := s.client.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("redis GETDEL %s: %w", key, err)
	}

	var ticket domain.ResetTicket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, fmt.Errorf("unmarshal reset ticket: %w", err)
	}
	return &ticket, nil
}
