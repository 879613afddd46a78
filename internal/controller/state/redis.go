package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL сколько живёт неактивный диалог
const DefaultSessionTTL = 24 * time.Hour

const sessionKeyPrefix = "agenda_bot:session:"

// RedisStore сессии в Redis, JSON с TTL. Переживает перезапуск бота
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(telegramID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(telegramID, 10)
}

func (s *RedisStore) Get(ctx context.Context, telegramID int64) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(telegramID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save продлевает TTL при каждом шаге диалога
func (s *RedisStore) Save(ctx context.Context, telegramID int64, sess *Session) error {
	if sess.IsEmpty() {
		return s.Clear(ctx, telegramID)
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(telegramID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, telegramID int64) error {
	if err := s.client.Del(ctx, sessionKey(telegramID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
