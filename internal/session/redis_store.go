package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON strings under "<prefix>:<id>" and the
// views of a session in a hash under "<prefix>:view:<id>", one field per
// table.  Both keys expire with the session.
type RedisStore struct {
	rdb     *redis.Client
	prefix  string
	viewTTL time.Duration
}

// NewRedisStore returns a store on rdb.  viewTTL bounds how long view
// state outlives its last write.
func NewRedisStore(rdb *redis.Client, prefix string, viewTTL time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "sess"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, viewTTL: viewTTL}
}

func (s *RedisStore) key(id string) string     { return s.prefix + ":" + id }
func (s *RedisStore) viewKey(id string) string { return s.prefix + ":view:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session: already expired")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(sess.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id), s.viewKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadView(ctx context.Context, id, table string, dst any) (bool, error) {
	raw, err := s.rdb.HGet(ctx, s.viewKey(id), table).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis hget view: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode view %s: %w", table, err)
	}
	return true, nil
}

func (s *RedisStore) DropView(ctx context.Context, id, table string) error {
	if err := s.rdb.HDel(ctx, s.viewKey(id), table).Err(); err != nil {
		return fmt.Errorf("redis hdel view: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveView(ctx context.Context, id, table string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode view %s: %w", table, err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.viewKey(id), table, raw)
	if s.viewTTL > 0 {
		pipe.Expire(ctx, s.viewKey(id), s.viewTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save view: %w", err)
	}
	return nil
}
