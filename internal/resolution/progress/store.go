package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store é o contrato do armazenamento de Records. Get devolve ok=false
// quando não há registro (nunca inicializado ou TTL expirado) — o kernel
// trata os dois casos da mesma forma, recapturando o baseline.
type Store interface {
	Get(ctx context.Context, wagerID string) (*Record, bool, error)
	Set(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, wagerID string) error
}

// RedisStore guarda Records em Redis com TTL. O TTL precisa exceder a
// duração máxima plausível de um jogo com folga (default 8h).
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(c *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: c, TTL: ttl}
}

func key(wagerID string) string { return "resolution:progress:" + wagerID }

func (s *RedisStore) Get(ctx context.Context, wagerID string) (*Record, bool, error) {
	b, err := s.Client.Get(ctx, key(wagerID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func (s *RedisStore) Set(ctx context.Context, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(rec.WagerID), b, s.TTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, wagerID string) error {
	return s.Client.Del(ctx, key(wagerID)).Err()
}
