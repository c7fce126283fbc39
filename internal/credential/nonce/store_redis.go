package nonce

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	opDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evote_nonce_store_duration_ms",
		Help:    "Latency of nonce store operations in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	}, []string{"op"})
)

const keyPrefix = "nonce:"

// RedisKV is the Redis-backed KV shared by all replicas.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func observe(op string, start time.Time) {
	opDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// Put uses SET with expiry so the value and its TTL are written atomically.
func (s *RedisKV) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	defer observe("put", time.Now())
	return s.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	defer observe("get", time.Now())
	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	defer observe("delete", time.Now())
	return s.client.Del(ctx, keyPrefix+key).Err()
}

// Take uses GETDEL so a challenge can be redeemed at most once across replicas.
func (s *RedisKV) Take(ctx context.Context, key string) (string, bool, error) {
	defer observe("take", time.Now())
	v, err := s.client.GetDel(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
