//go:build integration

package nonce_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"evote/internal/credential/nonce"
	"evote/pkg/testutil/containers"
)

type RedisKVSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	kv    *nonce.RedisKV
}

func TestRedisKVSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisKVSuite))
}

func (s *RedisKVSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.kv = nonce.NewRedisKV(s.redis.Client.Client)
}

func (s *RedisKVSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *RedisKVSuite) TestPutGetDelete() {
	ctx := context.Background()
	s.Require().NoError(s.kv.Put(ctx, "a", "1", time.Minute))

	v, ok, err := s.kv.Get(ctx, "a")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("1", v)

	s.Require().NoError(s.kv.Delete(ctx, "a"))
	_, ok, err = s.kv.Get(ctx, "a")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisKVSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.kv.Put(ctx, "short", "1", 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)
	_, ok, err := s.kv.Get(ctx, "short")
	s.Require().NoError(err)
	s.False(ok)
}

// TestConcurrentTakeRedeemsOnce verifies a challenge is redeemed by exactly one caller.
func (s *RedisKVSuite) TestConcurrentTakeRedeemsOnce() {
	ctx := context.Background()
	s.Require().NoError(s.kv.Put(ctx, "challenge", "n", time.Minute))

	var wg sync.WaitGroup
	var redeemed atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, err := s.kv.Take(ctx, "challenge"); err == nil && ok {
				redeemed.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), redeemed.Load())
}
