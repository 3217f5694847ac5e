//go:build integration

package authlockout

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"droneregistry/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	client *redis.Client
	store  *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	rc := containers.GetManager().GetRedis(s.T())
	s.client = rc.Client
	s.store = NewRedisStore(s.client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(context.Background()).Err())
}

func (s *RedisStoreSuite) TestRecordLockClear() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	key := Key("ops@example.com", "10.0.0.1")

	missing, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Nil(missing)

	for i := 1; i <= 3; i++ {
		rec, err := s.store.RecordFailure(ctx, key, now, time.Minute)
		s.Require().NoError(err)
		s.Equal(i, rec.FailureCount)
		s.True(now.Equal(rec.WindowStart))
	}

	until := now.Add(time.Hour)
	s.Require().NoError(s.store.Lock(ctx, key, until))
	rec, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Require().NotNil(rec.LockedUntil)
	s.True(until.Equal(*rec.LockedUntil))
	s.Greater(s.client.TTL(ctx, redisKeyPrefix+key).Val(), 50*time.Minute)

	s.Require().NoError(s.store.Clear(ctx, key))
	rec, err = s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Nil(rec)
}
