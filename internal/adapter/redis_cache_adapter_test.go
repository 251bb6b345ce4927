package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"quiz-diagnosis/internal/domain"
)

const narrativeKey = "diagnosis:narrative:openrouter:3f2a"

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	stored := `{"urgencyLevel":"Alta","urgencyDescription":"x","conclusion":"y"}`

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet(narrativeKey).SetVal(stored)
		val, err := cache.Get(ctx, narrativeKey)
		assert.NoError(t, err)
		assert.Equal(t, stored, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet(narrativeKey).SetErr(redis.Nil)
		val, err := cache.Get(ctx, narrativeKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(narrativeKey).SetErr(redisErr)
		val, err := cache.Get(ctx, narrativeKey)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	value := `{"urgencyLevel":"Baixa"}`
	ttl := 24 * time.Hour

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(narrativeKey, value, ttl).SetVal("OK")
		assert.NoError(t, cache.Set(ctx, narrativeKey, value, ttl))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("OOM command not allowed")
		mock.ExpectSet(narrativeKey, value, ttl).SetErr(redisErr)
		assert.ErrorIs(t, cache.Set(ctx, narrativeKey, value, ttl), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectDel(narrativeKey).SetVal(1)
		assert.NoError(t, cache.Delete(ctx, narrativeKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeyNotFound", func(t *testing.T) {
		mock.ExpectDel(narrativeKey).SetVal(0)
		assert.NoError(t, cache.Delete(ctx, narrativeKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectPing().SetVal("PONG")
		assert.NoError(t, cache.Ping(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("dial tcp: connection refused")
		mock.ExpectPing().SetErr(redisErr)
		assert.ErrorIs(t, cache.Ping(ctx), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
