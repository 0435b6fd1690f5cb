package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetJSONMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db)

	mock.ExpectGet("polytrigger:test").RedisNil()

	var dst []PerpTicker
	hit, err := cache.GetJSON(context.Background(), "polytrigger:test", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetJSONHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db)

	stored := []PerpTicker{{Symbol: "ETH-PERP", MarkPrice: 4280, Source: SourceLive}}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	mock.ExpectGet("polytrigger:test").SetVal(string(data))

	var dst []PerpTicker
	hit, err := cache.GetJSON(context.Background(), "polytrigger:test", &dst)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stored, dst)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetJSONError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db)

	mock.ExpectGet("polytrigger:test").SetErr(errors.New("connection refused"))

	var dst []PerpTicker
	hit, err := cache.GetJSON(context.Background(), "polytrigger:test", &dst)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestRedisCache_SetJSON(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db)

	value := []EventMarket{{ID: "m1", Slug: "test-market", Probability: 72, Source: SourceLive}}
	data, err := json.Marshal(value)
	require.NoError(t, err)
	mock.ExpectSet("polytrigger:test", data, 30*time.Second).SetVal("OK")

	err = cache.SetJSON(context.Background(), "polytrigger:test", value, 30*time.Second)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
