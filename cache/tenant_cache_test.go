package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	salonID := uuid.New()

	var got settings
	hit, err := c.Get(ctx, salonID, KeySalonSettings, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, salonID, KeySalonSettings, settings{Name: "Studio Ana"}))
	assert.True(t, mr.Exists("easyhora:"+salonID.String()+":salon_settings"))

	hit, err = c.Get(ctx, salonID, KeySalonSettings, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Studio Ana", got.Name)
}

func TestRedisCacheIsolatesTenants(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	salonA, salonB := uuid.New(), uuid.New()

	require.NoError(t, c.Set(ctx, salonA, KeyBlockedDates, []string{"2025-06-11"}))

	var dates []string
	hit, err := c.Get(ctx, salonB, KeyBlockedDates, &dates)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheInvalidateAndTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	salonID := uuid.New()

	require.NoError(t, c.Set(ctx, salonID, KeyClients, []string{"a"}))
	require.NoError(t, c.Set(ctx, salonID, KeyBlockedDates, []string{"b"}))
	require.NoError(t, c.Invalidate(ctx, salonID, KeyClients))

	assert.False(t, mr.Exists(Key(salonID, KeyClients)))
	assert.True(t, mr.Exists(Key(salonID, KeyBlockedDates)))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(Key(salonID, KeyBlockedDates)))
}

func TestNoopAlwaysMisses(t *testing.T) {
	var c TenantCache = Noop{}
	require.NoError(t, c.Set(context.Background(), uuid.New(), KeyClients, []string{"a"}))

	var out []string
	hit, err := c.Get(context.Background(), uuid.New(), KeyClients, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
