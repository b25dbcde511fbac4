package planner

import (
	"context"
	"testing"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisPlanStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisPlanStore(client, ttl)
}

func TestRedisPlanStoreRoundTrip(t *testing.T) {
	mr, store := newRedisStore(t, time.Hour)
	ctx := context.Background()
	plan := &models.TravelPlan{
		ID:        "0b7c",
		Status:    models.PlanComplete,
		Request:   familyTrip(),
		Flights:   []models.FlightOffer{{Airline: "IndiGo", Price: price(5400)}},
		Itinerary: "Day 1: India Gate.",
	}
	require.NoError(t, store.Save(ctx, plan))

	assert.True(t, mr.Exists("plan:0b7c"))
	assert.Equal(t, time.Hour, mr.TTL("plan:0b7c"))

	got, err := store.Get(ctx, "0b7c")
	require.NoError(t, err)
	assert.Equal(t, models.PlanComplete, got.Status)
	assert.Equal(t, "DEL", got.Request.Destination)
	require.Len(t, got.Flights, 1)
	assert.Equal(t, 5400.0, *got.Flights[0].Price)
	assert.Equal(t, "Day 1: India Gate.", got.Itinerary)
}

func TestRedisPlanStoreExpires(t *testing.T) {
	mr, store := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &models.TravelPlan{ID: "p1"}))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestRedisPlanStoreUnknownID(t *testing.T) {
	_, store := newRedisStore(t, time.Minute)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestRedisPlanStoreUnreadableEntry(t *testing.T) {
	mr, store := newRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("plan:bad", "{"))
	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlanNotFound)
}
