package vesting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestScheduleCacheRoundTrip(t *testing.T) {
	client := testRedis(t)
	cache := NewScheduleCache(client, time.Minute)
	ctx := context.Background()

	s := *testSchedule()
	s.ClaimedAmount = 123_456

	if err := cache.Set(ctx, string(s.Address), s); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cache.Get(ctx, string(s.Address))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Errorf("got %+v, expected %+v", got, s)
	}
}

func TestScheduleCacheMiss(t *testing.T) {
	cache := NewScheduleCache(testRedis(t), time.Minute)

	_, err := cache.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestScheduleCacheDelete(t *testing.T) {
	cache := NewScheduleCache(testRedis(t), time.Minute)
	ctx := context.Background()

	s := *testSchedule()
	if err := cache.Set(ctx, string(s.Address), s); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(ctx, string(s.Address)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, string(s.Address)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}

	// deleting an absent key is not an error
	if err := cache.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestScheduleCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewScheduleCache(client, time.Second)
	ctx := context.Background()

	s := *testSchedule()
	if err := cache.Set(ctx, string(s.Address), s); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if _, err := cache.Get(ctx, string(s.Address)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestEngineCacheLifecycle(t *testing.T) {
	e, _, clock := newTestEngine(t)
	cache := NewScheduleCache(testRedis(t), time.Minute)
	e.SetCache(cache)
	ctx := context.Background()

	s := mustCreate(t, e)

	// create populates the cache
	cached, err := cache.Get(ctx, string(s.Address))
	if err != nil {
		t.Fatalf("cache miss after create: %v", err)
	}
	if cached.Address != s.Address {
		t.Errorf("cached address %s, expected %s", cached.Address, s.Address)
	}

	// claim invalidates it; the next read repopulates with the new counter
	clock.now = s.StartTime + 432_000
	if _, err := e.Claim(ctx, ClaimRequest{Schedule: s.Address, Beneficiary: testBeneficiary}); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if _, err := cache.Get(ctx, string(s.Address)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected cache invalidation after claim, got %v", err)
	}

	resp, err := e.GetScheduleState(ctx, ScheduleRequest{Address: &s.Address})
	if err != nil {
		t.Fatalf("GetScheduleState failed: %v", err)
	}
	if resp.Schedule.ClaimedAmount != 500_000 {
		t.Errorf("claimed counter %d, expected 500000", resp.Schedule.ClaimedAmount)
	}
	cached, err = cache.Get(ctx, string(s.Address))
	if err != nil {
		t.Fatalf("cache miss after read-through: %v", err)
	}
	if cached.ClaimedAmount != 500_000 {
		t.Errorf("cached counter %d, expected 500000", cached.ClaimedAmount)
	}
}

func TestCacheDecodeFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewScheduleCache(client, time.Minute)

	mr.Set("vesting:schedule:broken", "not msgpack at all")
	_, err := cache.Get(context.Background(), "broken")
	if !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("expected ErrDecodeFailed, got %v", err)
	}
}
