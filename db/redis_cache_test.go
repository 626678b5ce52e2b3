package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"student-marks-go/config"
)

func newTestCache(t *testing.T) (*MarksCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewMarksCache(client, "marks", time.Minute), mr
}

func TestMarksCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	names := []string{"John", "Bob"}

	if _, hit, err := cache.Get(ctx, "fp", names); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := cache.Set(ctx, "fp", names, []*int{intPtr(90), nil}); err != nil {
		t.Fatalf("set: %v", err)
	}

	marks, hit, err := cache.Get(ctx, "fp", []string{"john", "BOB"})
	if err != nil || !hit {
		t.Fatalf("expected hit for case variants, got hit=%v err=%v", hit, err)
	}
	if len(marks) != 2 || marks[0] == nil || *marks[0] != 90 || marks[1] != nil {
		t.Fatalf("unexpected cached marks %v", marks)
	}

	key := cache.Key("fp", names)
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected TTL of one minute, got %s", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := cache.Get(ctx, "fp", names); hit {
		t.Fatal("expected entry to expire")
	}
}

func TestMarksCacheKeyDependsOnFingerprintAndOrder(t *testing.T) {
	cache, _ := newTestCache(t)
	base := cache.Key("a", []string{"John", "Alice"})
	if base == cache.Key("b", []string{"John", "Alice"}) {
		t.Fatal("fingerprint must be part of the key")
	}
	if base == cache.Key("a", []string{"Alice", "John"}) {
		t.Fatal("name order must be part of the key")
	}
	if base != cache.Key("a", []string{"JOHN", "alice"}) {
		t.Fatal("letter case must not change the key")
	}
}

func TestMarksCacheKeyKeepsNameBoundaries(t *testing.T) {
	cache, _ := newTestCache(t)
	a := cache.Key("fp", []string{"john", "x\x1falice"})
	b := cache.Key("fp", []string{"john\x1fx", "alice"})
	if a == b {
		t.Fatal("names containing separator bytes must not collide")
	}
	if cache.Key("fp", []string{"a,b"}) == cache.Key("fp", []string{"a", "b"}) {
		t.Fatal("a single name must not collide with a split pair")
	}
	if cache.Key("fp", []string{"1:a"}) == cache.Key("fp", []string{"", "a"}) {
		t.Fatal("length prefixes must not be forgeable")
	}
}

func TestMarksCacheDoesNotServeCollidingQuery(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	if err := cache.Set(ctx, "fp", []string{"John", "x\x1fAlice"}, []*int{intPtr(90), nil}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, hit, err := cache.Get(ctx, "fp", []string{"John\x1fx", "Alice"}); hit || err != nil {
		t.Fatalf("expected miss for a different query, got hit=%v err=%v", hit, err)
	}
}

func TestMarksCacheIgnoresMismatchedEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	names := []string{"John", "Alice"}
	if err := mr.Set(cache.Key("fp", names), "[90]"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, hit, err := cache.Get(context.Background(), "fp", names); hit || err != nil {
		t.Fatalf("expected miss for short entry, got hit=%v err=%v", hit, err)
	}
}

func TestMarksCacheReportsGarbage(t *testing.T) {
	cache, mr := newTestCache(t)
	names := []string{"John"}
	if err := mr.Set(cache.Key("fp", names), "not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, hit, err := cache.Get(context.Background(), "fp", names); hit || err == nil {
		t.Fatalf("expected decode error, got hit=%v err=%v", hit, err)
	}
}

func TestInitializeRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := InitializeRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	if _, err := InitializeRedisClient(context.Background(), config.RedisConfig{Addr: addr, Timeout: time.Second}); err == nil {
		t.Fatal("expected error for unreachable Redis")
	}
}

func TestNewRedisClientBoundsCommands(t *testing.T) {
	client := NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:6379", Timeout: 30 * time.Millisecond})
	defer client.Close()

	opts := client.Options()
	// go-redis stores MaxRetries -1 as zero retries
	if opts.MaxRetries != 0 {
		t.Fatalf("expected retries disabled, got %d", opts.MaxRetries)
	}
	if opts.DialTimeout != 30*time.Millisecond || opts.ReadTimeout != 30*time.Millisecond || opts.WriteTimeout != 30*time.Millisecond {
		t.Fatalf("expected 30ms timeouts, got dial=%s read=%s write=%s", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
}
