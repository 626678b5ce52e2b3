package db

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"student-marks-go/config"
)

// MarksCache stores lookup results in Redis, keyed by dataset fingerprint
// and the lower-cased requested names.
type MarksCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

// NewMarksCache creates a new MarksCache instance
func NewMarksCache(client *redis.Client, prefix string, ttl time.Duration) *MarksCache {
	return &MarksCache{
		Client: client,
		Prefix: prefix,
		TTL:    ttl,
	}
}

// Key builds the cache key for a query against the dataset with the given fingerprint
func (c *MarksCache) Key(fingerprint string, names []string) string {
	// Length-prefixed so name boundaries stay unambiguous whatever bytes the names hold
	h := sha1.New()
	for _, name := range names {
		lowered := strings.ToLower(name)
		fmt.Fprintf(h, "%d:%s", len(lowered), lowered)
	}
	return c.Prefix + ":" + fingerprint + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for names. The boolean is false on a miss.
func (c *MarksCache) Get(ctx context.Context, fingerprint string, names []string) ([]*int, bool, error) {
	key := c.Key(fingerprint, names)
	data, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached marks from Redis: %w", err)
	}

	var marks []*int
	if err := json.Unmarshal(data, &marks); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached marks for key %s: %w", key, err)
	}
	if len(marks) != len(names) {
		// Stale or foreign entry, treat as a miss
		return nil, false, nil
	}
	return marks, true, nil
}

// Set stores the result for names
func (c *MarksCache) Set(ctx context.Context, fingerprint string, names []string, marks []*int) error {
	data, err := json.Marshal(marks)
	if err != nil {
		return fmt.Errorf("failed to encode marks: %w", err)
	}
	if err := c.Client.Set(ctx, c.Key(fingerprint, names), data, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache marks in Redis: %w", err)
	}
	return nil
}

// --- Utility ---

// NewRedisClient creates a Redis client whose every command is bounded by
// cfg.Timeout and never retried, so a stalled server only costs a lookup a
// few milliseconds.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   -1,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		PoolTimeout:  cfg.Timeout,
	})
}

// InitializeRedisClient creates a Redis client and checks the connection.
// The client is closed again when the server does not answer.
func InitializeRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := NewRedisClient(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Successfully connected to Redis at %s (DB %d)", cfg.Addr, cfg.DB)
	return rdb, nil
}
