package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultDataFile    = "q-vercel-python.json"
	defaultCachePrefix = "marks"
	defaultCacheTTL    = 5 * time.Minute
	defaultRedisAddr   = "127.0.0.1:6379"
	defaultRedisWait   = 50 * time.Millisecond
)

// Config holds the service configuration, read from environment variables
type Config struct {
	Server   ServerConfig
	DataFile string // Dataset file, relative paths resolve next to the executable
	Cache    CacheConfig
	Redis    RedisConfig
}

// ServerConfig describes the HTTP listener
type ServerConfig struct {
	Addr    string
	GinMode string // debug, release or test; empty keeps gin's default
}

// CacheConfig controls the Redis cache of lookup results.
// The cache is opt-in and skipped entirely when Enabled is false.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration // per-command budget for dial, read and write
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	cache, err := loadCacheConfig()
	if err != nil {
		return nil, err
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		DataFile: getenv("MARKS_DATA_FILE", defaultDataFile),
		Cache:    cache,
		Redis:    redisCfg,
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}
	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	addr := port
	if !strings.Contains(port, ":") {
		addr = ":" + port
	}

	mode := strings.ToLower(strings.TrimSpace(os.Getenv("GIN_MODE")))
	switch mode {
	case "", "debug", "release", "test":
	default:
		return ServerConfig{}, fmt.Errorf("invalid GIN_MODE value: %q", mode)
	}

	return ServerConfig{Addr: addr, GinMode: mode}, nil
}

func loadCacheConfig() (CacheConfig, error) {
	enabled, err := parseBool("CACHE_ENABLED", false)
	if err != nil {
		return CacheConfig{}, err
	}

	ttl, err := parsePositiveDuration("CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return CacheConfig{}, err
	}

	return CacheConfig{
		Enabled: enabled,
		TTL:     ttl,
		Prefix:  getenv("CACHE_PREFIX", defaultCachePrefix),
	}, nil
}

func loadRedisConfig() (RedisConfig, error) {
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return RedisConfig{}, fmt.Errorf("invalid REDIS_DB value: %q", v)
		}
		db = n
	}

	timeout, err := parsePositiveDuration("REDIS_TIMEOUT", defaultRedisWait)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Addr:     getenv("REDIS_ADDR", defaultRedisAddr),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		Timeout:  timeout,
	}, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}

func parsePositiveDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}
