package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all runtime configuration so main stays lean.
type Config struct {
	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	GeoIP     GeoIPConfig
	Challenge ChallengeConfig
	Auth      AuthConfig
	Identity  IdentityConfig
	Realtime  RealtimeConfig
}

// HTTPConfig captures HTTP server level configuration.
type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// PostgresConfig captures connection pool settings for the SQL store.
type PostgresConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// RedisConfig captures connection settings for the Redis-backed stores.
// An empty URL means Redis is not configured and in-memory fallbacks apply.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the security event stream settings. Empty Brokers
// disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GeoIPConfig points at the MaxMind database used for IP enrichment.
// An empty path disables IP-based location checks.
type GeoIPConfig struct {
	DBPath string
}

// ChallengeConfig captures the external challenge verifier. An empty URL
// means challenge verification always passes (development mode).
type ChallengeConfig struct {
	VerifyURL string
	Secret    string
	Timeout   time.Duration
}

// AuthConfig holds signing material for reviewer API tokens.
type AuthConfig struct {
	JWTSigningKey string
}

// IdentityConfig holds the key used to hash client identifiers before they
// are stored anywhere.
type IdentityConfig struct {
	HashKey string
}

// RealtimeConfig tunes the websocket broadcaster.
type RealtimeConfig struct {
	MaxConnsPerIP int
	StatsInterval time.Duration
}

// FromEnv builds the full Config from environment variables.
func FromEnv() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("GEOVOTE_ADDR", ":8080"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getInt("POSTGRES_MAX_CONNS", 16)),
			MinConns: int32(getInt("POSTGRES_MIN_CONNS", 2)),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_SECURITY_EVENTS_TOPIC", "vote.security.events"),
		},
		GeoIP: GeoIPConfig{
			DBPath: os.Getenv("GEOIP_DB_PATH"),
		},
		Challenge: ChallengeConfig{
			VerifyURL: os.Getenv("CHALLENGE_VERIFY_URL"),
			Secret:    os.Getenv("CHALLENGE_SECRET"),
			Timeout:   getDuration("CHALLENGE_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Identity: IdentityConfig{
			HashKey: getEnv("IDENTIFIER_HASH_KEY", "dev-hash-key-change-in-production"),
		},
		Realtime: RealtimeConfig{
			MaxConnsPerIP: getInt("REALTIME_MAX_CONNS_PER_IP", 10),
			StatsInterval: getDuration("REALTIME_STATS_INTERVAL", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
