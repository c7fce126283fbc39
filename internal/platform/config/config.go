package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	strutil "evote/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	LogLevel       string
	AdminAPIToken  string
	// AllowedOrigins for the public board and results endpoints. Empty allows any origin.
	AllowedOrigins []string
	JWT            JWTConfig
	Postgres       PostgresConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Tally          TallyConfig
	Security       SecurityConfig
	Keys           KeyConfig
}

// JWTConfig configures validation of session tokens minted by the identity service.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// PostgresConfig selects the postgres stores when URL is set.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig selects the redis nonce store when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig selects the kafka integrity notifier when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string
	AlertTopic string
	Partitions int32
}

// TallyConfig holds the tally display policy.
type TallyConfig struct {
	// MaxReasonable is the plausibility ceiling above which a decrypted total
	// is reported as Overflow(n).
	MaxReasonable int64
}

// SecurityConfig holds anti-replay and alerting windows.
type SecurityConfig struct {
	IssuanceNonceTTL   time.Duration
	AlertThrottle      time.Duration
	AnomalyBuffer      int
	// ChainCheckInterval is how often the background chain verifier runs.
	ChainCheckInterval time.Duration
}

// KeyConfig sets sizes for generated keys.
type KeyConfig struct {
	RSABits      int
	PaillierBits int
}

// Default values. Exported so tests and the CLI agree with the server.
const (
	DefaultMaxReasonable    = 10000
	DefaultIssuanceNonceTTL = 300 * time.Second
	DefaultAlertThrottle    = 600 * time.Second
	DefaultKeyBits          = 2048
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           getEnv("ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AdminAPIToken:  getEnv("ADMIN_API_TOKEN", "dev-admin-token-change-in-production"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		JWT: JWTConfig{
			// Use a default for development - must be overridden in production
			SigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     getEnv("JWT_ISSUER", "evote-identity"),
			Audience:   getEnv("JWT_AUDIENCE", "evote"),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AlertTopic: getEnv("KAFKA_ALERT_TOPIC", "evote.integrity-alerts"),
			Partitions: int32(getEnvInt("KAFKA_ALERT_PARTITIONS", 1)),
		},
		Tally: TallyConfig{
			MaxReasonable: int64(getEnvInt("TALLY_MAX_REASONABLE", DefaultMaxReasonable)),
		},
		Security: SecurityConfig{
			IssuanceNonceTTL:   getEnvDuration("ISSUANCE_NONCE_TTL", DefaultIssuanceNonceTTL),
			AlertThrottle:      getEnvDuration("ALERT_THROTTLE", DefaultAlertThrottle),
			AnomalyBuffer:      getEnvInt("ANOMALY_BUFFER", 10000),
			ChainCheckInterval: getEnvDuration("CHAIN_CHECK_INTERVAL", time.Minute),
		},
		Keys: KeyConfig{
			RSABits:      getEnvInt("RSA_KEY_BITS", DefaultKeyBits),
			PaillierBits: getEnvInt("PAILLIER_KEY_BITS", DefaultKeyBits),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
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

// getEnvDuration accepts Go durations ("10m") or plain seconds ("600").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strutil.DedupeAndTrim(strings.Split(v, ","))
}
