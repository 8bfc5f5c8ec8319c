package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Rule catalog
	CatalogSource   string // "file" or "db"
	RuleCatalogPath string
	TerminologyPath string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Decision cache
	DecisionCacheEnabled bool
	DecisionCachePrefix  string
	DecisionCacheTTL     time.Duration

	// Kafka
	KafkaBrokers  []string
	DecisionTopic string

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		CatalogSource:   getEnv("CATALOG_SOURCE", "file"),
		RuleCatalogPath: getEnv("RULE_CATALOG_PATH", ""),
		TerminologyPath: getEnv("TERMINOLOGY_PATH", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "triage"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "triage123"),
		PostgresDB:       getEnv("POSTGRES_DB", "triage"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		DecisionCacheEnabled: getBoolEnv("DECISION_CACHE_ENABLED", false),
		DecisionCachePrefix:  getEnv("DECISION_CACHE_PREFIX", "triage:decision"),
		DecisionCacheTTL:     getDuration("DECISION_CACHE_TTL", 2*time.Minute),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", nil),
		DecisionTopic: getEnv("DECISION_TOPIC", "triage.decisions"),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
