package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client layer.
type Config struct {
	Services ServicesConfig
	HTTP     HTTPConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// ServicesConfig holds the base address per backend service.
type ServicesConfig struct {
	UserBaseURL     string
	DeliveryBaseURL string
	LocationBaseURL string
}

// HTTPConfig controls outbound request behavior.
type HTTPConfig struct {
	TimeoutSeconds int
}

// CacheConfig holds TTLs for the memoized fetches.
type CacheConfig struct {
	AreasTTLSeconds  int
	OrdersTTLSeconds int
}

// StorageConfig selects and configures the local key-value store.
type StorageConfig struct {
	Driver        string
	FilePath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// AuthConfig defines client-side gating parameters.
type AuthConfig struct {
	AllowedRole string
}

// Storage driver names accepted by StorageConfig.Driver.
const (
	StorageDriverFile   = "file"
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	driver := getEnv("STORAGE_DRIVER", StorageDriverFile)
	switch driver {
	case StorageDriverFile, StorageDriverMemory, StorageDriverRedis:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: %q", driver)
	}

	cfg := &Config{
		Services: ServicesConfig{
			UserBaseURL:     getEnv("USER_SERVICE_URL", "http://127.0.0.1:4001/api"),
			DeliveryBaseURL: getEnv("DELIVERY_SERVICE_URL", "http://127.0.0.1:4003/api"),
			LocationBaseURL: getEnv("LOCATION_SERVICE_URL", "http://127.0.0.1:4004/api"),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: getEnvAsInt("HTTP_TIMEOUT_SECONDS", 10),
		},
		Cache: CacheConfig{
			AreasTTLSeconds:  getEnvAsInt("CACHE_AREAS_TTL_SECONDS", 300),
			OrdersTTLSeconds: getEnvAsInt("CACHE_ORDERS_TTL_SECONDS", 120),
		},
		Storage: StorageConfig{
			Driver:        driver,
			FilePath:      getEnv("STORAGE_FILE_PATH", defaultStorePath()),
			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Auth: AuthConfig{
			AllowedRole: getEnv("AUTH_ALLOWED_ROLE", "delivery_person"),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured outbound request timeout.
func (h HTTPConfig) RequestTimeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// AreasTTL returns the area cache validity window.
func (c CacheConfig) AreasTTL() time.Duration {
	if c.AreasTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.AreasTTLSeconds) * time.Second
}

// OrdersTTL returns the order cache validity window.
func (c CacheConfig) OrdersTTL() time.Duration {
	if c.OrdersTTLSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.OrdersTTLSeconds) * time.Second
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".courier/store.json"
	}
	return home + "/.courier/store.json"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
