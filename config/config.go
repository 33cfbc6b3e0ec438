package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	Debug bool

	JWTSecret  string
	AnonSecret string

	StoreBackend string
	DBUsername   string
	DBPassword   string
	DBHost       string
	DBPort       string
	DBName       string

	FirebaseCredentialsFile string

	RedisAddr     string
	RedisPassword string

	GenAIKeyPrimary   string
	GenAIKeySecondary string
	GenAIModel        string

	BalancerMaxFailures int
	BalancerResetWindow time.Duration

	GenerationMaxAttempts      int
	GenerationTransportRetries int
	GenerationRetryDelay       time.Duration

	HistoryMaxLength int
	PromptMaxItems   int

	R2BucketName string

	SentryDSN string

	TelegramToken       string
	TelegramAlertChatID int64

	RateLimitRPS float64
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Env:   getEnv("ENV", "local"),
		Port:  getEnvInt("PORT", 8083),
		Debug: getEnvBool("DEBUG", false),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		AnonSecret: getEnv("ANON_SECRET", getEnv("JWT_SECRET", "")),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", "postgres")),
		DBUsername:   getEnv("DB_USERNAME", ""),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", ""),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", getEnv("ASYNC_BROKER_ADDRESS", "localhost:6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		GenAIKeyPrimary:   getEnv("GENAI_API_KEY_PRIMARY", getEnv("GOOGLE_API_KEY", "")),
		GenAIKeySecondary: getEnv("GENAI_API_KEY_SECONDARY", ""),
		GenAIModel:        getEnv("GENAI_MODEL", "gemini-2.0-flash"),

		BalancerMaxFailures: getEnvInt("BALANCER_MAX_FAILURES", 3),
		BalancerResetWindow: getEnvDuration("BALANCER_RESET_WINDOW", 300*time.Second),

		GenerationMaxAttempts:      getEnvInt("GENERATION_MAX_ATTEMPTS", 3),
		GenerationTransportRetries: getEnvInt("GENERATION_TRANSPORT_RETRIES", 2),
		GenerationRetryDelay:       getEnvDuration("GENERATION_RETRY_DELAY", time.Second),

		HistoryMaxLength: getEnvInt("HISTORY_MAX_LENGTH", 5),
		PromptMaxItems:   getEnvInt("PROMPT_MAX_ITEMS", 120),

		R2BucketName: getEnv("R2_BUCKET_NAME", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		TelegramToken:       getEnv("TG_TOKEN", ""),
		TelegramAlertChatID: int64(getEnvInt("TG_ALERT_CHAT_ID", 0)),

		RateLimitRPS: getEnvFloat("RATE_LIMIT_RPS", 3),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.GenAIKeyPrimary == "" {
		return nil, fmt.Errorf("GENAI_API_KEY_PRIMARY environment variable is not set")
	}
	switch cfg.StoreBackend {
	case "postgres", "firestore":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}
