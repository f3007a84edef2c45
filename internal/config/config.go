package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env        string
	ServerPort string
	LogLevel   string

	DBDriver     string
	DatabasePath string
	MySQLDSN     string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret    string
	JWTExpiresIn time.Duration

	CORSOrigin string
	AppBaseURL string

	AdminEmail    string
	AdminPassword string

	ResendAPIKey string
	MailFrom     string

	KhaltiBaseURL       string
	KhaltiSecretKey     string
	KhaltiFallbackPhone string
	PlusAmountNPR       decimal.Decimal
	ProAmountNPR        decimal.Decimal
	ProviderTimeout     time.Duration

	MetricsNamespace string
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	corsOrigin := getEnv("CORS_ORIGIN", "http://localhost:8080")

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8787"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabasePath: getEnv("DATABASE_PATH", "data/portfolio.db"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/portfolio?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:    getEnv("JWT_SECRET", "replace-with-strong-secret"),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		CORSOrigin: corsOrigin,
		AppBaseURL: strings.TrimRight(getEnv("APP_BASE_URL", corsOrigin), "/"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "ChangeMe123!"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "Portfolio Studio <no-reply@portfolio-studio.app>"),

		KhaltiBaseURL:       strings.TrimRight(getEnv("KHALTI_BASE_URL", "https://dev.khalti.com"), "/"),
		KhaltiSecretKey:     os.Getenv("KHALTI_SECRET_KEY"),
		KhaltiFallbackPhone: getEnv("KHALTI_FALLBACK_PHONE", "9800000001"),
		PlusAmountNPR:       getEnvDecimal("PLUS_AMOUNT_NPR", decimal.NewFromInt(5000)),
		ProAmountNPR:        getEnvDecimal("PRO_AMOUNT_NPR", decimal.NewFromInt(1500)),
		ProviderTimeout:     getEnvDuration("PROVIDER_TIMEOUT", 20*time.Second),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "portfolio_studio"),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("90m") and the day suffix used by
// JWT_EXPIRES_IN ("7d").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return def
	}
	if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
		return parsed
	}
	return def
}

func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if parsed, err := decimal.NewFromString(v); err == nil && parsed.IsPositive() {
			return parsed
		}
	}
	return def
}
