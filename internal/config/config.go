package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port               string
	DatabaseURL        string
	ClerkSecretKey     string
	ClerkWebhookSecret string
	MetricsUser        string
	MetricsPass        string
	FCMCredentialsFile string

	// WeekStartsOn is used for every week window and calendar grid.
	WeekStartsOn time.Weekday
	// ResetStreakOnEnable restarts a sober streak from today each time it is
	// switched on instead of resuming the paused one.
	ResetStreakOnEnable bool
	Location            *time.Location

	WeeklyReportSpec string
	SoberCheckSpec   string

	// TrustedProxyHops is the number of reverse proxies that append to
	// X-Forwarded-For. Zero means the header is not trusted.
	TrustedProxyHops int

	DB DBConfig
}

type DBConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	cfg := &Config{
		Port:                getEnvDefault("PORT", "3333"),
		DatabaseURL:         mustEnv("DATABASE_URL", log),
		ClerkSecretKey:      mustEnv("CLERK_SECRET_KEY", log),
		ClerkWebhookSecret:  os.Getenv("CLERK_WEBHOOK_SECRET"),
		MetricsUser:         os.Getenv("METRICS_USER"),
		MetricsPass:         os.Getenv("METRICS_PASS"),
		FCMCredentialsFile:  getEnvDefault("FCM_CREDENTIALS_FILE", "./serviceAccountKey.json"),
		WeekStartsOn:        parseWeekStart(os.Getenv("WEEK_STARTS_ON"), log),
		ResetStreakOnEnable: parseBool(os.Getenv("RESET_STREAK_ON_ENABLE"), false, log),
		Location:            parseLocation(os.Getenv("TIMEZONE"), log),
		WeeklyReportSpec:    getEnvDefault("WEEKLY_REPORT_CRON", "0 9 * * MON"),
		SoberCheckSpec:      getEnvDefault("SOBER_CHECK_CRON", "0 10 * * *"),
		TrustedProxyHops:    parseNonNegativeInt(os.Getenv("TRUSTED_PROXY_HOPS"), 0, log),
		DB: DBConfig{
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}

	return cfg
}

func mustEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	log.Error("Required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// ParseWeekStart accepts "monday" or "sunday"; anything else is Monday.
func ParseWeekStart(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monday", "mon":
		return time.Monday, true
	case "sunday", "sun":
		return time.Sunday, true
	}
	return time.Monday, false
}

func parseWeekStart(s string, log *zap.Logger) time.Weekday {
	d, ok := ParseWeekStart(s)
	if !ok {
		log.Warn("Unsupported WEEK_STARTS_ON, using monday", zap.String("value", s))
	}
	return d
}

func parseBool(s string, def bool, log *zap.Logger) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		log.Warn("Invalid boolean env value", zap.String("value", s), zap.Error(err))
		return def
	}
	return v
}

func parseNonNegativeInt(s string, def int, log *zap.Logger) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		log.Warn("Invalid non-negative integer env value", zap.String("value", s))
		return def
	}
	return v
}

func parseLocation(name string, log *zap.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("Unknown TIMEZONE, using UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
