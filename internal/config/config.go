package config

import (
	"os"
	"strconv"
	"strings"

	"points_economy/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminUserIDs []int64

	// Rate limits
	APIRateLimit      int // requests per window per IP on the /api group
	APIRateWindow     int // seconds
	EconomyRateLimit  int // mutating economy calls per window per user
	EconomyRateWindow int // seconds

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env honored in dev).
// DATABASE_URL and JWT_SECRET are required; everything else has defaults.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	// Operator allowlist, comma-separated user ids
	var adminIDs []int64
	if s := os.Getenv("ADMIN_USER_IDS"); s != "" {
		for _, idStr := range strings.Split(s, ",") {
			idStr = strings.TrimSpace(idStr)
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := 60
	if v := os.Getenv("API_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = n
		}
	}

	economyRateLimit := 30
	if v := os.Getenv("ECONOMY_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			economyRateLimit = n
		}
	}

	economyRateWindow := 60
	if v := os.Getenv("ECONOMY_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			economyRateWindow = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		AdminUserIDs:      adminIDs,
		APIRateLimit:      apiRateLimit,
		APIRateWindow:     apiRateWindow,
		EconomyRateLimit:  economyRateLimit,
		EconomyRateWindow: economyRateWindow,
		LogLevel:          logLevel,
		LogJSON:           os.Getenv("LOG_JSON") == "true",
	}
}
