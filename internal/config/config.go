package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string
	Env  string

	JWTSecret string
	JWTTTL    time.Duration

	// RedisURL empty keeps rate limits and round history in memory.
	RedisURL  string
	RedisPass string
	RedisDB   int

	LogLevel    string
	LogEncoding string

	GameRulesPath string

	StaleRoundAge      time.Duration
	SessionIdleTimeout time.Duration
	RateLimitRounds    int
	HistoryLimit       int64
}

// Load reads the configuration from the environment. main loads .env first.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogEncoding:        getEnv("LOG_ENCODING", "json"),
		GameRulesPath:      getEnv("GAME_RULES_PATH", "config/games.yaml"),
		JWTTTL:             24 * time.Hour,
		StaleRoundAge:      10 * time.Minute,
		SessionIdleTimeout: 30 * time.Minute,
		RateLimitRounds:    30,
		HistoryLimit:       100,
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitRounds, err = getInt("RATE_LIMIT_ROUNDS", cfg.RateLimitRounds); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDuration("JWT_TTL", cfg.JWTTTL); err != nil {
		return nil, err
	}
	if cfg.StaleRoundAge, err = getDuration("STALE_ROUND_AGE", cfg.StaleRoundAge); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}
