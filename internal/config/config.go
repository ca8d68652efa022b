package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr           string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	RandomSeed     int64
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() APIConfig {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("CHIQBANK_API_ADDR", ":8080")
	}

	return APIConfig{
		Addr:           addr,
		JWTSecret:      envDefault("CHIQBANK_JWT_SECRET", "chiquibank_secreto_realista_2024"),
		TokenTTL:       envDurationDefault("CHIQBANK_TOKEN_TTL", 24*time.Hour),
		RequestTimeout: envDurationDefault("CHIQBANK_REQUEST_TIMEOUT", 60*time.Second),
		RandomSeed:     envInt64Default("CHIQBANK_RANDOM_SEED", 0),
	}
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("CHIQ_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
