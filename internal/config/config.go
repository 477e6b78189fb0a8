package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	RedisURL    string
	DatabaseURL string

	GeminiAPIKey string
	GeminiModel  string

	AllowedRooms []string

	EgressMode string
	DryRun     bool

	RoyaleMaxRounds        int
	RoyaleGeneratorTimeout time.Duration
	RoyaleSnapshotMaxAge   time.Duration
	RoyaleDefaultFactions  int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		EgressMode:             "auto",
		GeminiModel:            "gemini-2.0-flash",
		RoyaleMaxRounds:        25,
		RoyaleGeneratorTimeout: 30 * time.Second,
		RoyaleSnapshotMaxAge:   24 * time.Hour,
		RoyaleDefaultFactions:  2,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		cfg.GeminiModel = v
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ROOMS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedRooms = append(cfg.AllowedRooms, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("EGRESS_MODE")); v != "" {
		cfg.EgressMode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("EGRESS_DRYRUN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DryRun = b
		}
	}

	if v := strings.TrimSpace(os.Getenv("ROYALE_MAX_ROUNDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoyaleMaxRounds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ROYALE_GENERATOR_TIMEOUT")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoyaleGeneratorTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("ROYALE_SNAPSHOT_MAX_AGE")); v != "" { // hours
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoyaleSnapshotMaxAge = time.Duration(n) * time.Hour
		}
	}
	if v := strings.TrimSpace(os.Getenv("ROYALE_DEFAULT_FACTIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoyaleDefaultFactions = n
		}
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}

	return cfg, nil
}
