package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/sdr-dashboard/internal/infra/integration/drafting"
	"github.com/xavierca1/sdr-dashboard/internal/infra/integration/scoring"
	"github.com/xavierca1/sdr-dashboard/internal/infra/integration/slots"
	"github.com/xavierca1/sdr-dashboard/internal/query"
)

type Config struct {
	Port string

	ScoringURL          string
	DraftingURL         string
	SlotsURL            string // empty selects the synthetic generator
	CollaboratorTimeout time.Duration
	Timezone            string
	SlotFailureRate     float64

	SearchDebounce time.Duration
	StatsInterval  time.Duration

	AllowedOrigins     []string
	RateLimitPerMinute int

	DatabaseURL string
	RabbitMQURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
}

// MailEnabled reports whether outreach can actually be sent.
func (c Config) MailEnabled() bool {
	return c.MailHost != "" && c.MailFrom != ""
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	cfg := Config{
		Port:                e.str("PORT", "8080"),
		ScoringURL:          e.str("SCORING_URL", scoring.DefaultURL),
		DraftingURL:         e.str("DRAFTING_URL", drafting.DefaultURL),
		SlotsURL:            e.str("SLOTS_URL", ""),
		CollaboratorTimeout: e.duration("COLLABORATOR_TIMEOUT", 0),
		Timezone:            e.str("TIMEZONE", ""),
		SlotFailureRate:     e.float("SLOT_FAILURE_RATE", slots.DefaultFailureRate),
		SearchDebounce:      e.duration("SEARCH_DEBOUNCE", query.DefaultDebounce),
		StatsInterval:       e.duration("STATS_INTERVAL", 30*time.Second),
		AllowedOrigins:      e.list("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		RateLimitPerMinute:  e.integer("RATE_LIMIT_PER_MINUTE", 60),
		DatabaseURL:         e.str("DATABASE_URL", ""),
		RabbitMQURL:         e.str("RABBITMQ_URL", ""),
		MailHost:            e.str("MAIL_HOST", ""),
		MailPort:            e.integer("MAIL_PORT", 587),
		MailUser:            e.str("MAIL_USER", ""),
		MailPass:            e.str("MAIL_PASS", ""),
		MailFrom:            e.str("MAIL_FROM", ""),
	}
	if err := errors.Join(e.errs...); err != nil {
		return Config{}, err
	}

	if cfg.SlotFailureRate < 0 || cfg.SlotFailureRate > 1 {
		return Config{}, fmt.Errorf("SLOT_FAILURE_RATE must be within [0,1], got %v", cfg.SlotFailureRate)
	}
	if cfg.RateLimitPerMinute <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.StatsInterval <= 0 {
		return Config{}, fmt.Errorf("STATS_INTERVAL must be positive, got %s", cfg.StatsInterval)
	}
	return cfg, nil
}

type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (e *env) float(key string, def float64) float64 {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (e *env) list(key string, def []string) []string {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
