package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string
	GroqTimeout time.Duration

	TwitterAuthToken   string
	DefaultLimit       int
	DefaultSearchQuery string
	DefaultFilename    string
	HarvestTimeout     time.Duration
	HarvestWorkDir     string
	HarvestMinInterval time.Duration
	HarvestKeepFiles   bool

	MaxFallbackAttempts int
	ResultsDir          string

	PostgresDSN string

	NATSURL     string
	NATSSubject string

	DiscordWebhookURL string

	TranslationEnabled     bool
	TranslationConcurrency int

	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxInFlight    int

	WorkerMetricsPort string
}

// Load reads the environment. When CONFIG_FILE names a YAML file its keys
// (same names as the environment variables) act as defaults that the
// environment overrides.
func Load() (Config, error) {
	file, err := readFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}
	l := loader{file: file}

	return Config{
		APIPort:   l.str("API_PORT", "8080"),
		LogLevel:  l.str("LOG_LEVEL", "info"),
		LogFormat: l.str("LOG_FORMAT", ""),

		GroqAPIKey:  l.str("GROQ_API_KEY", ""),
		GroqBaseURL: l.str("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   l.str("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqTimeout: l.duration("GROQ_TIMEOUT", 30*time.Second),

		TwitterAuthToken:   l.str("TWITTER_AUTH_TOKEN", ""),
		DefaultLimit:       l.integer("DEFAULT_LIMIT", 100),
		DefaultSearchQuery: l.str("DEFAULT_SEARCH_QUERY", "pemilu lang:id"),
		DefaultFilename:    l.str("DEFAULT_FILENAME", "hasil_crawling"),
		HarvestTimeout:     l.duration("HARVEST_TIMEOUT", 300*time.Second),
		HarvestWorkDir:     l.str("HARVEST_WORKDIR", "./data/harvest"),
		HarvestMinInterval: l.duration("HARVEST_MIN_INTERVAL", 0),
		HarvestKeepFiles:   l.boolean("HARVEST_KEEP_FILES", false),

		MaxFallbackAttempts: l.integer("MAX_FALLBACK_ATTEMPTS", 2),
		ResultsDir:          l.str("RESULTS_DIR", "./data/results"),

		PostgresDSN: l.str("POSTGRES_DSN", ""),

		NATSURL:     l.str("NATS_URL", ""),
		NATSSubject: l.str("NATS_SUBJECT", "xsentiment.analysis.requested"),

		DiscordWebhookURL: l.str("DISCORD_WEBHOOK_URL", ""),

		TranslationEnabled:     l.boolean("TRANSLATION_ENABLED", true),
		TranslationConcurrency: l.integer("TRANSLATION_CONCURRENCY", 4),

		APIRateLimitRPS:   l.float("API_RATE_LIMIT_RPS", 5),
		APIRateLimitBurst: l.integer("API_RATE_LIMIT_BURST", 10),
		APIMaxInFlight:    l.integer("API_MAX_INFLIGHT", 8),

		WorkerMetricsPort: l.str("WORKER_METRICS_PORT", "9090"),
	}, nil
}

func readFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	values := make(map[string]string, len(doc))
	for key, value := range doc {
		if value == nil {
			continue
		}
		values[strings.ToUpper(key)] = fmt.Sprint(value)
	}
	return values, nil
}

type loader struct {
	file map[string]string
}

func (l loader) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return l.file[key]
}

func (l loader) str(key, fallback string) string {
	return mustEnv(l.lookup(key), fallback)
}

func (l loader) integer(key string, fallback int) int {
	return mustEnvInt(l.lookup(key), fallback)
}

func (l loader) boolean(key string, fallback bool) bool {
	return mustEnvBool(l.lookup(key), fallback)
}

func (l loader) duration(key string, fallback time.Duration) time.Duration {
	return mustEnvDuration(l.lookup(key), fallback)
}

func (l loader) float(key string, fallback float64) float64 {
	v := l.lookup(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnv(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(v string, fallback bool) bool {
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// mustEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func mustEnvDuration(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
