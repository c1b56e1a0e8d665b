package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ServiceName    = "CMS Chatbot Service"
	ServiceVersion = "1.0.0"
)

type Config struct {
	Host     string
	Port     string
	Debug    bool
	LogLevel string
	// Base URL of the CMS backend that serves /api/tracking/{id}
	CMSAPIURL       string
	TrackingTimeout time.Duration
	AllowedOrigins  []string
	// Optional YAML file replacing the built-in intent/entity tables
	RulesFile string

	// Loaded and reported at startup but not enforced anywhere.
	MaxSessions                int
	SessionTimeout             time.Duration
	RateLimitPerMinute         int
	DefaultConfidenceThreshold float64
}

// NewViper loads .env (if present) into the process environment and
// returns a viper instance reading the environment with service defaults.
// Callers may bind command-line flags to it before calling FromViper.
func NewViper() *viper.Viper {
	_ = godotenv.Load()
	v := viper.New()
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DEBUG", "false")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("CMS_API_URL", "http://localhost:5000")
	v.SetDefault("TRACKING_TIMEOUT", "5s")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RULES_FILE", "")
	v.SetDefault("MAX_SESSIONS", 1000)
	v.SetDefault("SESSION_TIMEOUT", "1h")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("DEFAULT_CONFIDENCE_THRESHOLD", 0.6)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from the environment.
func Load() Config {
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) Config {
	return Config{
		Host:                       v.GetString("HOST"),
		Port:                       v.GetString("PORT"),
		Debug:                      parseBool(v.GetString("DEBUG"), false),
		LogLevel:                   v.GetString("LOG_LEVEL"),
		CMSAPIURL:                  v.GetString("CMS_API_URL"),
		TrackingTimeout:            parseDuration(v.GetString("TRACKING_TIMEOUT"), 5*time.Second),
		AllowedOrigins:             splitList(v.GetString("ALLOWED_ORIGINS"), []string{"*"}),
		RulesFile:                  v.GetString("RULES_FILE"),
		MaxSessions:                v.GetInt("MAX_SESSIONS"),
		SessionTimeout:             parseDuration(v.GetString("SESSION_TIMEOUT"), time.Hour),
		RateLimitPerMinute:         v.GetInt("RATE_LIMIT_PER_MINUTE"),
		DefaultConfidenceThreshold: v.GetFloat64("DEFAULT_CONFIDENCE_THRESHOLD"),
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func splitList(v string, def []string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

// parseDuration accepts Go durations ("90s") or a bare number of seconds.
func parseDuration(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
