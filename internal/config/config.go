package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	StorageBackend string
	DatabaseURL    string
	DB             Database
	JWTSecret      string
	JWTIssuer      string
	JWTTTL         time.Duration
	CORSOrigins    []string
	RequireAuth    bool
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
	LogFormat      string
}

// Database holds the discrete connection parameters used when DATABASE_URL is unset.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"STORAGE_BACKEND":      BackendPostgres,
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "",
	"DB_NAME":              "my_expense_tracker",
	"DB_SSLMODE":           "disable",
	"DB_MAX_CONNS":         10,
	"JWT_ISSUER":           "expense-tracker",
	"JWT_TTL_MINUTES":      60,
	"CORS_ALLOWED_ORIGINS": "*",
	"REQUIRE_AUTH":         false,
	"RATE_LIMIT_RPS":       5.0,
	"RATE_LIMIT_BURST":     10,
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "text",
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := Config{
		Port:           str(v, "PORT"),
		StorageBackend: strings.ToLower(str(v, "STORAGE_BACKEND")),
		DatabaseURL:    strings.TrimSpace(v.GetString("DATABASE_URL")),
		DB: Database{
			Host:     str(v, "DB_HOST"),
			Port:     str(v, "DB_PORT"),
			User:     str(v, "DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     str(v, "DB_NAME"),
			SSLMode:  str(v, "DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWTSecret:      strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTIssuer:      str(v, "JWT_ISSUER"),
		CORSOrigins:    parseCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		RequireAuth:    v.GetBool("REQUIRE_AUTH"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		LogLevel:       strings.ToLower(str(v, "LOG_LEVEL")),
		LogFormat:      strings.ToLower(str(v, "LOG_FORMAT")),
	}

	ttlMinutes := v.GetInt("JWT_TTL_MINUTES")
	if ttlMinutes <= 0 {
		ttlMinutes = defaults["JWT_TTL_MINUTES"].(int)
	}
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaults["RATE_LIMIT_RPS"].(float64)
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaults["RATE_LIMIT_BURST"].(int)
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.StorageBackend {
	case BackendPostgres, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_BACKEND %q: must be %s or %s", cfg.StorageBackend, BackendPostgres, BackendMemory)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unsupported LOG_FORMAT %q: must be text or json", cfg.LogFormat)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// DatabaseDSN returns DATABASE_URL when set, otherwise a URL built from the DB_* parts.
func (c Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.Name,
	}
	if c.DB.Password != "" {
		u.User = url.UserPassword(c.DB.User, c.DB.Password)
	} else {
		u.User = url.User(c.DB.User)
	}
	q := url.Values{}
	q.Set("sslmode", c.DB.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// str reads a trimmed string, falling back to the registered default when
// the variable is set but blank.
func str(v *viper.Viper, key string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	def, _ := defaults[key].(string)
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
