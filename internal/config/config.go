package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Log modes for the agent's log action.
const (
	LogModeCommit = "commit" // insert immediately
	LogModeReview = "review" // return the candidate for confirmation
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Server   ServerConfig
	Agent    AgentConfig
	Log      LogConfig
}

// DatabaseConfig selects the interaction store and holds its connection settings.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string //nolint:gosec // G117: DB connection config
	DBName     string
	SSLMode    string
	MaxConns   int
	SQLitePath string
}

// RedisConfig holds Redis connection settings. An empty Addr disables
// interaction events and the live feed.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// LLMConfig configures the OpenAI-compatible chat model.
type LLMConfig struct {
	APIKey      string //nolint:gosec // G117: provider API key
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // 0 = no timeout beyond the request context
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// AgentConfig tunes the agent endpoints.
type AgentConfig struct {
	LogMode        string
	RateLimitRPS   float64
	RateLimitBurst int
}

type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("CRM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("CRM_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("CRM_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	temperature, err := getEnvFloat("CRM_LLM_TEMPERATURE", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxTokens, err := getEnvInt("CRM_LLM_MAX_TOKENS", 1024)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmTimeout, err := getEnvDuration("CRM_LLM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("CRM_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("CRM_SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateRPS, err := getEnvFloat("CRM_AGENT_RATE_LIMIT_RPS", 2)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("CRM_AGENT_RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:     getEnv("CRM_DB_DRIVER", DriverSQLite),
			Host:       getEnv("CRM_DB_HOST", "localhost"),
			Port:       dbPort,
			User:       getEnv("CRM_DB_USER", "crm"),
			Password:   getEnv("CRM_DB_PASSWORD", ""),
			DBName:     getEnv("CRM_DB_NAME", "crm_dev"),
			SSLMode:    getEnv("CRM_DB_SSLMODE", "disable"),
			MaxConns:   dbMaxConns,
			SQLitePath: getEnv("CRM_SQLITE_PATH", "data/crm.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("CRM_REDIS_ADDR", ""),
			Password: getEnv("CRM_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		LLM: LLMConfig{
			APIKey:      getEnv("CRM_LLM_API_KEY", ""),
			BaseURL:     getEnv("CRM_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:       getEnv("CRM_LLM_MODEL", "llama-3.3-70b-versatile"),
			Temperature: temperature,
			MaxTokens:   maxTokens,
			Timeout:     llmTimeout,
		},
		Server: ServerConfig{
			Addr:         getEnv("CRM_SERVER_ADDR", ":8000"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("CRM_CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Agent: AgentConfig{
			LogMode:        getEnv("CRM_AGENT_LOG_MODE", LogModeCommit),
			RateLimitRPS:   rateRPS,
			RateLimitBurst: rateBurst,
		},
		Log: LogConfig{
			Level:  getEnv("CRM_LOG_LEVEL", "info"),
			Format: getEnv("CRM_LOG_FORMAT", "json"),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("CRM_LLM_API_KEY is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("CRM_DB_PORT must be 1-65535, got %d", c.Database.Port)
		}
		if c.Database.MaxConns < 1 || c.Database.MaxConns > 1000 {
			return fmt.Errorf("CRM_DB_MAX_CONNS must be 1-1000, got %d", c.Database.MaxConns)
		}
		if c.Database.SSLMode == "disable" {
			log.Warn().Msg("CRM_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("CRM_SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("CRM_DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("CRM_LLM_TEMPERATURE must be 0-2, got %g", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("CRM_LLM_MAX_TOKENS must be >= 1, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("CRM_LLM_TIMEOUT must not be negative, got %s", c.LLM.Timeout)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("CRM_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("CRM_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if !slices.Contains([]string{LogModeCommit, LogModeReview}, c.Agent.LogMode) {
		return fmt.Errorf("CRM_AGENT_LOG_MODE must be %q or %q, got %q", LogModeCommit, LogModeReview, c.Agent.LogMode)
	}
	if c.Agent.RateLimitRPS <= 0 {
		return fmt.Errorf("CRM_AGENT_RATE_LIMIT_RPS must be positive, got %g", c.Agent.RateLimitRPS)
	}
	if c.Agent.RateLimitBurst < 1 {
		return fmt.Errorf("CRM_AGENT_RATE_LIMIT_BURST must be >= 1, got %d", c.Agent.RateLimitBurst)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
