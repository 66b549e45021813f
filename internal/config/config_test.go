package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "gsk-test-key"

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "CRM_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "CRM_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "CRM_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "CRM_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CRM_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "CRM_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "CRM_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "returns fallback for empty string", key: "CRM_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "CRM_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "CRM_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback float64
		want     float64
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CRM_TEST_FLOAT_UNSET", setVal: nil, fallback: 0.5, want: 0.5},
		{name: "parses decimal", key: "CRM_TEST_FLOAT_DEC", setVal: strPtr("0.7"), fallback: 0, want: 0.7},
		{name: "parses integer", key: "CRM_TEST_FLOAT_INT", setVal: strPtr("2"), fallback: 0, want: 2},
		{name: "errors on text", key: "CRM_TEST_FLOAT_INV", setVal: strPtr("warm"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvFloat(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CRM_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "CRM_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses composite", key: "CRM_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "parses zero", key: "CRM_TEST_DUR_ZERO", setVal: strPtr("0s"), fallback: 5 * time.Second, want: 0},
		{name: "errors on bare number", key: "CRM_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CRM_TEST_LIST", " http://a.test , ,http://b.test")

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList("CRM_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("CRM_TEST_LIST_UNSET", []string{"x"}))
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_MissingAPIKey(t *testing.T) {
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CRM_LLM_API_KEY")
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envs   map[string]string
		errMsg string
	}{
		{name: "unknown driver", envs: map[string]string{"CRM_DB_DRIVER": "mysql"}, errMsg: "CRM_DB_DRIVER"},
		{name: "DB_PORT not a number", envs: map[string]string{"CRM_DB_PORT": "abc"}, errMsg: "CRM_DB_PORT"},
		{name: "DB_PORT too high for postgres", envs: map[string]string{"CRM_DB_DRIVER": "postgres", "CRM_DB_PORT": "65536"}, errMsg: "CRM_DB_PORT"},
		{name: "DB_MAX_CONNS zero for postgres", envs: map[string]string{"CRM_DB_DRIVER": "postgres", "CRM_DB_MAX_CONNS": "0"}, errMsg: "CRM_DB_MAX_CONNS"},
		{name: "REDIS_DB not a number", envs: map[string]string{"CRM_REDIS_DB": "abc"}, errMsg: "CRM_REDIS_DB"},
		{name: "temperature too high", envs: map[string]string{"CRM_LLM_TEMPERATURE": "3"}, errMsg: "CRM_LLM_TEMPERATURE"},
		{name: "temperature not a number", envs: map[string]string{"CRM_LLM_TEMPERATURE": "hot"}, errMsg: "CRM_LLM_TEMPERATURE"},
		{name: "max tokens zero", envs: map[string]string{"CRM_LLM_MAX_TOKENS": "0"}, errMsg: "CRM_LLM_MAX_TOKENS"},
		{name: "negative llm timeout", envs: map[string]string{"CRM_LLM_TIMEOUT": "-1s"}, errMsg: "CRM_LLM_TIMEOUT"},
		{name: "SERVER_READ_TIMEOUT zero", envs: map[string]string{"CRM_SERVER_READ_TIMEOUT": "0s"}, errMsg: "CRM_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT invalid", envs: map[string]string{"CRM_SERVER_WRITE_TIMEOUT": "soon"}, errMsg: "CRM_SERVER_WRITE_TIMEOUT"},
		{name: "unknown log mode", envs: map[string]string{"CRM_AGENT_LOG_MODE": "draft"}, errMsg: "CRM_AGENT_LOG_MODE"},
		{name: "rate limit rps zero", envs: map[string]string{"CRM_AGENT_RATE_LIMIT_RPS": "0"}, errMsg: "CRM_AGENT_RATE_LIMIT_RPS"},
		{name: "rate limit burst zero", envs: map[string]string{"CRM_AGENT_RATE_LIMIT_BURST": "0"}, errMsg: "CRM_AGENT_RATE_LIMIT_BURST"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Always set the API key so failures are from the var under test.
			t.Setenv("CRM_LLM_API_KEY", testAPIKey)
			for k, v := range tc.envs {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CRM_LLM_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database defaults.
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/crm.db", cfg.Database.SQLitePath)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Database.MaxConns)

	// Redis is disabled unless configured.
	assert.Empty(t, cfg.Redis.Addr)

	// LLM defaults.
	assert.Equal(t, testAPIKey, cfg.LLM.APIKey)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.InDelta(t, 0.0, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)

	// Server defaults.
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)

	// Agent defaults.
	assert.Equal(t, LogModeCommit, cfg.Agent.LogMode)
	assert.InDelta(t, 2.0, cfg.Agent.RateLimitRPS, 1e-9)
	assert.Equal(t, 5, cfg.Agent.RateLimitBurst)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		"CRM_DB_DRIVER":              "postgres",
		"CRM_DB_HOST":                "db.prod.internal",
		"CRM_DB_PORT":                "5433",
		"CRM_DB_USER":                "prod_user",
		"CRM_DB_PASSWORD":            "s3cret!",
		"CRM_DB_NAME":                "crm_prod",
		"CRM_DB_SSLMODE":             "require",
		"CRM_DB_MAX_CONNS":           "50",
		"CRM_REDIS_ADDR":             "redis:6380",
		"CRM_REDIS_PASSWORD":         "redispass",
		"CRM_REDIS_DB":               "3",
		"CRM_LLM_API_KEY":            "sk-openai",
		"CRM_LLM_BASE_URL":           "https://api.openai.com/v1",
		"CRM_LLM_MODEL":              "gpt-4o-mini",
		"CRM_LLM_TEMPERATURE":        "0.2",
		"CRM_LLM_MAX_TOKENS":         "2048",
		"CRM_LLM_TIMEOUT":            "0s",
		"CRM_SERVER_ADDR":            ":9000",
		"CRM_SERVER_READ_TIMEOUT":    "5s",
		"CRM_SERVER_WRITE_TIMEOUT":   "2m",
		"CRM_CORS_ORIGINS":           "https://crm.example.com, https://admin.example.com",
		"CRM_AGENT_LOG_MODE":         "review",
		"CRM_AGENT_RATE_LIMIT_RPS":   "0.5",
		"CRM_AGENT_RATE_LIMIT_BURST": "2",
		"CRM_LOG_LEVEL":              "debug",
		"CRM_LOG_FORMAT":             "text",
	}
	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DatabaseConfig{
		Driver:     DriverPostgres,
		Host:       "db.prod.internal",
		Port:       5433,
		User:       "prod_user",
		Password:   "s3cret!",
		DBName:     "crm_prod",
		SSLMode:    "require",
		MaxConns:   50,
		SQLitePath: "data/crm.db",
	}, cfg.Database)
	assert.Equal(t, RedisConfig{Addr: "redis:6380", Password: "redispass", DB: 3}, cfg.Redis)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://crm.example.com", "https://admin.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, AgentConfig{LogMode: LogModeReview, RateLimitRPS: 0.5, RateLimitBurst: 2}, cfg.Agent)
	assert.Equal(t, LogConfig{Level: "debug", Format: "text"}, cfg.Log)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "crm",
				Password: "", DBName: "crm_dev", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=crm password= dbname=crm_dev sslmode=disable",
		},
		{
			name: "production values",
			cfg: DatabaseConfig{
				Host: "db.prod", Port: 5433, User: "admin",
				Password: "p@ss!", DBName: "crm_prod", SSLMode: "require",
			},
			want: "host=db.prod port=5433 user=admin password=p@ss! dbname=crm_prod sslmode=require",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: "crm.db", Port: 5432, MaxConns: 10},
			LLM:      LLMConfig{APIKey: testAPIKey, MaxTokens: 512},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			Agent: AgentConfig{LogMode: LogModeCommit, RateLimitRPS: 1, RateLimitBurst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid base", mutate: func(*Config) {}},
		{name: "review mode", mutate: func(c *Config) { c.Agent.LogMode = LogModeReview }},
		{name: "postgres driver", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }},
		{name: "empty sqlite path", mutate: func(c *Config) { c.Database.SQLitePath = "" }, wantErr: "CRM_SQLITE_PATH"},
		{name: "missing api key", mutate: func(c *Config) { c.LLM.APIKey = "" }, wantErr: "CRM_LLM_API_KEY"},
		{name: "negative temperature", mutate: func(c *Config) { c.LLM.Temperature = -0.1 }, wantErr: "CRM_LLM_TEMPERATURE"},
		{name: "postgres port zero", mutate: func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.Port = 0
		}, wantErr: "CRM_DB_PORT"},
		{name: "sqlite ignores port", mutate: func(c *Config) { c.Database.Port = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBase()
			tc.mutate(cfg)

			err := cfg.validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func strPtr(s string) *string {
	return &s
}
