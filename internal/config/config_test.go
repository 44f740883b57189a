package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/trelloflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		LogLevel:         "INFO",
		TrelloAPIKey:     "app-key",
		TrelloBaseURL:    "https://api.trello.com/1/",
		RequestTimeout:   30 * time.Second,
		MoveWorkerCount:  2,
		MoveQueueSize:    64,
		CardAmounts:      []int{5, 10, 20},
		DefaultMode:      "random",
		DefaultCardCount: 10,
		SessionIdleTTL:   30 * time.Minute,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }, "addr cannot be empty"},
		{"empty db path", func(c *config.Config) { c.DBPath = "" }, "db_path cannot be empty"},
		{"missing api key", func(c *config.Config) { c.TrelloAPIKey = "" }, "trello_api_key cannot be empty"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "LOUD" }, "log_level must be one of"},
		{"bad base url", func(c *config.Config) { c.TrelloBaseURL = "not a url" }, "trello_base_url must be a URL"},
		{"zero timeout", func(c *config.Config) { c.RequestTimeout = 0 }, "request_timeout must be at least 1s"},
		{"no workers", func(c *config.Config) { c.MoveWorkerCount = 0 }, "move_worker_count must be at least 1"},
		{"too many workers", func(c *config.Config) { c.MoveWorkerCount = 33 }, "move_worker_count must be at most 32"},
		{"no queue", func(c *config.Config) { c.MoveQueueSize = 0 }, "move_queue_size must be at least 1"},
		{"zero preset", func(c *config.Config) { c.CardAmounts = []int{5, 0} }, "card_amounts[1] must be at least 1"},
		{"unknown mode", func(c *config.Config) { c.DefaultMode = "sideways" }, `default_mode "sideways" is not a selection mode`},
		{"zero card count", func(c *config.Config) { c.DefaultCardCount = 0 }, "default_card_count must be at least 1"},
		{"short idle ttl", func(c *config.Config) { c.SessionIdleTTL = time.Second }, "session_idle_ttl must be at least 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryKey(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addr cannot be empty")
	assert.Contains(t, err.Error(), "db_path cannot be empty")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRELLOFLASH_TRELLO_API_KEY", "from-env")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:trelloflash.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.TrelloAPIKey)
	assert.Equal(t, "https://api.trello.com/1/", cfg.TrelloBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.MoveWorkerCount)
	assert.Equal(t, 64, cfg.MoveQueueSize)
	assert.Equal(t, []int{5, 10, 20, 30, 50}, cfg.CardAmounts)
	assert.Equal(t, "random", cfg.DefaultMode)
	assert.Equal(t, 10, cfg.DefaultCardCount)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trello_api_key cannot be empty")
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":7000"
db_path: "file.db"
trello_api_key: "from-file"
move_worker_count: 3
card_amounts: [3, 6, 9]
default_mode: top
`), 0o600))

	t.Setenv("TRELLOFLASH_DB_PATH", "env.db")
	t.Setenv("TRELLOFLASH_REQUEST_TIMEOUT", "5s")
	t.Setenv("TRELLOFLASH_LOG_LEVEL", "debug")

	cfg, err := config.Load([]string{
		"--config", path,
		"--addr", ":9000",
		"--default-card-count", "7",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr, "explicit flag beats file")
	assert.Equal(t, "env.db", cfg.DBPath, "env beats file")
	assert.Equal(t, "from-file", cfg.TrelloAPIKey)
	assert.Equal(t, 3, cfg.MoveWorkerCount)
	assert.Equal(t, []int{3, 6, 9}, cfg.CardAmounts)
	assert.Equal(t, "top", cfg.DefaultMode)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 7, cfg.DefaultCardCount)
}

func TestLoad_CardAmountsFromEnv(t *testing.T) {
	t.Setenv("TRELLOFLASH_TRELLO_API_KEY", "k")
	t.Setenv("TRELLOFLASH_CARD_AMOUNTS", "4, 8 ,16")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 8, 16}, cfg.CardAmounts)
}

func TestLoad_BadInputs(t *testing.T) {
	t.Setenv("TRELLOFLASH_TRELLO_API_KEY", "k")

	_, err := config.Load([]string{"--card-amounts", "5,ten"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid amount "ten"`)

	_, err = config.Load([]string{"--no-such-flag"})
	assert.Error(t, err)

	_, err = config.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
