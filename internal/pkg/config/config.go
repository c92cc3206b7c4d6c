package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Client   ClientConfig   `yaml:"client"`
	Output   OutputConfig   `yaml:"output"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ClientConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	MinRequestDelay time.Duration `yaml:"min_request_delay"` // 0 = no spacing between requests
}

type OutputConfig struct {
	ArchiveDir  string `yaml:"archive_dir"`
	SummaryPath string `yaml:"summary_path"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // empty = CSV only
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TrackerConfig identifies what to sync: the API credential, the replay
// group and the player whose stats are summarized. All three come from
// BC_* environment variables and are required.
type TrackerConfig struct {
	Token      string `required:"true"`
	GroupID    string `split_words:"true" required:"true"`
	PlayerName string `split_words:"true" required:"true"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:      "https://ballchasing.com/api",
			Timeout:      30 * time.Second,
			MaxAttempts:  3,
			RetryBackoff: 2 * time.Second,
		},
		Output: OutputConfig{
			ArchiveDir:  "stats",
			SummaryPath: "summary.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML config at configPath on top of the defaults.
// An empty path returns the defaults unchanged.
func Load(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadTracker reads the required BC_* environment variables. A variable
// that is set but empty is as fatal as a missing one.
func LoadTracker() (*TrackerConfig, error) {
	var tracker TrackerConfig
	if err := envconfig.Process("bc", &tracker); err != nil {
		return nil, fmt.Errorf("failed to read tracker environment: %w", err)
	}
	if tracker.Token == "" {
		return nil, fmt.Errorf("BC_TOKEN is required")
	}
	if tracker.GroupID == "" {
		return nil, fmt.Errorf("BC_GROUP_ID is required")
	}
	if tracker.PlayerName == "" {
		return nil, fmt.Errorf("BC_PLAYER_NAME is required")
	}
	return &tracker, nil
}
