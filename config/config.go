// Package config loads the client's runtime configuration. Values come from
// the defaults below, then an optional YAML file, then the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TokenStoreFile     = "file"
	TokenStorePostgres = "postgres"
)

type Config struct {
	// AuthDir holds private.json and token.json.
	AuthDir  string `yaml:"auth_dir"`
	LeagueID string `yaml:"league_id"`
	// GameID selects a season. Empty means the current season of GameCode.
	GameID   string        `yaml:"game_id"`
	GameCode string        `yaml:"game_code"`
	Offline  bool          `yaml:"offline"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	// ServeAddr is where the serve command listens.
	ServeAddr string `yaml:"serve_addr"`

	TokenStore string `yaml:"token_store"`
	// TokenName keys the token row when TokenStore is postgres.
	TokenName          string `yaml:"token_name"`
	PostgresConnString string `yaml:"postgres_conn_str"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		AuthDir:    defaultAuthDir,
		GameCode:   defaultGameCode,
		BaseURL:    defaultBaseURL,
		Timeout:    defaultTimeout,
		ServeAddr:  defaultServeAddr,
		TokenStore: TokenStoreFile,
		TokenName:  defaultTokenName,
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load returns the configuration. path names a YAML file; it is optional
// when empty and required otherwise.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config file %s does not exist", path)
			}
			return cfg, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.TokenStore {
	case TokenStoreFile:
	case TokenStorePostgres:
		if c.PostgresConnString == "" && !c.Offline {
			return fmt.Errorf("%s must be set to use the postgres token store", envPostgresConnStr)
		}
	default:
		return fmt.Errorf("unknown token store %q, expected %q or %q", c.TokenStore, TokenStoreFile, TokenStorePostgres)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func applyEnv(c *Config) {
	c.AuthDir = envOrDefault(envAuthDir, c.AuthDir)
	c.LeagueID = envOrDefault(envLeagueID, c.LeagueID)
	c.GameID = envOrDefault(envGameID, c.GameID)
	c.GameCode = envOrDefault(envGameCode, c.GameCode)
	c.Offline = boolEnvOrDefault(envOffline, c.Offline)
	c.BaseURL = envOrDefault(envBaseURL, c.BaseURL)
	c.Timeout = durationEnvOrDefault(envTimeout, c.Timeout)
	c.ServeAddr = envOrDefault(envServeAddr, c.ServeAddr)
	c.TokenStore = envOrDefault(envTokenStore, c.TokenStore)
	c.TokenName = envOrDefault(envTokenName, c.TokenName)
	c.PostgresConnString = envOrDefault(envPostgresConnStr, c.PostgresConnString)
	c.Log.Level = envOrDefault(envLogLevel, c.Log.Level)
	c.Log.Format = envOrDefault(envLogFormat, c.Log.Format)
}
