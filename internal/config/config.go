// Package config loads redditpersona configuration: Reddit API credentials,
// server address, database path, and generation knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all redditpersona configuration.
type Config struct {
	Reddit    RedditConfig    `mapstructure:"reddit"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Generator GeneratorConfig `mapstructure:"generator"`
}

// RedditConfig carries API credentials. All fields are optional: without
// credentials the public JSON endpoints are used.
type RedditConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UserAgent    string `mapstructure:"user_agent"`
}

type ServerConfig struct {
	Bind string `mapstructure:"bind"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// GeneratorConfig mirrors the engine's Options plus the fetch limit.
type GeneratorConfig struct {
	MaxChars      int `mapstructure:"max_chars"`
	MinCommentLen int `mapstructure:"min_comment_len"`
	MaxCommentLen int `mapstructure:"max_comment_len"`
	MaxBlockLen   int `mapstructure:"max_block_len"`
	Limit         int `mapstructure:"limit"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8491,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Generator: GeneratorConfig{
			MaxChars:      32000,
			MinCommentLen: 10,
			MaxCommentLen: 300,
			MaxBlockLen:   800,
			Limit:         100,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// configPaths returns candidate config file locations in preference order.
func configPaths() []string {
	var paths []string
	if p := os.Getenv("REDDITPERSONA_CONFIG"); p != "" {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "redditpersona", "config.yaml"),
			filepath.Join(home, ".redditpersona.yaml"),
		)
	}
	return paths
}

// Load reads configuration from the first config file found, with environment
// overrides. A missing config file is not an error: credentials are optional
// and everything else has a default.
func Load() (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("server.bind", def.Server.Bind)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("generator.max_chars", def.Generator.MaxChars)
	v.SetDefault("generator.min_comment_len", def.Generator.MinCommentLen)
	v.SetDefault("generator.max_comment_len", def.Generator.MaxCommentLen)
	v.SetDefault("generator.max_block_len", def.Generator.MaxBlockLen)
	v.SetDefault("generator.limit", def.Generator.Limit)

	v.AutomaticEnv()

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			break
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Credential env vars take precedence over the file, matching the usual
	// script-app setup.
	if id := v.GetString("REDDIT_CLIENT_ID"); id != "" {
		config.Reddit.ClientID = id
	}
	if secret := v.GetString("REDDIT_CLIENT_SECRET"); secret != "" {
		config.Reddit.ClientSecret = secret
	}
	if ua := v.GetString("REDDIT_USER_AGENT"); ua != "" {
		config.Reddit.UserAgent = ua
	}

	return &config, nil
}
