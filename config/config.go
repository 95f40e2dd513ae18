/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package config loads teamcover/pfrscrape settings from a YAML file,
// TEAMCOVER_* environment variables and command-line flags via viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikeb26/franchise-cover/league"
	"github.com/spf13/viper"
)

const (
	AppName   = "teamcover"
	EnvPrefix = "TEAMCOVER"
)

// Config is the complete configuration.
type Config struct {
	League  LeagueConfig  `mapstructure:"league"`
	Solver  SolverConfig  `mapstructure:"solver"`
	Store   StoreConfig   `mapstructure:"store"`
	Report  ReportConfig  `mapstructure:"report"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LeagueConfig fixes the ordered team list the universe is built from.
type LeagueConfig struct {
	// Teams in canonical order; connection ids put the earlier team first
	Teams []string `mapstructure:"teams"`
}

type SolverConfig struct {
	// TimeLimit bounds the exact solve (0 = no limit)
	TimeLimit time.Duration `mapstructure:"time_limit"`
	// Greedy selects the greedy implementation: "scan" or "lazy"
	Greedy string `mapstructure:"greedy"`
}

// StoreConfig selects where player records are read from and written to.
type StoreConfig struct {
	// Kind is one of "file", "s3", "redis"
	Kind string `mapstructure:"kind"`
	// Path is the record file for Kind "file"
	Path     string `mapstructure:"path"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Key    string `mapstructure:"s3_key"`
	// S3Gzip compresses the record object
	S3Gzip        bool   `mapstructure:"s3_gzip"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type ReportConfig struct {
	// MaxPlayers caps the number of selected players printed (0 = all).
	// It never affects which players are selected.
	MaxPlayers int  `mapstructure:"max_players"`
	Verbose    bool `mapstructure:"verbose"`
}

// ScrapeConfig controls the pro-football-reference acquisition job.
type ScrapeConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// CacheBucket is the S3 bucket backing the http cache; empty means an
	// in-memory cache
	CacheBucket    string        `mapstructure:"cache_bucket"`
	CacheMaxAge    time.Duration `mapstructure:"cache_max_age"`
	MinDelay       time.Duration `mapstructure:"min_delay"`
	MaxDelay       time.Duration `mapstructure:"max_delay"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	// AllowPartial saves the records even when some pairs failed to fetch
	AllowPartial   bool          `mapstructure:"allow_partial"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	teams := make([]string, len(league.NFLTeams))
	for i, t := range league.NFLTeams {
		teams[i] = string(t)
	}

	return &Config{
		League: LeagueConfig{Teams: teams},
		Solver: SolverConfig{
			TimeLimit: 2 * time.Minute,
			Greedy:    "scan",
		},
		Store: StoreConfig{
			Kind:        "file",
			Path:        "players.txt",
			S3Key:       "players.txt",
			RedisAddr:   "localhost:6379",
			RedisPrefix: AppName,
		},
		Report: ReportConfig{MaxPlayers: 0},
		Scrape: ScrapeConfig{
			BaseURL:        "https://www.pro-football-reference.com",
			CacheMaxAge:    30 * 24 * time.Hour,
			MinDelay:       7 * time.Second,
			MaxDelay:       10 * time.Second,
			RateLimitDelay: 20 * time.Second,
			MaxRetries:     3,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// SetDefaults registers every default with v so that env vars and config
// files only need to override what differs.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("league.teams", d.League.Teams)

	v.SetDefault("solver.time_limit", d.Solver.TimeLimit)
	v.SetDefault("solver.greedy", d.Solver.Greedy)

	v.SetDefault("store.kind", d.Store.Kind)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.s3_bucket", d.Store.S3Bucket)
	v.SetDefault("store.s3_key", d.Store.S3Key)
	v.SetDefault("store.s3_gzip", d.Store.S3Gzip)
	v.SetDefault("store.redis_addr", d.Store.RedisAddr)
	v.SetDefault("store.redis_password", d.Store.RedisPassword)
	v.SetDefault("store.redis_db", d.Store.RedisDB)
	v.SetDefault("store.redis_prefix", d.Store.RedisPrefix)

	v.SetDefault("report.max_players", d.Report.MaxPlayers)
	v.SetDefault("report.verbose", d.Report.Verbose)

	v.SetDefault("scrape.base_url", d.Scrape.BaseURL)
	v.SetDefault("scrape.cache_bucket", d.Scrape.CacheBucket)
	v.SetDefault("scrape.cache_max_age", d.Scrape.CacheMaxAge)
	v.SetDefault("scrape.min_delay", d.Scrape.MinDelay)
	v.SetDefault("scrape.max_delay", d.Scrape.MaxDelay)
	v.SetDefault("scrape.rate_limit_delay", d.Scrape.RateLimitDelay)
	v.SetDefault("scrape.max_retries", d.Scrape.MaxRetries)
	v.SetDefault("scrape.allow_partial", d.Scrape.AllowPartial)

	v.SetDefault("logging.level", d.Logging.Level)
}

// NewViper returns a viper instance with defaults, TEAMCOVER_* environment
// overrides and, if present, the config file. An explicit cfgFile must
// exist; otherwise teamcover.yaml is looked up in the working directory and
// ConfigDir.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return v, nil
}

// Load reads the configuration from v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Teams converts the configured team codes.
func (c *Config) Teams() []league.Team {
	ret := make([]league.Team, len(c.League.Teams))
	for i, t := range c.League.Teams {
		ret[i] = league.Team(t)
	}
	return ret
}
