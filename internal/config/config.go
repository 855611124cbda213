// Package config содержит логику чтения конфигурации сервиса petcare.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultDecayInterval    = 60 * time.Second
	defaultAutosaveInterval = 300 * time.Second
	defaultSyncInterval     = 15 * time.Minute
)

// Config содержит параметры конфигурации сервиса petcare.
type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	CloudSyncAddress string        `env:"CLOUD_SYNC_ADDRESS"`
	CloudSyncToken   string        `env:"CLOUD_SYNC_TOKEN"`
	BalanceFile      string        `env:"BALANCE_FILE"`
	APIToken         string        `env:"API_TOKEN"`
	DecayInterval    time.Duration `env:"DECAY_INTERVAL"`
	AutosaveInterval time.Duration `env:"AUTOSAVE_INTERVAL"`
	SyncInterval     time.Duration `env:"SYNC_INTERVAL"`

	Balance Balance
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envCloudSync := cfg.CloudSyncAddress
	envBalanceFile := cfg.BalanceFile
	envAPIToken := cfg.APIToken

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "storage URI (postgres://..., sqlite://path or empty for memory)")
	flag.StringVar(&cfg.CloudSyncAddress, "r", "", "cloud sync service address")
	flag.StringVar(&cfg.BalanceFile, "b", "", "path to YAML balance file")
	flag.StringVar(&cfg.APIToken, "t", "", "bearer token required by the API")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envCloudSync != "" {
		cfg.CloudSyncAddress = envCloudSync
	}
	if envBalanceFile != "" {
		cfg.BalanceFile = envBalanceFile
	}
	if envAPIToken != "" {
		cfg.APIToken = envAPIToken
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.DecayInterval <= 0 {
		cfg.DecayInterval = defaultDecayInterval
	}
	if cfg.AutosaveInterval <= 0 {
		cfg.AutosaveInterval = defaultAutosaveInterval
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = defaultSyncInterval
	}

	balance, err := LoadBalance(cfg.BalanceFile)
	if err != nil {
		return nil, err
	}
	cfg.Balance = balance

	return cfg, nil
}
