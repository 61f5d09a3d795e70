// Package config loads the module's configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// TTLs are the per-entity cache validity windows. TTL gates read usability
// only; records are deleted solely by explicit clears. All values must be
// strictly positive.
type TTLs struct {
	StoreSearch      time.Duration `env:"TTL_STORE_SEARCH" envDefault:"1h"`
	StoreDetails     time.Duration `env:"TTL_STORE_DETAILS" envDefault:"1h"`
	Menu             time.Duration `env:"TTL_MENU" envDefault:"1h"`
	BusinessProfile  time.Duration `env:"TTL_BUSINESS_PROFILE" envDefault:"24h"`
	AddressSearch    time.Duration `env:"TTL_ADDRESS_SEARCH" envDefault:"24h"`
	Countries        time.Duration `env:"TTL_COUNTRIES" envDefault:"24h"`
	MarketingOptions time.Duration `env:"TTL_MARKETING_OPTIONS" envDefault:"1h"`
	MemberProfile    time.Duration `env:"TTL_MEMBER_PROFILE" envDefault:"12h"`
	Basket           time.Duration `env:"TTL_BASKET" envDefault:"24h"`
}

// Config is the full module configuration.
type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LocaleCode string `env:"LOCALE_CODE" envDefault:"en-GB"`

	TTLs TTLs

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ProjectID       string `env:"PROJECT_ID"`
	EventsTopicID   string `env:"EVENTS_TOPIC_ID"`
	EventsDatasetID string `env:"EVENTS_DATASET_ID"`
	EventsTableID   string `env:"EVENTS_TABLE_ID" envDefault:"events"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`

	ArchiveBucket string `env:"ARCHIVE_BUCKET"`
	ArchivePrefix string `env:"ARCHIVE_PREFIX" envDefault:"orders"`

	SearchHistoryLimit int `env:"SEARCH_HISTORY_LIMIT" envDefault:"10"`
}

// Load parses the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}
	if err := cfg.TTLs.validate(); err != nil {
		return nil, err
	}
	if cfg.SearchHistoryLimit <= 0 {
		return nil, fmt.Errorf("SEARCH_HISTORY_LIMIT must be positive, got %d", cfg.SearchHistoryLimit)
	}
	return cfg, nil
}

func (t TTLs) validate() error {
	named := []struct {
		name string
		ttl  time.Duration
	}{
		{"TTL_STORE_SEARCH", t.StoreSearch},
		{"TTL_STORE_DETAILS", t.StoreDetails},
		{"TTL_MENU", t.Menu},
		{"TTL_BUSINESS_PROFILE", t.BusinessProfile},
		{"TTL_ADDRESS_SEARCH", t.AddressSearch},
		{"TTL_COUNTRIES", t.Countries},
		{"TTL_MARKETING_OPTIONS", t.MarketingOptions},
		{"TTL_MEMBER_PROFILE", t.MemberProfile},
		{"TTL_BASKET", t.Basket},
	}
	for _, entry := range named {
		if entry.ttl <= 0 {
			return fmt.Errorf("%s must be strictly positive, got %s", entry.name, entry.ttl)
		}
	}
	return nil
}
