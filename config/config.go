// Package config loads the quote tool's settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "BOILERQUOTE"

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Quote   QuoteConfig
	Persist PersistConfig
}

type AppConfig struct {
	HTTPAddr    string `envconfig:"BOILERQUOTE_HTTP_ADDR" default:"127.0.0.1:8090"`
	DataDir     string `envconfig:"BOILERQUOTE_DATA_DIR" default:"./pb_data"`
	LogLevel    string `envconfig:"BOILERQUOTE_LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"BOILERQUOTE_LOG_FORMAT" default:"json"`
	CompanyName string `envconfig:"BOILERQUOTE_COMPANY_NAME" default:"Boiler Replacement Quote"`
}

type CatalogConfig struct {
	// Path to a price-book JSON file. Empty means the bundled price book.
	Path string `envconfig:"BOILERQUOTE_CATALOG_PATH"`
}

type QuoteConfig struct {
	DefaultLabourRate float64 `envconfig:"BOILERQUOTE_DEFAULT_LABOUR_RATE" default:"65"`
}

type PersistConfig struct {
	Debounce time.Duration `envconfig:"BOILERQUOTE_PERSIST_DEBOUNCE" default:"750ms"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Quote.DefaultLabourRate < 0 {
		return nil, fmt.Errorf("parsing config: default labour rate must not be negative")
	}
	if cfg.Persist.Debounce < 0 {
		return nil, fmt.Errorf("parsing config: persist debounce must not be negative")
	}
	return &cfg, nil
}
