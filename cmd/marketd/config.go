package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the process configuration shared by all commands. Values are
// read from the environment and can be overwritten with flags.
type Config struct {
	Home     string `env:"MARKETD_HOME"`
	LogLevel string `env:"MARKETD_LOG_LEVEL" envDefault:"info"`
	ChainID  string `env:"MARKETD_CHAIN_ID"  envDefault:"bazaar-local"`
	// Seed is the master secret all actor keys are derived from.
	Seed string `env:"MARKETD_SEED" envDefault:"bazaar development seed"`
}

// loadConfig parses the environment. An unset home defaults to
// $HOME/.marketd.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %s", err)
	}
	if cfg.Home == "" {
		cfg.Home = filepath.Join(os.Getenv("HOME"), ".marketd")
	}
	return cfg, nil
}

// bindFlags registers the flags every command accepts, with defaults
// taken from the environment.
func (c *Config) bindFlags(fl *flag.FlagSet) {
	fl.StringVar(&c.Home, "home", c.Home,
		"Directory holding the genesis, actors and state files. You can use MARKETD_HOME environment variable to set it.")
	fl.StringVar(&c.LogLevel, "log-level", c.LogLevel,
		"Log level, one of debug, info, error or none. You can use MARKETD_LOG_LEVEL environment variable to set it.")
}

// logger returns a logger writing to stderr filtered by the configured
// level.
func (c Config) logger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "marketd")
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

func (c Config) genesisFile() string { return filepath.Join(c.Home, "genesis.json") }
func (c Config) actorsFile() string  { return filepath.Join(c.Home, "actors.json") }
func (c Config) stateFile() string   { return filepath.Join(c.Home, "state.db") }
