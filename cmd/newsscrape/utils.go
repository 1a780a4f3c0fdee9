package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pevans/newsscrape/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupLogging sends log output to stderr in console format. Debug output is
// enabled when verbose is set.
func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// loadConfig reads the config file named by NEWSSCRAPE_CONFIG, or
// ~/.newsscrape/config.yaml when unset. A missing file yields nil.
func loadConfig() *config.FileConfig {
	var (
		cfg *config.FileConfig
		err error
	)
	if path := os.Getenv("NEWSSCRAPE_CONFIG"); path != "" {
		cfg, err = config.LoadConfigFileFrom(path)
	} else {
		cfg, err = config.LoadConfigFile()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// archivePath resolves the archive database path: environment first, then
// the config file, then the default.
func archivePath(cfg *config.FileConfig) string {
	return getEnv("NEWSSCRAPE_ARCHIVE_DSN", cfg.ArchiveDSN(config.DefaultArchiveDSN))
}
