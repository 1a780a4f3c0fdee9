package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pevans/newsscrape/archive"
	"github.com/pevans/newsscrape/config"
	"github.com/pevans/newsscrape/fetcher"
	"github.com/pevans/newsscrape/harvest"
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

// getEnvDuration parses a duration from environment variable or returns default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvInt parses an int from environment variable or returns default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Parse command line flags with environment variable defaults. Zero values
	// fall back to the config file.
	configPath := flag.String("config", os.Getenv("NEWSSCRAPE_CONFIG"), "Path to config file (NEWSSCRAPE_CONFIG, default ~/.newsscrape/config.yaml)")
	archivePath := flag.String("archive", getEnv("NEWSSCRAPE_ARCHIVE_DSN", ""), "Path to archive database (NEWSSCRAPE_ARCHIVE_DSN)")
	interval := flag.Duration("interval", getEnvDuration("NEWSSCRAPE_INTERVAL", 0), "Time between sync passes (NEWSSCRAPE_INTERVAL)")
	concurrency := flag.Int("concurrency", getEnvInt("NEWSSCRAPE_CONCURRENCY", 0), "Maximum number of sites harvested in parallel (NEWSSCRAPE_CONCURRENCY)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var (
		fileConfig *config.FileConfig
		err        error
	)
	if *configPath != "" {
		fileConfig, err = config.LoadConfigFileFrom(*configPath)
	} else {
		fileConfig, err = config.LoadConfigFile()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	harvestConfig := fileConfig.HarvestConfig()
	if *interval > 0 {
		harvestConfig.Interval = *interval
	}
	if *concurrency > 0 {
		harvestConfig.Concurrency = *concurrency
	}
	if *archivePath == "" {
		*archivePath = fileConfig.ArchiveDSN(config.DefaultArchiveDSN)
	}

	sites := fileConfig.HarvestSites()
	if len(sites) == 0 {
		log.Fatal().Msg("no sites configured")
	}

	log.Info().Str("path", *archivePath).Msg("opening archive")
	store, err := archive.NewStore(*archivePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open archive")
	}
	defer store.Close()

	harvester := harvest.New(fetcher.New(fileConfig.FetcherConfig()), store, harvestConfig)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- harvester.Run(ctx, sites)
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")
		harvester.Stop()
		cancel()

		shutdownTimer := time.NewTimer(60 * time.Second)
		select {
		case <-errChan:
			log.Info().Msg("harvester stopped")
		case <-shutdownTimer.C:
			log.Warn().Msg("shutdown timeout exceeded, forcing exit")
		}
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("harvester error")
		}
	}
}
