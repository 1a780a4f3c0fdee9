package main

import (
	"flag"
	"os"
	"time"

	"github.com/pevans/newsscrape/api"
	"github.com/pevans/newsscrape/archive"
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

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	archivePath := flag.String("archive", getEnv("NEWSSCRAPE_ARCHIVE_DSN", config.DefaultArchiveDSN), "Path to archive database (NEWSSCRAPE_ARCHIVE_DSN)")
	addr := flag.String("addr", getEnv("NEWSSCRAPE_API_ADDR", "localhost:8080"), "Listen address (NEWSSCRAPE_API_ADDR)")
	flag.Parse()

	store, err := archive.NewStore(*archivePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open archive")
	}
	defer store.Close()

	server := api.NewServer(store)
	router := server.SetupRouter()

	log.Info().Msgf("Starting article API server on http://%s/api/v1/articles", *addr)

	if err := router.Run(*addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
