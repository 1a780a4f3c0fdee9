package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/newsscrape/archive"
	"github.com/pevans/newsscrape/export"
	"github.com/pevans/newsscrape/fetcher"
	"github.com/pevans/newsscrape/harvest"
)

func handleSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	noExport := fs.Bool("no-export", false, "Skip writing the JSON and CSV export files")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)
	setupLogging(*verbose)

	cfg := loadConfig()
	sites := cfg.HarvestSites()
	if len(sites) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no sites configured (add a sites list to the config file)\n")
		os.Exit(1)
	}

	store, err := archive.NewStore(archivePath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	harvester := harvest.New(fetcher.New(cfg.FetcherConfig()), store, cfg.HarvestConfig())
	result := harvester.Sync(ctx, sites)

	printSyncSummary(result)

	if !*noExport {
		records := result.Records()
		jsonPath, csvPath := cfg.ExportPaths()
		if err := export.SaveJSONFile(jsonPath, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := export.SaveCSVFile(csvPath, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d articles to %s and %s\n", len(records), jsonPath, csvPath)
	}

	if result.SitesSynced == 0 {
		os.Exit(1)
	}
}
