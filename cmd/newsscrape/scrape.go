package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/newsscrape/archive"
	"github.com/pevans/newsscrape/fetcher"
	"github.com/pevans/newsscrape/harvest"
	"github.com/pevans/newsscrape/scraper"
)

func handleScrape(args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	maxArticles := fs.Int("max", 0, "Maximum number of articles to extract (default from config, else 10)")
	format := fs.String("format", "table", "Output format (table, json)")
	save := fs.Bool("save", false, "Archive extracted articles")
	feedURL := fs.String("feed", "", "Take candidates from this RSS/Atom feed instead of the page's links")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: usage: newsscrape scrape [flags] <url>\n")
		os.Exit(1)
	}
	setupLogging(*verbose)

	cfg := loadConfig()
	site := harvest.Site{Name: fs.Arg(0), URL: fs.Arg(0), FeedURL: *feedURL, MaxArticles: *maxArticles}

	var store harvest.Store
	if *save {
		archiveStore, err := archive.NewStore(archivePath(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
			os.Exit(1)
		}
		defer archiveStore.Close()
		store = archiveStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	harvester := harvest.New(fetcher.New(cfg.FetcherConfig()), store, cfg.HarvestConfig())
	result, err := harvester.HarvestSite(ctx, site)
	if err != nil && result == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printRecords(result.Records, *format)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: scrape interrupted: %v\n", err)
		os.Exit(1)
	}
}

func handleExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	format := fs.String("format", "json", "Output format (table, json)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: usage: newsscrape extract [flags] <url>\n")
		os.Exit(1)
	}
	setupLogging(*verbose)

	cfg := loadConfig()
	url := fs.Arg(0)

	doc, err := fetcher.New(cfg.FetcherConfig()).FetchDocument(context.Background(), url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	record := scraper.NewExtractor(cfg.HarvestConfig().Extractor).Extract(doc, url)
	printRecords([]scraper.ArticleRecord{record}, *format)
}
