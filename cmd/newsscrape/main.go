package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "scrape":
		handleScrape(args)
	case "extract":
		handleExtract(args)
	case "sync":
		handleSync(args)
	case "list":
		handleList(args)
	case "export":
		handleExport(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("newsscrape - News article scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsscrape <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape     Extract articles linked from a listing page")
	fmt.Println("  extract    Extract a single article page")
	fmt.Println("  sync       Harvest every configured site into the archive")
	fmt.Println("  list       List archived articles")
	fmt.Println("  export     Write archived articles as JSON or CSV")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  NEWSSCRAPE_ARCHIVE_DSN  Path to archive database (default: articles.db)")
	fmt.Println("  NEWSSCRAPE_CONFIG       Path to config file (default: ~/.newsscrape/config.yaml)")
}
