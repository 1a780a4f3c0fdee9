package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pevans/newsscrape/archive"
	"github.com/pevans/newsscrape/export"
)

func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum number of articles to show")
	offset := fs.Int("offset", 0, "Number of articles to skip")
	query := fs.String("q", "", "Only show articles whose title, heading or description contains this text")
	format := fs.String("format", "table", "Output format (table, json)")
	fs.Parse(args)

	store := openArchive()
	defer store.Close()

	filter := archive.ArticleFilter{Query: *query, Limit: *limit, Offset: *offset}

	total, err := store.Count(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	articles, err := store.List(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *format == "json" {
		printRecords(archive.Records(articles), "json")
		return
	}

	if len(articles) == 0 {
		fmt.Println("No articles archived.")
		return
	}
	fmt.Printf("Showing %d-%d of %d articles\n\n", *offset+1, *offset+len(articles), total)
	printArticleTable(articles)
}

func handleExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "json", "Export format (json, csv)")
	out := fs.String("out", "", "Output file (default: stdout)")
	query := fs.String("q", "", "Only export articles matching this text")
	fs.Parse(args)

	*format = strings.ToLower(*format)
	if *format != "json" && *format != "csv" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q (must be json or csv)\n", *format)
		os.Exit(1)
	}

	store := openArchive()
	defer store.Close()

	articles, err := store.List(archive.ArticleFilter{Query: *query})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	records := archive.Records(articles)

	switch {
	case *out != "" && *format == "csv":
		err = export.SaveCSVFile(*out, records)
	case *out != "":
		err = export.SaveJSONFile(*out, records)
	case *format == "csv":
		err = export.WriteCSV(os.Stdout, records)
	default:
		err = export.WriteJSON(os.Stdout, records)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *out != "" {
		fmt.Printf("Exported %d articles to %s\n", len(records), *out)
	}
}

// openArchive opens the archive or exits.
func openArchive() *archive.Store {
	store, err := archive.NewStore(archivePath(loadConfig()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
		os.Exit(1)
	}
	return store
}
