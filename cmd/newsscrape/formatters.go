package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/newsscrape/archive"
	"github.com/pevans/newsscrape/export"
	"github.com/pevans/newsscrape/harvest"
	"github.com/pevans/newsscrape/scraper"
)

const (
	titleWidth = 50
	dateWidth  = 16
)

// cell truncates s to width display columns and pads it to that width.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

// printRecords prints records as a table or JSON.
func printRecords(records []scraper.ArticleRecord, format string) {
	if format == "json" {
		if err := export.WriteJSON(os.Stdout, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(records) == 0 {
		fmt.Println("No articles extracted.")
		return
	}

	fmt.Printf("%s %s %s\n", cell("TITLE", titleWidth), cell("DATE", dateWidth), "URL")
	fmt.Println(strings.Repeat("-", titleWidth+dateWidth+40))
	for _, r := range records {
		fmt.Printf("%s %s %s\n", cell(r.Title, titleWidth), cell(r.PublishDateText, dateWidth), r.URL)
	}
}

// printArticleTable prints archived articles with their IDs.
func printArticleTable(articles []archive.StoredArticle) {
	for _, a := range articles {
		fmt.Printf("%s\n", runewidth.Truncate(a.Title, 70, "..."))
		fmt.Printf("   %s | Extracted: %s\n", a.PublishDateText, a.ExtractedAt)
		if a.Description != "" {
			fmt.Printf("   %s\n", runewidth.Truncate(a.Description, 150, "..."))
		}
		fmt.Printf("   URL: %s\n", a.URL)
		fmt.Printf("   ID: %s\n", a.ArticleID.String())
		fmt.Println()
	}
}

// printSyncSummary prints per-site counts and failures.
func printSyncSummary(result *harvest.SyncResult) {
	for _, s := range result.Sites {
		fmt.Printf("%s %3d new  %3d skipped  %3d failed\n",
			cell(s.Site.Name, titleWidth), len(s.Records), s.Skipped, len(s.Errors))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", e.Site.Name, e.Err)
	}
	fmt.Printf("\nSynced %d sites (%d failed), %d articles extracted\n",
		result.SitesSynced, result.SitesFailed, result.ArticlesExtracted)
}
