package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pevans/newsscrape/scraper"
)

// utf8BOM lets spreadsheet applications detect the encoding of CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHeader names the CSV columns, matching the JSON field names.
var CSVHeader = []string{
	"url",
	"title",
	"primaryHeading",
	"description",
	"publishDateText",
	"contentExcerpt",
	"extractedAt",
}

// WriteJSON writes records as an indented JSON array. Non-ASCII text and
// HTML characters are written as-is rather than escaped.
func WriteJSON(w io.Writer, records []scraper.ArticleRecord) error {
	if records == nil {
		records = []scraper.ArticleRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ReadJSON reads a JSON array of records, as written by WriteJSON.
func ReadJSON(r io.Reader) ([]scraper.ArticleRecord, error) {
	var records []scraper.ArticleRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return records, nil
}

// WriteCSV writes a UTF-8 BOM, a header row and one row per record.
func WriteCSV(w io.Writer, records []scraper.ArticleRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.URL,
			r.Title,
			r.PrimaryHeading,
			r.Description,
			r.PublishDateText,
			r.ContentExcerpt,
			r.ExtractedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// SaveJSONFile writes records to path as a JSON array.
func SaveJSONFile(path string, records []scraper.ArticleRecord) error {
	return saveFile(path, records, WriteJSON)
}

// SaveCSVFile writes records to path as CSV.
func SaveCSVFile(path string, records []scraper.ArticleRecord) error {
	return saveFile(path, records, WriteCSV)
}

func saveFile(path string, records []scraper.ArticleRecord, write func(io.Writer, []scraper.ArticleRecord) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
