package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/newsscrape/scraper"
)

// Custom errors for archive operations
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateURL    = errors.New("article with this URL already exists")
)

// Store keeps extracted article records in SQLite.
type Store struct {
	db *sql.DB
}

// StoredArticle is an archived record along with its archive metadata.
type StoredArticle struct {
	ArticleID uuid.UUID `json:"articleId"`
	scraper.ArticleRecord
	ArchivedAt time.Time `json:"archivedAt"`
}

// ArticleFilter represents filtering options for listing articles.
type ArticleFilter struct {
	// Query matches case-insensitively against title, heading and
	// description.
	Query  string
	Limit  int
	Offset int
}

// NewStore opens (or creates) the archive database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the articles table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		primary_heading TEXT NOT NULL,
		description TEXT NOT NULL,
		publish_date_text TEXT NOT NULL,
		content_excerpt TEXT NOT NULL,
		extracted_at TEXT NOT NULL,
		archived_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_extracted_at ON articles (extracted_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add archives a record. Returns ErrDuplicateURL if the URL is already
// archived.
func (s *Store) Add(record scraper.ArticleRecord) (*StoredArticle, error) {
	article := &StoredArticle{
		ArticleID:     uuid.New(),
		ArticleRecord: record,
		ArchivedAt:    time.Now().UTC().Truncate(0),
	}

	query := `
		INSERT INTO articles (
			article_id, url, title, primary_heading, description,
			publish_date_text, content_excerpt, extracted_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		article.ArticleID.String(),
		record.URL,
		record.Title,
		record.PrimaryHeading,
		record.Description,
		record.PublishDateText,
		record.ContentExcerpt,
		record.ExtractedAt,
		article.ArchivedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return article, nil
}

// URLExists reports whether an article with the given URL is archived.
func (s *Store) URLExists(url string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM articles WHERE url = ?", url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query article: %w", err)
	}
	return count > 0, nil
}

// Get retrieves an article by ID.
func (s *Store) Get(articleID uuid.UUID) (*StoredArticle, error) {
	row := s.db.QueryRow(selectArticles+" WHERE article_id = ?", articleID.String())

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	return article, nil
}

// List returns archived articles, newest extraction first.
func (s *Store) List(filter ArticleFilter) ([]StoredArticle, error) {
	where, args := filterClause(filter)
	query := selectArticles + where + " ORDER BY extracted_at DESC, archived_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []StoredArticle{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

// Count returns the number of articles matching the filter's query.
// Limit and offset are ignored.
func (s *Store) Count(filter ArticleFilter) (int, error) {
	where, args := filterClause(filter)

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// Delete removes an article from the archive.
func (s *Store) Delete(articleID uuid.UUID) error {
	result, err := s.db.Exec("DELETE FROM articles WHERE article_id = ?", articleID.String())
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrArticleNotFound
	}

	return nil
}

// Records strips archive metadata, returning the bare records.
func Records(articles []StoredArticle) []scraper.ArticleRecord {
	records := make([]scraper.ArticleRecord, 0, len(articles))
	for _, a := range articles {
		records = append(records, a.ArticleRecord)
	}
	return records
}

const selectArticles = `
	SELECT article_id, url, title, primary_heading, description,
	       publish_date_text, content_excerpt, extracted_at, archived_at
	FROM articles`

func filterClause(filter ArticleFilter) (string, []any) {
	if filter.Query == "" {
		return "", nil
	}

	pattern := "%" + strings.ToLower(filter.Query) + "%"
	return " WHERE lower(title) LIKE ? OR lower(primary_heading) LIKE ? OR lower(description) LIKE ?",
		[]any{pattern, pattern, pattern}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle parses one row into a StoredArticle.
func scanArticle(row rowScanner) (*StoredArticle, error) {
	var idStr, archivedAtStr string
	var r scraper.ArticleRecord

	err := row.Scan(
		&idStr, &r.URL, &r.Title, &r.PrimaryHeading, &r.Description,
		&r.PublishDateText, &r.ContentExcerpt, &r.ExtractedAt, &archivedAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse article ID: %w", err)
	}

	archivedAt, err := time.Parse(time.RFC3339Nano, archivedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archived_at: %w", err)
	}

	return &StoredArticle{
		ArticleID:     id,
		ArticleRecord: r,
		ArchivedAt:    archivedAt,
	}, nil
}
