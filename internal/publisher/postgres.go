package publisher

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verygoodplugins/llm-url-solution/internal/detector"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

var ErrRecordNotFound = errors.New("published record not found")

const maxSearchResults = 5

// PostgresPublisher implements Publisher and Searcher on the shared pool. It
// also resolves post types from taxonomy terms for the detection pipeline.
type PostgresPublisher struct {
	pool        *pgxpool.Pool
	strategy    CategorizationStrategy
	status      string
	contentType string
}

// NewPostgresPublisher creates a publisher that files new records with the
// given default status and content type.
func NewPostgresPublisher(pool *pgxpool.Pool, strategy CategorizationStrategy, defaultStatus, defaultContentType string) *PostgresPublisher {
	return &PostgresPublisher{
		pool:        pool,
		strategy:    strategy,
		status:      defaultStatus,
		contentType: defaultContentType,
	}
}

func (p *PostgresPublisher) Publish(ctx context.Context, event *models.DetectionEvent, analysis models.AnalysisResult, content models.GeneratedContent) (*models.PublishedRecord, error) {
	contentType := analysis.ContentType
	if contentType == "" {
		contentType = p.contentType
	}
	if event.DetectedPostType != nil && *event.DetectedPostType != "" {
		contentType = *event.DetectedPostType
	}

	now := time.Now().UTC()
	record := &models.PublishedRecord{
		ID:            uuid.New(),
		Title:         content.Title,
		Slug:          recordSlug(event.RequestedURL, content.Title),
		BodyHTML:      content.Content,
		Excerpt:       content.Excerpt,
		Status:        p.status,
		ContentType:   contentType,
		FocusKeyword:  content.FocusKeyword,
		SourceEventID: &event.ID,
		OriginalURL:   event.RequestedURL,
		Tags:          content.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin publish tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO published_records
		   (id, title, slug, body_html, excerpt, status, content_type,
		    focus_keyword, source_event_id, original_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		record.ID, record.Title, record.Slug, record.BodyHTML, record.Excerpt,
		record.Status, record.ContentType, record.FocusKeyword,
		record.SourceEventID, record.OriginalURL, now)
	if err != nil {
		return nil, fmt.Errorf("insert published record: %w", err)
	}

	for _, tag := range record.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO record_tags (record_id, tag) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, record.ID, strings.ToLower(tag))
		if err != nil {
			return nil, fmt.Errorf("insert record tag: %w", err)
		}
	}

	if err := p.assignCategory(ctx, tx, record, event, analysis); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit publish tx: %w", err)
	}
	return record, nil
}

func (p *PostgresPublisher) assignCategory(ctx context.Context, tx pgx.Tx, record *models.PublishedRecord, event *models.DetectionEvent, analysis models.AnalysisResult) error {
	cat := p.strategy.Categorize(event, analysis)

	var termID uuid.UUID
	err := tx.QueryRow(ctx,
		`INSERT INTO taxonomy_terms (id, name, slug, taxonomy, content_type)
		 VALUES ($1, $2, $3, 'category', $4)
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		uuid.New(), cat.Name, cat.Slug, analysis.ContentType).Scan(&termID)
	if err != nil {
		return fmt.Errorf("upsert category term: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO record_terms (record_id, term_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, record.ID, termID)
	if err != nil {
		return fmt.Errorf("assign category: %w", err)
	}
	return nil
}

func (p *PostgresPublisher) GetRecord(ctx context.Context, id uuid.UUID) (*models.PublishedRecord, error) {
	var r models.PublishedRecord
	err := p.pool.QueryRow(ctx,
		`SELECT id, title, slug, body_html, excerpt, status, content_type,
		        focus_keyword, source_event_id, original_url, created_at, updated_at
		 FROM published_records WHERE id = $1`, id).
		Scan(&r.ID, &r.Title, &r.Slug, &r.BodyHTML, &r.Excerpt, &r.Status,
			&r.ContentType, &r.FocusKeyword, &r.SourceEventID, &r.OriginalURL,
			&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get published record: %w", err)
	}

	rows, err := p.pool.Query(ctx,
		`SELECT tag FROM record_tags WHERE record_id = $1 ORDER BY tag`, id)
	if err != nil {
		return nil, fmt.Errorf("get record tags: %w", err)
	}
	defer rows.Close()

	r.Tags = []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan record tag: %w", err)
		}
		r.Tags = append(r.Tags, tag)
	}
	return &r, rows.Err()
}

// SearchRelated finds records whose title or body mention any of the
// keywords. Results are capped at five regardless of the requested limit.
func (p *PostgresPublisher) SearchRelated(ctx context.Context, keywords []string, limit int) ([]models.RelatedContent, error) {
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}
	if len(keywords) == 0 {
		return []models.RelatedContent{}, nil
	}

	conditions := make([]string, 0, len(keywords))
	args := []any{}
	for _, kw := range keywords {
		idx := len(args) + 1
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR body_html ILIKE $%d)", idx, idx))
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT id, title, excerpt, slug, content_type FROM published_records
		 WHERE %s ORDER BY created_at DESC LIMIT $%d`,
		strings.Join(conditions, " OR "), len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search related content: %w", err)
	}
	defer rows.Close()

	results := []models.RelatedContent{}
	for rows.Next() {
		var rc models.RelatedContent
		var slug string
		if err := rows.Scan(&rc.ID, &rc.Title, &rc.Excerpt, &slug, &rc.Type); err != nil {
			return nil, fmt.Errorf("scan related content: %w", err)
		}
		rc.URL = "/" + slug
		results = append(results, rc)
	}
	return results, rows.Err()
}

// ResolvePostType checks the first two path segments of a slug against
// taxonomy terms and returns the content type of the first match.
func (p *PostgresPublisher) ResolvePostType(ctx context.Context, slug string) (string, error) {
	segments := strings.Split(slug, "/")
	if len(segments) > 2 {
		segments = segments[:2]
	}

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		var contentType string
		err := p.pool.QueryRow(ctx,
			`SELECT content_type FROM taxonomy_terms
			 WHERE slug = $1 AND content_type <> ''`, segment).Scan(&contentType)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("resolve post type: %w", err)
		}
		return contentType, nil
	}
	return "", nil
}

// recordSlug derives the new record's slug from the last path segment of the
// requested URL, so the replacement page answers the URL that 404ed. The
// title is the fallback when the URL yields nothing usable.
func recordSlug(requestedURL, title string) string {
	slug := detector.ExtractSlug(requestedURL)
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	if slug = Slugify(slug); slug != "" {
		return slug
	}
	return Slugify(title)
}

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title and reduces it to hyphen-separated tokens.
func Slugify(title string) string {
	slug := reNonSlug.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

var (
	_ Publisher = (*PostgresPublisher)(nil)
	_ Searcher  = (*PostgresPublisher)(nil)
)
