package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

const eventColumns = `id, requested_url, url_slug, referrer, client_ip, user_agent,
	confidence_score, detected_post_type, processed, content_generated,
	published_record_id, generation_status, generation_message, created_at, updated_at`

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// InsertEvent uses a single conditional insert so the dedup check and the
// write cannot race with a concurrent insert for the same slug.
func (s *PostgresStore) InsertEvent(ctx context.Context, event *models.DetectionEvent, dedupWindow time.Duration) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.UpdatedAt = event.CreatedAt
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO detection_events
		   (id, requested_url, url_slug, referrer, client_ip, user_agent,
		    confidence_score, detected_post_type, generation_status, generation_message,
		    created_at, updated_at)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11
		 WHERE NOT EXISTS (
		   SELECT 1 FROM detection_events
		   WHERE url_slug = $3 AND created_at > $11 - $12::interval
		 )`,
		event.ID, event.RequestedURL, event.URLSlug, event.Referrer,
		event.ClientIP, event.UserAgent, event.ConfidenceScore, event.DetectedPostType,
		event.GenerationStatus, event.GenerationMessage, event.CreatedAt, dedupWindow)
	if err != nil {
		return fmt.Errorf("insert detection event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *PostgresStore) GetEvent(ctx context.Context, id uuid.UUID) (*models.DetectionEvent, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM detection_events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get detection event: %w", err)
	}
	return event, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, filter EventFilter) ([]*models.DetectionEvent, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.Processed != nil {
		conditions = append(conditions, fmt.Sprintf("processed = $%d", argIdx))
		args = append(args, *filter.Processed)
		argIdx++
	}
	if filter.ContentGenerated != nil {
		conditions = append(conditions, fmt.Sprintf("content_generated = $%d", argIdx))
		args = append(args, *filter.ContentGenerated)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(requested_url ILIKE $%d OR url_slug ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM detection_events WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count detection events: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dataQuery := fmt.Sprintf(
		`SELECT `+eventColumns+` FROM detection_events WHERE %s
		 ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list detection events: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, rows.Err()
}

func (s *PostgresStore) ListUnprocessed(ctx context.Context, limit int) ([]*models.DetectionEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM detection_events
		 WHERE processed = FALSE ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unprocessed events: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, err
	}
	return events, rows.Err()
}

func (s *PostgresStore) UpdateGenerationStatus(ctx context.Context, id uuid.UUID, status, message string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE detection_events
		 SET generation_status = $2, generation_message = $3, updated_at = NOW()
		 WHERE id = $1`, id, status, message)
	if err != nil {
		return fmt.Errorf("update generation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE detection_events SET processed = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteEvent is the check-and-set that makes two concurrent generations of
// the same event mutually exclusive: only the caller whose update matches the
// unprocessed row may link a published record.
func (s *PostgresStore) CompleteEvent(ctx context.Context, id, recordID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE detection_events
		 SET processed = TRUE, content_generated = TRUE, published_record_id = $2, updated_at = NOW()
		 WHERE id = $1 AND processed = FALSE`, id, recordID)
	if err != nil {
		return fmt.Errorf("complete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (s *PostgresStore) DeleteEvents(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM detection_events WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete detection events: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) TruncateEvents(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE detection_events`); err != nil {
		return fmt.Errorf("truncate detection events: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM detection_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old detection events: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) GenerationCounts(ctx context.Context) (int, int, error) {
	var hourly, daily int
	err := s.pool.QueryRow(ctx,
		`SELECT
		   COUNT(*) FILTER (WHERE updated_at > NOW() - INTERVAL '1 hour'),
		   COUNT(*) FILTER (WHERE updated_at >= date_trunc('day', NOW()))
		 FROM detection_events WHERE content_generated = TRUE`,
	).Scan(&hourly, &daily)
	if err != nil {
		return 0, 0, fmt.Errorf("generation counts: %w", err)
	}
	return hourly, daily, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*EventStats, error) {
	var st EventStats
	err := s.pool.QueryRow(ctx,
		`SELECT
		   COUNT(*),
		   COUNT(*) FILTER (WHERE processed = FALSE),
		   COUNT(*) FILTER (WHERE content_generated = TRUE),
		   COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW())),
		   COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '7 days')
		 FROM detection_events`,
	).Scan(&st.Total, &st.Unprocessed, &st.ContentGenerated, &st.Today, &st.Week)
	if err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}
	return &st, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.DetectionEvent, error) {
	var e models.DetectionEvent
	err := row.Scan(&e.ID, &e.RequestedURL, &e.URLSlug, &e.Referrer, &e.ClientIP,
		&e.UserAgent, &e.ConfidenceScore, &e.DetectedPostType, &e.Processed,
		&e.ContentGenerated, &e.PublishedRecordID, &e.GenerationStatus,
		&e.GenerationMessage, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]*models.DetectionEvent, error) {
	var events []*models.DetectionEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan detection event: %w", err)
		}
		events = append(events, event)
	}
	if events == nil {
		events = []*models.DetectionEvent{}
	}
	return events, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
