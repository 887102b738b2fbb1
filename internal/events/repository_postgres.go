package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts the event. Replayed events (same id) are ignored so the
// worker can be restarted mid-batch.
func (r *PostgresRepository) Save(ctx context.Context, e *SearchEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO search_events (
			id,
			session_id,
			surface,
			query,
			result_count,
			outcome,
			latency_ms,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`,
		e.ID,
		e.SessionID,
		e.Surface,
		e.Query,
		e.ResultCount,
		e.Outcome,
		e.LatencyMs,
		e.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]SearchEvent, error) {
	if limit <= 0 {
		return []SearchEvent{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			session_id,
			surface,
			query,
			result_count,
			outcome,
			latency_ms,
			created_at
		FROM search_events
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchEvent
	for rows.Next() {
		var e SearchEvent
		if err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Surface,
			&e.Query,
			&e.ResultCount,
			&e.Outcome,
			&e.LatencyMs,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
