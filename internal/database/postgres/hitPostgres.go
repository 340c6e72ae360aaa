package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/lib/pq"
)

type hitRepository struct {
	db *sql.DB
}

func NewHitRepository(db *sql.DB) HitRepository {
	return &hitRepository{db: db}
}

func (r *hitRepository) Save(ctx context.Context, hit *entity.EndpointHit) error {
	query := `INSERT INTO hits (app, uri, ip, timestamp) VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, hit.App, hit.URI, hit.IP, hit.Timestamp.Time).Scan(&hit.ID)
	if err != nil {
		return fmt.Errorf("failed to save hit: %w", err)
	}

	return nil
}

func (r *hitRepository) GetBetween(ctx context.Context, start, end time.Time, uris []string) ([]*entity.EndpointHit, error) {
	query := `SELECT id, app, uri, ip, timestamp FROM hits WHERE timestamp BETWEEN $1 AND $2`
	args := []interface{}{start, end}

	if len(uris) > 0 {
		query += ` AND uri = ANY($3)`
		args = append(args, pq.Array(uris))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hits: %w", err)
	}
	defer rows.Close()

	var hits []*entity.EndpointHit
	for rows.Next() {
		var hit entity.EndpointHit
		var ts time.Time
		if err := rows.Scan(&hit.ID, &hit.App, &hit.URI, &hit.IP, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}
		hit.Timestamp = entity.NewEventTime(ts)
		hits = append(hits, &hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hits: %w", err)
	}

	return hits, nil
}
