package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/lib/pq"
)

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, created, event_id, requester_id, status`

// Create inserts a participation request with transaction to ensure the
// capacity and uniqueness invariants hold under concurrent callers: the
// event row is locked for the duration of the check-then-insert.
func (r *requestRepository) Create(ctx context.Context, request *entity.ParticipationRequest) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the event row so concurrent requests serialize per event
	var participantLimit int
	query := `SELECT participant_limit FROM events WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, request.EventID).Scan(&participantLimit)
	if err == sql.ErrNoRows {
		return entity.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock event: %w", err)
	}

	// At most one non-canceled request per (requester, event)
	var duplicates int
	query = `SELECT COUNT(*) FROM requests WHERE event_id = $1 AND requester_id = $2 AND status <> $3`
	err = tx.QueryRowContext(ctx, query, request.EventID, request.RequesterID, entity.RequestStatusCanceled).Scan(&duplicates)
	if err != nil {
		return fmt.Errorf("failed to check existing requests: %w", err)
	}
	if duplicates > 0 {
		return entity.ErrRequestExists
	}

	if participantLimit > 0 {
		var confirmed int
		query = `SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`
		err = tx.QueryRowContext(ctx, query, request.EventID, entity.RequestStatusConfirmed).Scan(&confirmed)
		if err != nil {
			return fmt.Errorf("failed to count confirmed requests: %w", err)
		}
		if confirmed >= participantLimit {
			return entity.ErrParticipantLimitReached
		}
	}

	query = `
		INSERT INTO requests (created, event_id, requester_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		request.Created,
		request.EventID,
		request.RequesterID,
		request.Status,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *requestRepository) GetByIDAndRequester(ctx context.Context, requestID, userID int64) (*entity.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 AND requester_id = $2`

	var request entity.ParticipationRequest
	err := r.db.QueryRowContext(ctx, query, requestID, userID).Scan(
		&request.ID,
		&request.Created,
		&request.EventID,
		&request.RequesterID,
		&request.Status,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return &request, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status entity.RequestStatus) error {
	query := `UPDATE requests SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrRequestNotFound
	}

	return nil
}

func (r *requestRepository) GetByRequester(ctx context.Context, userID int64) ([]*entity.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requester_id = $1 ORDER BY id`
	return r.queryRequests(ctx, query, userID)
}

func (r *requestRepository) GetByEvent(ctx context.Context, eventID int64) ([]*entity.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE event_id = $1 ORDER BY id`
	return r.queryRequests(ctx, query, eventID)
}

// GetPendingByEventAndIDs returns only PENDING requests among the given
// ids; anything else is silently excluded. Order follows insertion order.
func (r *requestRepository) GetPendingByEventAndIDs(ctx context.Context, eventID int64, ids []int64) ([]*entity.ParticipationRequest, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE event_id = $1 AND id = ANY($2) AND status = $3
		ORDER BY id
	`
	return r.queryRequests(ctx, query, eventID, pq.Array(ids), entity.RequestStatusPending)
}

// ApplyStatusUpdate commits a confirm/reject partition atomically. The
// event row is re-locked and the confirmed count re-checked so that two
// concurrent batch updates cannot both fit under the limit.
func (r *requestRepository) ApplyStatusUpdate(ctx context.Context, eventID int64, participantLimit int, confirmedIDs, rejectedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var dummy int64
	query := `SELECT id FROM events WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, query, eventID).Scan(&dummy); err != nil {
		if err == sql.ErrNoRows {
			return entity.ErrEventNotFound
		}
		return fmt.Errorf("failed to lock event: %w", err)
	}

	if participantLimit > 0 && len(confirmedIDs) > 0 {
		var confirmed int
		query = `SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`
		if err := tx.QueryRowContext(ctx, query, eventID, entity.RequestStatusConfirmed).Scan(&confirmed); err != nil {
			return fmt.Errorf("failed to count confirmed requests: %w", err)
		}
		if confirmed+len(confirmedIDs) > participantLimit {
			return entity.ErrParticipantLimitReached
		}
	}

	if err := bulkUpdateStatus(ctx, tx, confirmedIDs, entity.RequestStatusConfirmed); err != nil {
		return err
	}
	if err := bulkUpdateStatus(ctx, tx, rejectedIDs, entity.RequestStatusRejected); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func bulkUpdateStatus(ctx context.Context, tx *sql.Tx, ids []int64, status entity.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}

	// Build the query with placeholders
	query := `UPDATE requests SET status = $1 WHERE id IN (`
	args := []interface{}{status}

	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	query += ")"

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to bulk update request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != int64(len(ids)) {
		return fmt.Errorf("expected to update %d requests, but updated %d", len(ids), rowsAffected)
	}

	return nil
}

func (r *requestRepository) CountConfirmed(ctx context.Context, eventID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`

	var count int64
	err := r.db.QueryRowContext(ctx, query, eventID, entity.RequestStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed requests: %w", err)
	}
	return count, nil
}

// CountConfirmedByEvents returns a sparse mapping: events without a single
// confirmed request are absent, callers default to zero on lookup miss.
func (r *requestRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	if len(eventIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT event_id, COUNT(*)
		FROM requests
		WHERE event_id = ANY($1) AND status = $2
		GROUP BY event_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(eventIDs), entity.RequestStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed requests by events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, count int64
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan confirmed count: %w", err)
		}
		counts[eventID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmed counts: %w", err)
	}

	return counts, nil
}

func (r *requestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*entity.ParticipationRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.ParticipationRequest
	for rows.Next() {
		var request entity.ParticipationRequest
		err := rows.Scan(
			&request.ID,
			&request.Created,
			&request.EventID,
			&request.RequesterID,
			&request.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}

	return requests, nil
}
