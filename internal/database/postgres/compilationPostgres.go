package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/afisha-dev/afisha/internal/entity"
)

type compilationRepository struct {
	db *sql.DB
}

func NewCompilationRepository(db *sql.DB) CompilationRepository {
	return &compilationRepository{db: db}
}

func (r *compilationRepository) Create(ctx context.Context, compilation *entity.Compilation, eventIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, compilation.Title, compilation.Pinned).Scan(&compilation.ID); err != nil {
		return fmt.Errorf("failed to create compilation: %w", err)
	}

	if err := insertCompilationEvents(ctx, tx, compilation.ID, eventIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *compilationRepository) Update(ctx context.Context, id int64, title *string, pinned *bool, eventIDs []int64, replaceEvents bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM compilations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check compilation: %w", err)
	}
	if !exists {
		return entity.ErrCompilationNotFound
	}

	if title != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE compilations SET title = $1 WHERE id = $2`, *title, id); err != nil {
			return fmt.Errorf("failed to update compilation title: %w", err)
		}
	}
	if pinned != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE compilations SET pinned = $1 WHERE id = $2`, *pinned, id); err != nil {
			return fmt.Errorf("failed to update compilation pinned flag: %w", err)
		}
	}
	if replaceEvents {
		if _, err := tx.ExecContext(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear compilation events: %w", err)
		}
		if err := insertCompilationEvents(ctx, tx, id, eventIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertCompilationEvents(ctx context.Context, tx *sql.Tx, compilationID int64, eventIDs []int64) error {
	for _, eventID := range eventIDs {
		query := `INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, compilationID, eventID); err != nil {
			return fmt.Errorf("failed to link event %d to compilation: %w", eventID, err)
		}
	}
	return nil
}

func (r *compilationRepository) GetByID(ctx context.Context, id int64) (*entity.Compilation, error) {
	query := `SELECT id, title, pinned FROM compilations WHERE id = $1`

	var compilation entity.Compilation
	err := r.db.QueryRowContext(ctx, query, id).Scan(&compilation.ID, &compilation.Title, &compilation.Pinned)
	if err == sql.ErrNoRows {
		return nil, entity.ErrCompilationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compilation: %w", err)
	}

	return &compilation, nil
}

func (r *compilationRepository) GetAll(ctx context.Context, pinned *bool, limit, offset int) ([]*entity.Compilation, error) {
	query := `SELECT id, title, pinned FROM compilations`
	var args []interface{}

	if pinned != nil {
		query += ` WHERE pinned = $1 ORDER BY id LIMIT $2 OFFSET $3`
		args = []interface{}{*pinned, limit, offset}
	} else {
		query += ` ORDER BY id LIMIT $1 OFFSET $2`
		args = []interface{}{limit, offset}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query compilations: %w", err)
	}
	defer rows.Close()

	var compilations []*entity.Compilation
	for rows.Next() {
		var compilation entity.Compilation
		if err := rows.Scan(&compilation.ID, &compilation.Title, &compilation.Pinned); err != nil {
			return nil, fmt.Errorf("failed to scan compilation: %w", err)
		}
		compilations = append(compilations, &compilation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compilations: %w", err)
	}

	return compilations, nil
}

func (r *compilationRepository) GetEventIDs(ctx context.Context, compilationID int64) ([]int64, error) {
	query := `SELECT event_id FROM compilation_events WHERE compilation_id = $1 ORDER BY event_id`

	rows, err := r.db.QueryContext(ctx, query, compilationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query compilation events: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan compilation event id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compilation events: %w", err)
	}

	return ids, nil
}

func (r *compilationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM compilations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete compilation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrCompilationNotFound
	}

	return nil
}
