package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/afisha-dev/afisha/internal/entity"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
		cm.id, cm.text, cm.event_id, cm.created, cm.edited,
		u.id, u.name`

const commentJoins = `
	FROM comments cm
	JOIN users u ON cm.author_id = u.id`

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (text, author_id, event_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		comment.Text,
		comment.Author.ID,
		comment.EventID,
		comment.Created,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	query := `UPDATE comments SET text = $1, edited = $2 WHERE id = $3`

	var edited interface{}
	if comment.Edited != nil {
		edited = comment.Edited.Time
	}

	result, err := r.db.ExecContext(ctx, query, comment.Text, edited, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrCommentNotFound
	}

	return nil
}

func scanComment(row interface{ Scan(...interface{}) error }) (*entity.Comment, error) {
	var comment entity.Comment
	var edited sql.NullTime
	err := row.Scan(
		&comment.ID,
		&comment.Text,
		&comment.EventID,
		&comment.Created,
		&edited,
		&comment.Author.ID,
		&comment.Author.Name,
	)
	if err != nil {
		return nil, err
	}
	if edited.Valid {
		editedAt := entity.NewEventTime(edited.Time)
		comment.Edited = &editedAt
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	query := `SELECT` + commentColumns + commentJoins + ` WHERE cm.id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

func (r *commentRepository) GetByEvent(ctx context.Context, eventID int64, limit, offset int) ([]*entity.Comment, error) {
	query := `SELECT` + commentColumns + commentJoins + `
	WHERE cm.event_id = $1
	ORDER BY cm.id
	LIMIT $2 OFFSET $3`

	return r.queryComments(ctx, query, eventID, limit, offset)
}

func (r *commentRepository) GetByAuthor(ctx context.Context, userID int64, limit, offset int) ([]*entity.Comment, error) {
	query := `SELECT` + commentColumns + commentJoins + `
	WHERE cm.author_id = $1
	ORDER BY cm.id
	LIMIT $2 OFFSET $3`

	return r.queryComments(ctx, query, userID, limit, offset)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrCommentNotFound
	}

	return nil
}

func (r *commentRepository) queryComments(ctx context.Context, query string, args ...interface{}) ([]*entity.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*entity.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
