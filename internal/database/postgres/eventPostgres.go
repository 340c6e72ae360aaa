package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/lib/pq"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
		e.id, e.annotation, e.created_on, e.description, e.event_date,
		e.paid, e.participant_limit, e.published_on, e.request_moderation,
		e.state, e.title,
		c.id, c.name,
		u.id, u.name,
		l.id, l.lat, l.lon`

const eventJoins = `
	FROM events e
	JOIN categories c ON e.category_id = c.id
	JOIN users u ON e.initiator_id = u.id
	JOIN locations l ON e.location_id = l.id`

func scanEvent(row interface{ Scan(...interface{}) error }) (*entity.Event, error) {
	var event entity.Event
	var publishedOn sql.NullTime
	err := row.Scan(
		&event.ID,
		&event.Annotation,
		&event.CreatedOn,
		&event.Description,
		&event.EventDate,
		&event.Paid,
		&event.ParticipantLimit,
		&publishedOn,
		&event.RequestModeration,
		&event.State,
		&event.Title,
		&event.Category.ID,
		&event.Category.Name,
		&event.Initiator.ID,
		&event.Initiator.Name,
		&event.Location.ID,
		&event.Location.Lat,
		&event.Location.Lon,
	)
	if err != nil {
		return nil, err
	}
	if publishedOn.Valid {
		published := entity.NewEventTime(publishedOn.Time)
		event.PublishedOn = &published
	}
	return &event, nil
}

// Create inserts a new event; created_on and the PENDING state are set by
// the service before the call.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (
			annotation, category_id, created_on, description, event_date,
			initiator_id, location_id, paid, participant_limit,
			request_moderation, state, title
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		event.Annotation,
		event.Category.ID,
		event.CreatedOn,
		event.Description,
		event.EventDate,
		event.Initiator.ID,
		event.Location.ID,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		event.State,
		event.Title,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT` + eventColumns + eventJoins + ` WHERE e.id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) GetByIDAndInitiator(ctx context.Context, eventID, userID int64) (*entity.Event, error) {
	query := `SELECT` + eventColumns + eventJoins + ` WHERE e.id = $1 AND e.initiator_id = $2`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID, userID))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by initiator: %w", err)
	}

	return event, nil
}

func (r *eventRepository) GetByInitiator(ctx context.Context, userID int64, limit, offset int) ([]*entity.Event, error) {
	query := `SELECT` + eventColumns + eventJoins + `
	WHERE e.initiator_id = $1
	ORDER BY e.id
	LIMIT $2 OFFSET $3`

	return r.queryEvents(ctx, query, userID, limit, offset)
}

func (r *eventRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + eventColumns + eventJoins + `
	WHERE e.id = ANY($1)
	ORDER BY e.id`

	return r.queryEvents(ctx, query, pq.Array(ids))
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET annotation = $1, category_id = $2, description = $3,
		    event_date = $4, location_id = $5, paid = $6,
		    participant_limit = $7, published_on = $8,
		    request_moderation = $9, state = $10, title = $11
		WHERE id = $12
	`

	var publishedOn interface{}
	if event.PublishedOn != nil {
		publishedOn = event.PublishedOn.Time
	}

	result, err := r.db.ExecContext(ctx, query,
		event.Annotation,
		event.Category.ID,
		event.Description,
		event.EventDate,
		event.Location.ID,
		event.Paid,
		event.ParticipantLimit,
		publishedOn,
		event.RequestModeration,
		event.State,
		event.Title,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

// SearchAdmin builds one parameterized query from the filter options;
// every empty filter field is simply absent from the WHERE clause.
func (r *eventRepository) SearchAdmin(ctx context.Context, filter *AdminEventsFilter) ([]*entity.Event, error) {
	var conditions []string
	var args []interface{}

	addArg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Users) > 0 {
		conditions = append(conditions, "e.initiator_id = ANY("+addArg(pq.Array(filter.Users))+")")
	}
	if len(filter.States) > 0 {
		conditions = append(conditions, "e.state = ANY("+addArg(pq.Array(filter.States))+")")
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, "e.category_id = ANY("+addArg(pq.Array(filter.Categories))+")")
	}
	if filter.RangeStart != nil {
		conditions = append(conditions, "e.event_date >= "+addArg(*filter.RangeStart))
	}
	if filter.RangeEnd != nil {
		conditions = append(conditions, "e.event_date <= "+addArg(*filter.RangeEnd))
	}

	query := `SELECT` + eventColumns + eventJoins
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.id LIMIT " + addArg(filter.Limit) + " OFFSET " + addArg(filter.Offset)

	return r.queryEvents(ctx, query, args...)
}

// SearchPublic always restricts to PUBLISHED events. The upper bound of
// the date range is strict and the lower bound is strict as well: events
// starting exactly at RangeStart are excluded, which keeps past events
// out when the caller defaults the start to the current moment.
func (r *eventRepository) SearchPublic(ctx context.Context, filter *PublicEventsFilter) ([]*entity.Event, error) {
	conditions := []string{"e.state = $1"}
	args := []interface{}{entity.EventStatePublished}

	addArg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Text != "" {
		placeholder := addArg("%" + strings.ToLower(filter.Text) + "%")
		conditions = append(conditions,
			"(LOWER(e.annotation) LIKE "+placeholder+" OR LOWER(e.description) LIKE "+placeholder+")")
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, "e.category_id = ANY("+addArg(pq.Array(filter.Categories))+")")
	}
	if filter.Paid != nil {
		conditions = append(conditions, "e.paid = "+addArg(*filter.Paid))
	}
	if filter.OnlyAvailable {
		// participant_limit is non-negative by schema, so this predicate
		// filters nothing; the flag is accepted and ignored.
		conditions = append(conditions, "e.participant_limit >= 0")
	}

	conditions = append(conditions, "e.event_date > "+addArg(filter.RangeStart))
	if filter.RangeEnd != nil {
		conditions = append(conditions, "e.event_date < "+addArg(*filter.RangeEnd))
	}

	query := `SELECT` + eventColumns + eventJoins +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY e.event_date LIMIT " + addArg(filter.Limit) + " OFFSET " + addArg(filter.Offset)

	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetOrCreateLocation resolves a location by exact coordinate match and
// inserts a new row only when no match exists.
func (r *eventRepository) GetOrCreateLocation(ctx context.Context, location entity.Location) (entity.Location, error) {
	query := `SELECT id, lat, lon FROM locations WHERE lat = $1 AND lon = $2`

	var existing entity.Location
	err := r.db.QueryRowContext(ctx, query, location.Lat, location.Lon).Scan(
		&existing.ID, &existing.Lat, &existing.Lon,
	)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return entity.Location{}, fmt.Errorf("failed to look up location: %w", err)
	}

	query = `INSERT INTO locations (lat, lon) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, location.Lat, location.Lon).Scan(&location.ID); err != nil {
		return entity.Location{}, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}

func (r *eventRepository) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check events by category: %w", err)
	}
	return exists, nil
}
