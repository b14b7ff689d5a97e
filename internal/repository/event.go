package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event with a generated ID and public UUID.
func (r *EventRepository) Create(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	now := time.Now().UTC()
	event := &model.Event{
		ID:          uuid.NewString(),
		UUID:        uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, uuid, name, description, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.UUID, event.Name, event.Description, event.IsActive, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// List returns all events, newest first.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 ORDER BY e.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(eventDest(&e)...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Get returns the event whose ID or public UUID equals key, or ErrNotFound.
func (r *EventRepository) Get(ctx context.Context, key string) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 WHERE e.id = $1 OR e.uuid = $1
		 LIMIT 1`,
		key,
	).Scan(eventDest(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// Update overwrites name and description. IsActive is kept when the request
// leaves it unset.
func (r *EventRepository) Update(ctx context.Context, id string, req model.EventRequest) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`UPDATE events e
		 SET name = $2, description = $3, is_active = COALESCE($4, e.is_active), updated_at = $5
		 WHERE e.id = $1
		 RETURNING `+eventColumns,
		id, req.Name, req.Description, req.IsActive, time.Now().UTC(),
	).Scan(eventDest(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &e, nil
}

// Delete removes an event. Slots, topics and registrations go with it via
// ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
