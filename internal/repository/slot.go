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

// SlotRepository handles persistence for slots.
type SlotRepository struct {
	db *pgxpool.Pool
}

// NewSlotRepository constructs a SlotRepository.
func NewSlotRepository(db *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{db: db}
}

const selectSlots = `SELECT ` + slotColumns + `, ` + slotRegistrationCount + `, ` + eventColumns + `
	FROM slots s
	JOIN events e ON e.id = s.event_id`

func scanSlot(row pgx.Row) (model.Slot, error) {
	var (
		s model.Slot
		e model.Event
	)
	err := row.Scan(concat(slotDest(&s), []any{&s.RegistrationCount}, eventDest(&e))...)
	s.Event = &e
	return s, err
}

// Create inserts a slot. It returns ErrNotFound when the event does not exist.
func (r *SlotRepository) Create(ctx context.Context, req model.CreateSlotRequest) (*model.Slot, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.Exec(ctx,
		`INSERT INTO slots (id, name, date, time, event_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		id, req.Name, req.Date, req.Time, req.EventID, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("event %s: %w", req.EventID, ErrNotFound)
		}
		return nil, fmt.Errorf("insert slot: %w", err)
	}
	return r.GetByID(ctx, id)
}

// List returns slots, oldest first, optionally restricted to one event.
func (r *SlotRepository) List(ctx context.Context, eventID string) ([]model.Slot, error) {
	rows, err := r.db.Query(ctx,
		selectSlots+`
		 WHERE ($1::text = '' OR s.event_id = $1)
		 ORDER BY s.created_at ASC, s.id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// GetByID returns a single slot with its event, or ErrNotFound.
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	s, err := scanSlot(r.db.QueryRow(ctx, selectSlots+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return &s, nil
}

// Update overwrites a slot's name, date and time.
func (r *SlotRepository) Update(ctx context.Context, id string, req model.UpdateSlotRequest) (*model.Slot, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE slots SET name = $2, date = $3, time = $4, updated_at = $5 WHERE id = $1`,
		id, req.Name, req.Date, req.Time, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a slot together with its topics and registrations.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
