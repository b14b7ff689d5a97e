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

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const selectRegistrations = `SELECT ` + registrationColumns + `, ` + slotColumns + `, ` + eventColumns + `, ` + topicColumns + `
	FROM registrations r
	JOIN slots s ON s.id = r.slot_id
	JOIN events e ON e.id = s.event_id
	JOIN topics t ON t.id = r.topic_id`

func scanRegistration(row pgx.Row) (model.Registration, error) {
	var (
		reg model.Registration
		s   model.Slot
		e   model.Event
		t   model.Topic
	)
	err := row.Scan(concat(registrationDest(&reg), slotDest(&s), eventDest(&e), topicDest(&t))...)
	s.Event = &e
	reg.Slot = &s
	reg.Topic = &t
	return reg, err
}

// Book claims a place on a topic for (email, slot).
//
// The topic row is locked with SELECT … FOR UPDATE for the whole
// check-then-write sequence, so two submissions for the last place on a
// topic cannot both pass the capacity check. The (email, slot) lookup is
// not backed by a unique constraint; an existing registration for the slot
// is moved to the requested topic instead of inserting a second row.
func (r *RegistrationRepository) Book(ctx context.Context, req model.RegisterRequest) (*model.Registration, model.BookingOutcome, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		topicSlotID string
		maxSeats    int
		taken       int
	)
	err = tx.QueryRow(ctx,
		`SELECT slot_id, max_participants FROM topics WHERE id = $1 FOR UPDATE`,
		req.TopicID,
	).Scan(&topicSlotID, &maxSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("topic %s: %w", req.TopicID, ErrNotFound)
		}
		return nil, "", fmt.Errorf("lock topic row: %w", err)
	}
	if topicSlotID != req.SlotID {
		return nil, "", ErrTopicSlotMismatch
	}

	if err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE topic_id = $1`, req.TopicID,
	).Scan(&taken); err != nil {
		return nil, "", fmt.Errorf("count registrations: %w", err)
	}
	if taken >= maxSeats {
		return nil, "", ErrTopicFull
	}

	now := time.Now().UTC()
	outcome := model.BookingUpdated

	var existingID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM registrations WHERE email = $1 AND slot_id = $2 ORDER BY created_at ASC LIMIT 1`,
		req.Email, req.SlotID,
	).Scan(&existingID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		outcome = model.BookingCreated
		existingID = uuid.NewString()
		_, err = tx.Exec(ctx,
			`INSERT INTO registrations (id, email, name, organization, slot_id, topic_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			existingID, req.Email, req.Name, req.Organization, req.SlotID, req.TopicID, now,
		)
		if err != nil {
			return nil, "", fmt.Errorf("insert registration: %w", err)
		}
	case err != nil:
		return nil, "", fmt.Errorf("find existing registration: %w", err)
	default:
		_, err = tx.Exec(ctx,
			`UPDATE registrations
			 SET topic_id = $2,
			     name = COALESCE($3, name),
			     organization = COALESCE($4, organization),
			     updated_at = $5
			 WHERE id = $1`,
			existingID, req.TopicID, req.Name, req.Organization, now,
		)
		if err != nil {
			return nil, "", fmt.Errorf("update registration: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("commit transaction: %w", err)
	}

	reg, err := r.GetByID(ctx, existingID)
	if err != nil {
		return nil, "", err
	}
	return reg, outcome, nil
}

// List returns registrations with slot, event and topic, newest first.
func (r *RegistrationRepository) List(ctx context.Context, filter model.RegistrationFilter) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx,
		selectRegistrations+`
		 WHERE ($1::text = '' OR r.email = $1)
		   AND ($2::text = '' OR s.event_id = $2)
		 ORDER BY r.created_at DESC, r.id ASC`,
		filter.Email, filter.EventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// GetByID returns one registration with its slot, event and topic.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, selectRegistrations+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}

// Delete removes a single registration.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForEvent removes every registration an email holds within an event
// and reports how many were removed.
func (r *RegistrationRepository) DeleteForEvent(ctx context.Context, email, eventID string) (int, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM registrations r
		 USING slots s
		 WHERE s.id = r.slot_id AND r.email = $1 AND s.event_id = $2`,
		email, eventID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete registrations for event: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
