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

// TopicRepository handles persistence for topics.
type TopicRepository struct {
	db *pgxpool.Pool
}

// NewTopicRepository constructs a TopicRepository.
func NewTopicRepository(db *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{db: db}
}

const selectTopics = `SELECT ` + topicColumns + `, ` + topicRegistrationCount + `, ` + slotColumns + `, ` + eventColumns + `
	FROM topics t
	JOIN slots s ON s.id = t.slot_id
	JOIN events e ON e.id = s.event_id`

func scanTopic(row pgx.Row) (model.Topic, error) {
	var (
		t model.Topic
		s model.Slot
		e model.Event
	)
	err := row.Scan(concat(topicDest(&t), []any{&t.RegistrationCount}, slotDest(&s), eventDest(&e))...)
	s.Event = &e
	t.Slot = &s
	return t, err
}

// Create inserts a topic. It returns ErrNotFound when the slot does not exist.
func (r *TopicRepository) Create(ctx context.Context, req model.TopicRequest) (*model.Topic, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.Exec(ctx,
		`INSERT INTO topics (id, title, description, instructor, max_participants, slot_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		id, req.Title, req.Description, req.Instructor, req.MaxParticipants, req.SlotID, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("slot %s: %w", req.SlotID, ErrNotFound)
		}
		return nil, fmt.Errorf("insert topic: %w", err)
	}
	return r.GetByID(ctx, id)
}

// List returns topics with their registration counts, oldest first,
// optionally restricted to one event.
func (r *TopicRepository) List(ctx context.Context, eventID string) ([]model.Topic, error) {
	rows, err := r.db.Query(ctx,
		selectTopics+`
		 WHERE ($1::text = '' OR s.event_id = $1)
		 ORDER BY t.created_at ASC, t.id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetByID returns a single topic with its slot, event and registration
// count, or ErrNotFound.
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*model.Topic, error) {
	t, err := scanTopic(r.db.QueryRow(ctx, selectTopics+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return &t, nil
}

// Update overwrites a topic. Moving it to a missing slot yields ErrNotFound;
// moving a topic that has registrations yields ErrTopicHasRegistrations,
// since those registrations record the old slot. The topic row is locked as
// in Book, so no booking can land between the check and the update.
func (r *TopicRepository) Update(ctx context.Context, id string, req model.TopicRequest) (*model.Topic, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var currentSlotID string
	err = tx.QueryRow(ctx, `SELECT slot_id FROM topics WHERE id = $1 FOR UPDATE`, id).Scan(&currentSlotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock topic row: %w", err)
	}

	if currentSlotID != req.SlotID {
		var booked bool
		if err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM registrations WHERE topic_id = $1)`, id,
		).Scan(&booked); err != nil {
			return nil, fmt.Errorf("check topic registrations: %w", err)
		}
		if booked {
			return nil, ErrTopicHasRegistrations
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE topics
		 SET title = $2, description = $3, instructor = $4, max_participants = $5, slot_id = $6, updated_at = $7
		 WHERE id = $1`,
		id, req.Title, req.Description, req.Instructor, req.MaxParticipants, req.SlotID, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("slot %s: %w", req.SlotID, ErrNotFound)
		}
		return nil, fmt.Errorf("update topic: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a topic together with its registrations.
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
