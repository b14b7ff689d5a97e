// Package repository implements all database queries for the workshop hub.
// It uses pgx directly (no ORM).
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// ErrNotFound is returned when a requested resource, or the parent a new
// resource would belong to, does not exist.
var ErrNotFound = errors.New("not found")

// ErrTopicFull is returned when a topic has no remaining places.
var ErrTopicFull = errors.New("topic is full")

// ErrTopicSlotMismatch is returned when a registration names a topic that
// belongs to a different slot.
var ErrTopicSlotMismatch = errors.New("topic does not belong to the selected slot")

// ErrTopicHasRegistrations is returned when a topic that already has
// registrations would be moved to another slot.
var ErrTopicHasRegistrations = errors.New("topic has registrations and cannot move to another slot")

const pgForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// Column lists share aliases across queries: e=events, s=slots, t=topics,
// r=registrations.
const (
	eventColumns        = `e.id, e.uuid, e.name, e.description, e.is_active, e.created_at, e.updated_at`
	slotColumns         = `s.id, s.name, s.date, s.time, s.event_id, s.created_at, s.updated_at`
	topicColumns        = `t.id, t.title, t.description, t.instructor, t.max_participants, t.slot_id, t.created_at, t.updated_at`
	registrationColumns = `r.id, r.email, r.name, r.organization, r.slot_id, r.topic_id, r.created_at, r.updated_at`

	slotRegistrationCount  = `(SELECT COUNT(*) FROM registrations rc WHERE rc.slot_id = s.id)`
	topicRegistrationCount = `(SELECT COUNT(*) FROM registrations rc WHERE rc.topic_id = t.id)`
)

func eventDest(e *model.Event) []any {
	return []any{&e.ID, &e.UUID, &e.Name, &e.Description, &e.IsActive, &e.CreatedAt, &e.UpdatedAt}
}

func slotDest(s *model.Slot) []any {
	return []any{&s.ID, &s.Name, &s.Date, &s.Time, &s.EventID, &s.CreatedAt, &s.UpdatedAt}
}

func topicDest(t *model.Topic) []any {
	return []any{&t.ID, &t.Title, &t.Description, &t.Instructor, &t.MaxParticipants, &t.SlotID, &t.CreatedAt, &t.UpdatedAt}
}

func registrationDest(r *model.Registration) []any {
	return []any{&r.ID, &r.Email, &r.Name, &r.Organization, &r.SlotID, &r.TopicID, &r.CreatedAt, &r.UpdatedAt}
}

func concat(groups ...[]any) []any {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	out := make([]any, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
