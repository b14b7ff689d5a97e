// Package mocks provides in-memory stand-ins for the repositories and the
// notifier, used by service and handler tests.
package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/repository"
)

// DB is an in-memory stand-in for the PostgreSQL schema, including the
// cascade on event, slot and topic deletion. It is safe for concurrent use.
type DB struct {
	mu     sync.Mutex
	clock  time.Time
	events []model.Event
	slots  []model.Slot
	topics []model.Topic
	regs   []model.Registration
}

// NewDB returns an empty database whose clock starts at 2024-01-01 UTC.
func NewDB() *DB {
	return &DB{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

// Stores returns the four repositories backed by db.
func (db *DB) Stores() (*Events, *Slots, *Topics, *Registrations) {
	return &Events{db}, &Slots{db}, &Topics{db}, &Registrations{db}
}

func (db *DB) eventIndex(key string) int {
	return slices.IndexFunc(db.events, func(e model.Event) bool { return e.ID == key || e.UUID == key })
}

func (db *DB) slotIndex(id string) int {
	return slices.IndexFunc(db.slots, func(s model.Slot) bool { return s.ID == id })
}

func (db *DB) topicIndex(id string) int {
	return slices.IndexFunc(db.topics, func(t model.Topic) bool { return t.ID == id })
}

func (db *DB) regIndex(id string) int {
	return slices.IndexFunc(db.regs, func(r model.Registration) bool { return r.ID == id })
}

func (db *DB) slotView(s model.Slot) model.Slot {
	s.RegistrationCount = 0
	for _, r := range db.regs {
		if r.SlotID == s.ID {
			s.RegistrationCount++
		}
	}
	if i := db.eventIndex(s.EventID); i >= 0 {
		e := db.events[i]
		s.Event = &e
	}
	return s
}

func (db *DB) topicView(t model.Topic) model.Topic {
	t.RegistrationCount = 0
	for _, r := range db.regs {
		if r.TopicID == t.ID {
			t.RegistrationCount++
		}
	}
	if i := db.slotIndex(t.SlotID); i >= 0 {
		s := db.slotView(db.slots[i])
		t.Slot = &s
	}
	return t
}

func (db *DB) regView(r model.Registration) model.Registration {
	if i := db.slotIndex(r.SlotID); i >= 0 {
		s := db.slotView(db.slots[i])
		r.Slot = &s
	}
	if i := db.topicIndex(r.TopicID); i >= 0 {
		t := db.topics[i]
		r.Topic = &t
	}
	return r
}

func (db *DB) slotEvent(slotID string) string {
	if i := db.slotIndex(slotID); i >= 0 {
		return db.slots[i].EventID
	}
	return ""
}

func (db *DB) deleteRegsWhere(match func(model.Registration) bool) int {
	before := len(db.regs)
	db.regs = slices.DeleteFunc(db.regs, match)
	return before - len(db.regs)
}

func (db *DB) deleteTopicsWhere(match func(model.Topic) bool) {
	var gone []string
	db.topics = slices.DeleteFunc(db.topics, func(t model.Topic) bool {
		if match(t) {
			gone = append(gone, t.ID)
			return true
		}
		return false
	})
	db.deleteRegsWhere(func(r model.Registration) bool { return slices.Contains(gone, r.TopicID) })
}

func (db *DB) deleteSlotsWhere(match func(model.Slot) bool) {
	var gone []string
	db.slots = slices.DeleteFunc(db.slots, func(s model.Slot) bool {
		if match(s) {
			gone = append(gone, s.ID)
			return true
		}
		return false
	})
	db.deleteTopicsWhere(func(t model.Topic) bool { return slices.Contains(gone, t.SlotID) })
	db.deleteRegsWhere(func(r model.Registration) bool { return slices.Contains(gone, r.SlotID) })
}

// Events implements service.EventStore.
type Events struct{ db *DB }

func (f *Events) Create(_ context.Context, req model.EventRequest) (*model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	now := f.db.tick()
	e := model.Event{
		ID:          uuid.NewString(),
		UUID:        uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.db.events = append(f.db.events, e)
	return &e, nil
}

func (f *Events) List(context.Context) ([]model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := slices.Clone(f.db.events)
	slices.Reverse(out)
	return out, nil
}

func (f *Events) Get(_ context.Context, key string) (*model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := f.db.eventIndex(key)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	e := f.db.events[i]
	return &e, nil
}

func (f *Events) Update(_ context.Context, id string, req model.EventRequest) (*model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := slices.IndexFunc(f.db.events, func(e model.Event) bool { return e.ID == id })
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	e := &f.db.events[i]
	e.Name, e.Description, e.UpdatedAt = req.Name, req.Description, f.db.tick()
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	out := *e
	return &out, nil
}

func (f *Events) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := slices.IndexFunc(f.db.events, func(e model.Event) bool { return e.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	f.db.events = slices.Delete(f.db.events, i, i+1)
	f.db.deleteSlotsWhere(func(s model.Slot) bool { return s.EventID == id })
	return nil
}

// Slots implements service.SlotStore.
type Slots struct{ db *DB }

func (f *Slots) Create(_ context.Context, req model.CreateSlotRequest) (*model.Slot, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if slices.IndexFunc(f.db.events, func(e model.Event) bool { return e.ID == req.EventID }) < 0 {
		return nil, fmt.Errorf("event %s: %w", req.EventID, repository.ErrNotFound)
	}
	now := f.db.tick()
	s := model.Slot{ID: uuid.NewString(), Name: req.Name, Date: req.Date, Time: req.Time, EventID: req.EventID, CreatedAt: now, UpdatedAt: now}
	f.db.slots = append(f.db.slots, s)
	out := f.db.slotView(s)
	return &out, nil
}

func (f *Slots) List(_ context.Context, eventID string) ([]model.Slot, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Slot
	for _, s := range f.db.slots {
		if eventID == "" || s.EventID == eventID {
			out = append(out, f.db.slotView(s))
		}
	}
	return out, nil
}

func (f *Slots) GetByID(_ context.Context, id string) (*model.Slot, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := f.db.slotIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	out := f.db.slotView(f.db.slots[i])
	return &out, nil
}

func (f *Slots) Update(_ context.Context, id string, req model.UpdateSlotRequest) (*model.Slot, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := f.db.slotIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	s := &f.db.slots[i]
	s.Name, s.Date, s.Time, s.UpdatedAt = req.Name, req.Date, req.Time, f.db.tick()
	out := f.db.slotView(*s)
	return &out, nil
}

func (f *Slots) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.slotIndex(id) < 0 {
		return repository.ErrNotFound
	}
	f.db.deleteSlotsWhere(func(s model.Slot) bool { return s.ID == id })
	return nil
}

// Topics implements service.TopicStore.
type Topics struct{ db *DB }

func (f *Topics) Create(_ context.Context, req model.TopicRequest) (*model.Topic, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.slotIndex(req.SlotID) < 0 {
		return nil, fmt.Errorf("slot %s: %w", req.SlotID, repository.ErrNotFound)
	}
	now := f.db.tick()
	t := model.Topic{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Instructor:      req.Instructor,
		MaxParticipants: req.MaxParticipants,
		SlotID:          req.SlotID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.db.topics = append(f.db.topics, t)
	out := f.db.topicView(t)
	return &out, nil
}

func (f *Topics) List(_ context.Context, eventID string) ([]model.Topic, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Topic
	for _, t := range f.db.topics {
		if eventID == "" || f.db.slotEvent(t.SlotID) == eventID {
			out = append(out, f.db.topicView(t))
		}
	}
	return out, nil
}

func (f *Topics) GetByID(_ context.Context, id string) (*model.Topic, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := f.db.topicIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	out := f.db.topicView(f.db.topics[i])
	return &out, nil
}

func (f *Topics) Update(_ context.Context, id string, req model.TopicRequest) (*model.Topic, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := f.db.topicIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	if f.db.slotIndex(req.SlotID) < 0 {
		return nil, fmt.Errorf("slot %s: %w", req.SlotID, repository.ErrNotFound)
	}
	t := &f.db.topics[i]
	if t.SlotID != req.SlotID && slices.ContainsFunc(f.db.regs, func(r model.Registration) bool { return r.TopicID == id }) {
		return nil, repository.ErrTopicHasRegistrations
	}
	t.Title, t.Description, t.Instructor = req.Title, req.Description, req.Instructor
	t.MaxParticipants, t.SlotID, t.UpdatedAt = req.MaxParticipants, req.SlotID, f.db.tick()
	out := f.db.topicView(*t)
	return &out, nil
}

func (f *Topics) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.topicIndex(id) < 0 {
		return repository.ErrNotFound
	}
	f.db.deleteTopicsWhere(func(t model.Topic) bool { return t.ID == id })
	return nil
}

// Registrations implements service.RegistrationStore with the same
// capacity and (email, slot) rules as the PostgreSQL repository.
type Registrations struct{ db *DB }

func (f *Registrations) Book(_ context.Context, req model.RegisterRequest) (*model.Registration, model.BookingOutcome, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	ti := f.db.topicIndex(req.TopicID)
	if ti < 0 {
		return nil, "", fmt.Errorf("topic %s: %w", req.TopicID, repository.ErrNotFound)
	}
	topic := f.db.topicView(f.db.topics[ti])
	if topic.SlotID != req.SlotID {
		return nil, "", repository.ErrTopicSlotMismatch
	}
	if topic.IsFull() {
		return nil, "", repository.ErrTopicFull
	}

	now := f.db.tick()
	i := slices.IndexFunc(f.db.regs, func(r model.Registration) bool {
		return r.Email == req.Email && r.SlotID == req.SlotID
	})
	if i >= 0 {
		r := &f.db.regs[i]
		r.TopicID, r.UpdatedAt = req.TopicID, now
		if req.Name != nil {
			r.Name = req.Name
		}
		if req.Organization != nil {
			r.Organization = req.Organization
		}
		out := f.db.regView(*r)
		return &out, model.BookingUpdated, nil
	}

	r := model.Registration{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		Organization: req.Organization,
		SlotID:       req.SlotID,
		TopicID:      req.TopicID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.db.regs = append(f.db.regs, r)
	out := f.db.regView(r)
	return &out, model.BookingCreated, nil
}

func (f *Registrations) List(_ context.Context, filter model.RegistrationFilter) ([]model.Registration, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Registration
	for i := len(f.db.regs) - 1; i >= 0; i-- {
		r := f.db.regs[i]
		if filter.Email != "" && r.Email != filter.Email {
			continue
		}
		if filter.EventID != "" && f.db.slotEvent(r.SlotID) != filter.EventID {
			continue
		}
		out = append(out, f.db.regView(r))
	}
	return out, nil
}

func (f *Registrations) GetByID(_ context.Context, id string) (*model.Registration, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i := f.db.regIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	out := f.db.regView(f.db.regs[i])
	return &out, nil
}

func (f *Registrations) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.deleteRegsWhere(func(r model.Registration) bool { return r.ID == id }) == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (f *Registrations) DeleteForEvent(_ context.Context, email, eventID string) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.deleteRegsWhere(func(r model.Registration) bool {
		return r.Email == email && f.db.slotEvent(r.SlotID) == eventID
	}), nil
}

// Notifier records every summary it is asked to send.
type Notifier struct {
	mu   sync.Mutex
	sent []model.Summary
	err  error
}

// SendSummary records s and returns the configured error.
func (n *Notifier) SendSummary(_ context.Context, s model.Summary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, s)
	return n.err
}

// FailWith makes later sends return err.
func (n *Notifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

// Sent returns a copy of the recorded summaries.
func (n *Notifier) Sent() []model.Summary {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}
