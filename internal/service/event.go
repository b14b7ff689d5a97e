package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// EventService orchestrates events and the slots and topics scheduled
// within them.
type EventService struct {
	events        EventStore
	slots         SlotStore
	topics        TopicStore
	registrations RegistrationStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, slots SlotStore, topics TopicStore, registrations RegistrationStore) *EventService {
	return &EventService{events: events, slots: slots, topics: topics, registrations: registrations}
}

// CreateEvent validates the request and delegates to the repository.
func (s *EventService) CreateEvent(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.events.Create(ctx, req)
}

// ListEvents returns all events, newest first, each carrying its slots and
// their topics with registration counts.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.List(ctx, "")
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.List(ctx, "")
	if err != nil {
		return nil, err
	}

	nestTopics(slots, topics)
	byEvent := make(map[string][]model.Slot)
	for _, sl := range slots {
		sl.Event = nil
		byEvent[sl.EventID] = append(byEvent[sl.EventID], sl)
	}
	for i := range events {
		events[i].Slots = nonNil(byEvent[events[i].ID])
	}
	return nonNil(events), nil
}

// GetEvent looks an event up by id or public uuid and returns it with the
// full slot, topic and registration tree.
func (s *EventService) GetEvent(ctx context.Context, key string) (*model.Event, error) {
	if key == "" {
		return nil, invalidf("event id is required")
	}
	event, err := s.events.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.List(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.List(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrations.List(ctx, model.RegistrationFilter{EventID: event.ID})
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	byTopic := make(map[string][]model.Registration)
	for _, r := range regs {
		r.Slot, r.Topic = nil, nil
		byTopic[r.TopicID] = append(byTopic[r.TopicID], r)
	}
	for i := range topics {
		topics[i].Registrations = nonNil(byTopic[topics[i].ID])
	}
	nestTopics(slots, topics)
	for i := range slots {
		slots[i].Event = nil
	}
	event.Slots = nonNil(slots)
	return event, nil
}

// UpdateEvent replaces name and description; isActive is kept when omitted.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.EventRequest) (*model.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.events.Update(ctx, id, req)
}

// DeleteEvent removes an event together with its slots, topics and
// registrations.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

// nestTopics attaches topics to their slots in place. Topics lose their
// back-reference to the slot.
func nestTopics(slots []model.Slot, topics []model.Topic) {
	bySlot := make(map[string][]model.Topic)
	for _, t := range topics {
		t.Slot = nil
		bySlot[t.SlotID] = append(bySlot[t.SlotID], t)
	}
	for i := range slots {
		slots[i].Topics = nonNil(bySlot[slots[i].ID])
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
