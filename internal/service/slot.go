package service

import (
	"context"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// CreateSlot validates and stores a slot. An unknown event yields
// repository.ErrNotFound.
func (s *EventService) CreateSlot(ctx context.Context, req model.CreateSlotRequest) (*model.Slot, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.slots.Create(ctx, req)
}

// ListSlots returns slots oldest first with their topics, optionally for a
// single event.
func (s *EventService) ListSlots(ctx context.Context, eventID string) ([]model.Slot, error) {
	slots, err := s.slots.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	nestTopics(slots, topics)
	return nonNil(slots), nil
}

// GetSlot returns one slot with its event and topics.
func (s *EventService) GetSlot(ctx context.Context, id string) (*model.Slot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.List(ctx, slot.EventID)
	if err != nil {
		return nil, err
	}
	one := []model.Slot{*slot}
	nestTopics(one, topics)
	return &one[0], nil
}

func (s *EventService) UpdateSlot(ctx context.Context, id string, req model.UpdateSlotRequest) (*model.Slot, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.slots.Update(ctx, id, req)
}

func (s *EventService) DeleteSlot(ctx context.Context, id string) error {
	return s.slots.Delete(ctx, id)
}
