package service

import (
	"context"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// WorkshopData returns the registration form's view of an event: slots
// oldest first, each with its topics and per-topic registration counts.
// An empty eventID covers every event.
func (s *EventService) WorkshopData(ctx context.Context, eventID string) ([]model.Slot, error) {
	slots, err := s.ListSlots(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		slots[i].Event = nil
	}
	return slots, nil
}
