// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// EventStore persists events. Get accepts an id or a public uuid.
type EventStore interface {
	Create(ctx context.Context, req model.EventRequest) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, key string) (*model.Event, error)
	Update(ctx context.Context, id string, req model.EventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

// SlotStore persists slots. An empty eventID lists every slot.
type SlotStore interface {
	Create(ctx context.Context, req model.CreateSlotRequest) (*model.Slot, error)
	List(ctx context.Context, eventID string) ([]model.Slot, error)
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	Update(ctx context.Context, id string, req model.UpdateSlotRequest) (*model.Slot, error)
	Delete(ctx context.Context, id string) error
}

// TopicStore persists topics. An empty eventID lists every topic.
type TopicStore interface {
	Create(ctx context.Context, req model.TopicRequest) (*model.Topic, error)
	List(ctx context.Context, eventID string) ([]model.Topic, error)
	GetByID(ctx context.Context, id string) (*model.Topic, error)
	Update(ctx context.Context, id string, req model.TopicRequest) (*model.Topic, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationStore persists registrations. Book must perform the capacity
// check and the write atomically.
type RegistrationStore interface {
	Book(ctx context.Context, req model.RegisterRequest) (*model.Registration, model.BookingOutcome, error)
	List(ctx context.Context, filter model.RegistrationFilter) ([]model.Registration, error)
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	Delete(ctx context.Context, id string) error
	DeleteForEvent(ctx context.Context, email, eventID string) (int, error)
}
