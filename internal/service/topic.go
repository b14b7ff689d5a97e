package service

import (
	"context"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// CreateTopic stores a topic; maxParticipants defaults to 15.
func (s *EventService) CreateTopic(ctx context.Context, req model.TopicRequest) (*model.Topic, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.topics.Create(ctx, req)
}

func (s *EventService) ListTopics(ctx context.Context, eventID string) ([]model.Topic, error) {
	topics, err := s.topics.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return nonNil(topics), nil
}

func (s *EventService) GetTopic(ctx context.Context, id string) (*model.Topic, error) {
	return s.topics.GetByID(ctx, id)
}

// UpdateTopic overwrites a topic. Lowering maxParticipants below the current
// registration count is allowed; existing registrations are kept and the
// topic simply reports as full.
func (s *EventService) UpdateTopic(ctx context.Context, id string, req model.TopicRequest) (*model.Topic, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.topics.Update(ctx, id, req)
}

func (s *EventService) DeleteTopic(ctx context.Context, id string) error {
	return s.topics.Delete(ctx, id)
}
