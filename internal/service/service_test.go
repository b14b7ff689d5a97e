package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/mocks"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

type fixture struct {
	db       *mocks.DB
	notifier *mocks.Notifier
	events   *EventService
	regs     *RegistrationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := mocks.NewDB()
	ev, sl, tp, rg := db.Stores()
	n := &mocks.Notifier{}
	f := &fixture{
		db:       db,
		notifier: n,
		events:   NewEventService(ev, sl, tp, rg),
		regs:     NewRegistrationService(ev, sl, rg, n, 0, zap.NewNop()),
	}
	t.Cleanup(f.regs.Wait)
	return f
}

func (f *fixture) event(t *testing.T, name string) *model.Event {
	t.Helper()
	e, err := f.events.CreateEvent(context.Background(), model.EventRequest{Name: name})
	require.NoError(t, err)
	return e
}

func (f *fixture) slot(t *testing.T, eventID, name string) *model.Slot {
	t.Helper()
	s, err := f.events.CreateSlot(context.Background(), model.CreateSlotRequest{
		Name: name, Date: "2024-01-15", Time: "09:00 - 10:20", EventID: eventID,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) topic(t *testing.T, slotID, title string, max int) *model.Topic {
	t.Helper()
	tp, err := f.events.CreateTopic(context.Background(), model.TopicRequest{
		Title: title, Description: title + " session", Instructor: "Dr. " + title, MaxParticipants: max, SlotID: slotID,
	})
	require.NoError(t, err)
	return tp
}

func (f *fixture) register(t *testing.T, email, slotID, topicID string) (*model.Registration, model.BookingOutcome) {
	t.Helper()
	reg, outcome, err := f.regs.Register(context.Background(), model.RegisterRequest{Email: email, SlotID: slotID, TopicID: topicID})
	require.NoError(t, err)
	return reg, outcome
}
