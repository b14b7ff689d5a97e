package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/mocks"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/repository"
)

func ptr(s string) *string { return &s }

func TestRegister_RejectsWhenTopicIsFull(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, f.event(t, "A").ID, "Morning")
	tp := f.topic(t, s.ID, "Imaging", 2)

	f.register(t, "a@example.com", s.ID, tp.ID)
	f.register(t, "b@example.com", s.ID, tp.ID)

	_, _, err := f.regs.Register(context.Background(), model.RegisterRequest{Email: "c@example.com", SlotID: s.ID, TopicID: tp.ID})
	require.ErrorIs(t, err, repository.ErrTopicFull)

	got, err := f.events.GetTopic(context.Background(), tp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RegistrationCount)
}

func TestRegister_SameSlotMovesExistingRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, f.event(t, "A").ID, "Morning")
	first := f.topic(t, s.ID, "Imaging", 5)
	second := f.topic(t, s.ID, "EP", 5)

	r1, outcome := f.register(t, "jane@example.com", s.ID, first.ID)
	assert.Equal(t, model.BookingCreated, outcome)

	r2, _, err := f.regs.Register(ctx, model.RegisterRequest{
		Email: "  JANE@example.com ", Name: ptr("Jane"), SlotID: s.ID, TopicID: second.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, r1.ID, r2.ID)
	assert.Equal(t, second.ID, r2.TopicID)
	assert.Equal(t, "Jane", *r2.Name)

	regs, err := f.regs.ListRegistrations(ctx, model.RegistrationFilter{Email: "jane@example.com"})
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, second.ID, regs[0].TopicID)
}

func TestRegister_SendsSummaryInBackground(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Cardiology Workshop 2024")
	s := f.slot(t, e.ID, "Morning Session")
	first := f.topic(t, s.ID, "Imaging", 5)
	second := f.topic(t, s.ID, "EP", 5)

	f.register(t, "jane@example.com", s.ID, first.ID)
	f.regs.Wait()
	f.register(t, "jane@example.com", s.ID, second.ID)
	f.regs.Wait()

	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	assert.False(t, sent[0].IsUpdate)
	assert.True(t, sent[1].IsUpdate)
	assert.Equal(t, []model.SummaryLine{{
		Event: "Cardiology Workshop 2024",
		Slot:  "Morning Session",
		Topic: "EP",
		Date:  "2024-01-15",
		Time:  "09:00 - 10:20",
	}}, sent[1].Lines)
}

func TestRegister_IsUpdateFlagFromClient(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, f.event(t, "A").ID, "Morning")
	tp := f.topic(t, s.ID, "Imaging", 5)

	_, _, err := f.regs.Register(context.Background(), model.RegisterRequest{Email: "a@example.com", SlotID: s.ID, TopicID: tp.ID, IsUpdate: true})
	require.NoError(t, err)
	f.regs.Wait()

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].IsUpdate)
}

func TestRegister_NotificationFailureIsLogged(t *testing.T) {
	db := mocks.NewDB()
	ev, sl, tp, rg := db.Stores()
	core, logs := observer.New(zap.WarnLevel)
	n := &mocks.Notifier{}
	n.FailWith(errors.New("smtp down"))
	events := NewEventService(ev, sl, tp, rg)
	regs := NewRegistrationService(ev, sl, rg, n, time.Second, zap.New(core))

	e, err := events.CreateEvent(context.Background(), model.EventRequest{Name: "A"})
	require.NoError(t, err)
	s, err := events.CreateSlot(context.Background(), model.CreateSlotRequest{Name: "M", Date: "d", Time: "t", EventID: e.ID})
	require.NoError(t, err)
	topic, err := events.CreateTopic(context.Background(), model.TopicRequest{Title: "x", Description: "y", Instructor: "z", SlotID: s.ID})
	require.NoError(t, err)

	reg, _, err := regs.Register(context.Background(), model.RegisterRequest{Email: "a@example.com", SlotID: s.ID, TopicID: topic.ID})
	require.NoError(t, err, "mail failure must not fail the booking")
	require.NotNil(t, reg)
	regs.Wait()

	require.Equal(t, 1, logs.FilterMessage("summary email failed").Len())
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.regs.Register(context.Background(), model.RegisterRequest{Email: "not-an-email"})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "slotId")
	assert.Contains(t, verrs, "topicId")
}

func TestRegister_TopicErrors(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "A")
	morning := f.slot(t, e.ID, "Morning")
	noon := f.slot(t, e.ID, "Noon")
	tp := f.topic(t, morning.ID, "Imaging", 5)

	_, _, err := f.regs.Register(context.Background(), model.RegisterRequest{Email: "a@example.com", SlotID: morning.ID, TopicID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, _, err = f.regs.Register(context.Background(), model.RegisterRequest{Email: "a@example.com", SlotID: noon.ID, TopicID: tp.ID})
	assert.ErrorIs(t, err, repository.ErrTopicSlotMismatch)
}

func TestDeleteRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, f.event(t, "A").ID, "Morning")
	tp := f.topic(t, s.ID, "Imaging", 1)
	reg, _ := f.register(t, "a@example.com", s.ID, tp.ID)

	require.NoError(t, f.regs.DeleteRegistration(ctx, reg.ID))
	assert.ErrorIs(t, f.regs.DeleteRegistration(ctx, reg.ID), repository.ErrNotFound)

	// the freed place can be taken again
	f.register(t, "b@example.com", s.ID, tp.ID)
}

func TestListRegistrations_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.event(t, "A")
	b := f.event(t, "B")
	sa := f.slot(t, a.ID, "Morning")
	sb := f.slot(t, b.ID, "Morning")
	ta := f.topic(t, sa.ID, "Imaging", 5)
	tb := f.topic(t, sb.ID, "Imaging", 5)
	f.register(t, "x@example.com", sa.ID, ta.ID)
	f.register(t, "y@example.com", sa.ID, ta.ID)
	f.register(t, "x@example.com", sb.ID, tb.ID)

	all, err := f.regs.ListRegistrations(ctx, model.RegistrationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, sb.ID, all[0].SlotID, "newest first")

	byEvent, err := f.regs.ListRegistrations(ctx, model.RegistrationFilter{EventID: a.ID})
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	both, err := f.regs.ListRegistrations(ctx, model.RegistrationFilter{Email: "X@Example.com", EventID: a.ID})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "x@example.com", both[0].Email)

	none, err := f.regs.ListRegistrations(ctx, model.RegistrationFilter{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestEnroll_ReplacesPreviousSelections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "A")
	morning := f.slot(t, e.ID, "Morning")
	noon := f.slot(t, e.ID, "Noon")
	m1 := f.topic(t, morning.ID, "Imaging", 5)
	m2 := f.topic(t, morning.ID, "EP", 5)
	n1 := f.topic(t, noon.ID, "ICU", 5)
	f.register(t, "jane@example.com", morning.ID, m1.ID)
	f.regs.Wait()

	res, err := f.regs.Enroll(ctx, e.UUID, model.EnrollmentRequest{
		Email:      "jane@example.com",
		Name:       ptr("Jane"),
		Selections: map[string]string{noon.ID: n1.ID, morning.ID: m2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replaced)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Registrations, 2)
	assert.Equal(t, morning.ID, res.Registrations[0].SlotID, "booked in slot order")
	assert.Equal(t, noon.ID, res.Registrations[1].SlotID)

	got, err := f.events.GetTopic(ctx, m1.ID)
	require.NoError(t, err)
	assert.Zero(t, got.RegistrationCount)

	f.regs.Wait()
	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	last := sent[1]
	assert.True(t, last.IsUpdate)
	assert.Equal(t, "Jane", last.Name)
	assert.Len(t, last.Lines, 2)
}

func TestEnroll_CollectsPerSlotErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "A")
	morning := f.slot(t, e.ID, "Morning")
	noon := f.slot(t, e.ID, "Noon")
	full := f.topic(t, morning.ID, "Imaging", 1)
	open := f.topic(t, noon.ID, "ICU", 5)
	f.register(t, "other@example.com", morning.ID, full.ID)
	f.regs.Wait()

	res, err := f.regs.Enroll(ctx, e.ID, model.EnrollmentRequest{
		Email:      "jane@example.com",
		Selections: map[string]string{morning.ID: full.ID, noon.ID: open.ID},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrTopicFull)
	require.NotNil(t, res)
	assert.Equal(t, map[string]string{morning.ID: "topic is full"}, res.Errors)
	require.Len(t, res.Registrations, 1)
	assert.Equal(t, open.ID, res.Registrations[0].TopicID)
	assert.Zero(t, res.Replaced)

	f.regs.Wait()
	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	assert.False(t, sent[1].IsUpdate)
}

func TestEnroll_RejectsForeignSlot(t *testing.T) {
	f := newFixture(t)
	a := f.event(t, "A")
	b := f.event(t, "B")
	f.slot(t, a.ID, "Morning")
	foreign := f.slot(t, b.ID, "Morning")
	tp := f.topic(t, foreign.ID, "Imaging", 5)

	res, err := f.regs.Enroll(context.Background(), a.ID, model.EnrollmentRequest{
		Email:      "jane@example.com",
		Selections: map[string]string{foreign.ID: tp.ID},
	})
	assert.Nil(t, res)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEnroll_UnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.regs.Enroll(context.Background(), "missing", model.EnrollmentRequest{
		Email:      "jane@example.com",
		Selections: map[string]string{"s": "t"},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEnroll_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.regs.Enroll(context.Background(), "any", model.EnrollmentRequest{Email: "jane@example.com"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "selections")
}

func TestSendSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lines := []model.SummaryLine{{Event: "A", Slot: "Morning", Topic: "Imaging"}}

	require.NoError(t, f.regs.SendSummary(ctx, model.SummaryRequest{Email: "Jane@Example.com", Registrations: lines, IsUpdate: true}))
	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].Email)
	assert.True(t, sent[0].IsUpdate)

	err := f.regs.SendSummary(ctx, model.SummaryRequest{Email: "jane@example.com"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "registrations")

	f.notifier.FailWith(errors.New("smtp down"))
	assert.Error(t, f.regs.SendSummary(ctx, model.SummaryRequest{Email: "jane@example.com", Registrations: lines}))
}
