package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

func TestEventLifecycle(t *testing.T) {
	env := newEnv(t)

	created := env.createEvent(t, "Cardiology Workshop 2024")
	assert.True(t, created.IsActive)
	assert.Equal(t, "http://hub.test/event/"+created.UUID, created.URL)
	assert.Equal(t, "http://hub.test/api/events/"+created.ID, created.APIURL)

	rec := env.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]model.Event](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = env.do(t, http.MethodGet, "/api/events/"+created.UUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[model.Event](t, rec).ID)

	rec = env.do(t, http.MethodPut, "/api/events/"+created.ID, map[string]any{"name": "Renamed", "isActive": false})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Event](t, rec)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsActive)

	rec = env.do(t, http.MethodDelete, "/api/events/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Event deleted successfully"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/events/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "event not found", errorOf(t, rec))
}

func TestListEvents_EmptyArray(t *testing.T) {
	env := newEnv(t)

	rec := env.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateEvent_Validation(t *testing.T) {
	env := newEnv(t)

	rec := env.do(t, http.MethodPost, "/api/events", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "event name is required")
}

func TestGetEvent_NestedTree(t *testing.T) {
	env := newEnv(t)
	e := env.createEvent(t, "A")
	s := env.createSlot(t, e.ID, "Morning")
	tp := env.createTopic(t, s.ID, "Imaging", 5)
	require.Equal(t, http.StatusCreated, env.register(t, "jane@example.com", s.ID, tp.ID).Code)

	rec := env.do(t, http.MethodGet, "/api/events/"+e.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Event](t, rec)

	require.Len(t, got.Slots, 1)
	require.Len(t, got.Slots[0].Topics, 1)
	topic := got.Slots[0].Topics[0]
	assert.Equal(t, 1, topic.RegistrationCount)
	assert.Equal(t, "http://hub.test/api/topics/"+tp.ID, topic.APIURL)
	require.Len(t, topic.Registrations, 1)
	assert.Equal(t, "jane@example.com", topic.Registrations[0].Email)
}

func TestSlotEndpoints(t *testing.T) {
	env := newEnv(t)
	e := env.createEvent(t, "A")

	rec := env.do(t, http.MethodPost, "/api/slots", map[string]any{"name": "M", "date": "d", "time": "t", "eventId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "event not found", errorOf(t, rec))

	rec = env.do(t, http.MethodPost, "/api/slots", map[string]any{"name": "M", "eventId": e.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s := env.createSlot(t, e.ID, "Morning")
	assert.Equal(t, "http://hub.test/api/slots/"+s.ID, s.APIURL)
	require.NotNil(t, s.Event)
	assert.Equal(t, "A", s.Event.Name)

	rec = env.do(t, http.MethodGet, "/api/slots?eventId="+e.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Slot](t, rec), 1)

	rec = env.do(t, http.MethodPut, "/api/slots/"+s.ID, map[string]any{"name": "Late", "date": "2024-01-16", "time": "18:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Late", decode[model.Slot](t, rec).Name)

	rec = env.do(t, http.MethodDelete, "/api/slots/"+s.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/slots/"+s.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "slot not found", errorOf(t, rec))
}

func TestTopicEndpoints(t *testing.T) {
	env := newEnv(t)
	s := env.createSlot(t, env.createEvent(t, "A").ID, "Morning")

	tp := env.createTopic(t, s.ID, "Imaging", 0)
	assert.Equal(t, model.DefaultMaxParticipants, tp.MaxParticipants)
	require.NotNil(t, tp.Slot)

	rec := env.do(t, http.MethodPost, "/api/topics", map[string]any{
		"title": "x", "description": "y", "instructor": "z", "maxParticipants": 10001, "slotId": s.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/topics", map[string]any{
		"title": "x", "description": "y", "instructor": "z", "slotId": "missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "slot not found", errorOf(t, rec))

	rec = env.do(t, http.MethodPut, "/api/topics/"+tp.ID, map[string]any{
		"title": "Imaging II", "description": "y", "instructor": "z", "maxParticipants": 3, "slotId": s.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[model.Topic](t, rec).MaxParticipants)

	rec = env.do(t, http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Topic](t, rec), 1)

	other := env.createSlot(t, s.EventID, "Afternoon")
	require.Equal(t, http.StatusCreated, env.register(t, "a@example.com", s.ID, tp.ID).Code)
	rec = env.do(t, http.MethodPut, "/api/topics/"+tp.ID, map[string]any{
		"title": "Imaging II", "description": "y", "instructor": "z", "maxParticipants": 3, "slotId": other.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "topic has registrations and cannot move to another slot", errorOf(t, rec))

	rec = env.do(t, http.MethodDelete, "/api/topics/"+tp.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Topic deleted successfully"}`, rec.Body.String())
}

func TestWorkshopData(t *testing.T) {
	env := newEnv(t)
	e := env.createEvent(t, "A")
	s := env.createSlot(t, e.ID, "Morning")
	tp := env.createTopic(t, s.ID, "Imaging", 2)
	env.register(t, "a@example.com", s.ID, tp.ID)

	rec := env.do(t, http.MethodGet, "/api/workshop-data?eventId="+e.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decode[[]model.Slot](t, rec)
	require.Len(t, slots, 1)
	assert.Nil(t, slots[0].Event)
	require.Len(t, slots[0].Topics, 1)
	assert.Equal(t, 1, slots[0].Topics[0].RegistrationCount)
}
