package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/links"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/service"
)

// EventHandler serves events, slots, topics and the workshop overview.
type EventHandler struct {
	svc   *service.EventService
	links *links.Builder
	log   *zap.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, lb *links.Builder, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, links: lb, log: log}
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	h.links.Events(events)
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	h.links.Event(event)
	writeJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /api/events/{id}
// The id may be the internal id or the public uuid.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	h.links.Event(event)
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	h.links.Event(event)
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	writeMessage(w, "Event deleted successfully")
}

// WorkshopData handles GET /api/workshop-data?eventId=
func (h *EventHandler) WorkshopData(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.WorkshopData(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	h.links.Slots(slots)
	writeJSON(w, http.StatusOK, slots)
}
