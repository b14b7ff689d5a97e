package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// ListTopics handles GET /api/topics?eventId=
func (h *EventHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.ListTopics(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "topic")
		return
	}
	h.links.Topics(topics)
	writeJSON(w, http.StatusOK, topics)
}

// CreateTopic handles POST /api/topics
func (h *EventHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req model.TopicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	topic, err := h.svc.CreateTopic(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "slot")
		return
	}
	h.links.Topic(topic)
	writeJSON(w, http.StatusCreated, topic)
}

// GetTopic handles GET /api/topics/{id}
func (h *EventHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.svc.GetTopic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "topic")
		return
	}
	h.links.Topic(topic)
	writeJSON(w, http.StatusOK, topic)
}

// UpdateTopic handles PUT /api/topics/{id}
func (h *EventHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	var req model.TopicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	topic, err := h.svc.UpdateTopic(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "topic")
		return
	}
	h.links.Topic(topic)
	writeJSON(w, http.StatusOK, topic)
}

// DeleteTopic handles DELETE /api/topics/{id}
func (h *EventHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTopic(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err, "topic")
		return
	}
	writeMessage(w, "Topic deleted successfully")
}
