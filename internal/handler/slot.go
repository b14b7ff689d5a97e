package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// ListSlots handles GET /api/slots?eventId=
func (h *EventHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.ListSlots(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "slot")
		return
	}
	h.links.Slots(slots)
	writeJSON(w, http.StatusOK, slots)
}

// CreateSlot handles POST /api/slots
func (h *EventHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slot, err := h.svc.CreateSlot(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	h.links.Slot(slot)
	writeJSON(w, http.StatusCreated, slot)
}

// GetSlot handles GET /api/slots/{id}
func (h *EventHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.svc.GetSlot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "slot")
		return
	}
	h.links.Slot(slot)
	writeJSON(w, http.StatusOK, slot)
}

// UpdateSlot handles PUT /api/slots/{id}
func (h *EventHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slot, err := h.svc.UpdateSlot(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "slot")
		return
	}
	h.links.Slot(slot)
	writeJSON(w, http.StatusOK, slot)
}

// DeleteSlot handles DELETE /api/slots/{id}
func (h *EventHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSlot(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err, "slot")
		return
	}
	writeMessage(w, "Slot deleted successfully")
}
