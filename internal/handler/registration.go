package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/export"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/links"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/service"
)

// RegistrationHandler serves attendee bookings.
type RegistrationHandler struct {
	svc   *service.RegistrationService
	links *links.Builder
	log   *zap.Logger
	now   func() time.Time
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService, lb *links.Builder, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, links: lb, log: log, now: time.Now}
}

func filterFrom(r *http.Request) model.RegistrationFilter {
	q := r.URL.Query()
	return model.RegistrationFilter{Email: q.Get("email"), EventID: q.Get("eventId")}
}

// ListRegistrations handles GET /api/registrations?email=&eventId=
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListRegistrations(r.Context(), filterFrom(r))
	if err != nil {
		writeServiceError(w, r, h.log, err, "registration")
		return
	}
	h.links.Registrations(regs)
	writeJSON(w, http.StatusOK, regs)
}

// Register handles POST /api/registrations
// Books a topic, or moves the attendee's existing booking in that slot.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, _, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "topic")
		return
	}
	h.links.Registration(reg)
	writeJSON(w, http.StatusCreated, reg)
}

// GetRegistration handles GET /api/registrations/{id}
func (h *RegistrationHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.GetRegistration(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "registration")
		return
	}
	h.links.Registration(reg)
	writeJSON(w, http.StatusOK, reg)
}

// DeleteRegistration handles DELETE /api/registrations/{id}
func (h *RegistrationHandler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRegistration(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err, "registration")
		return
	}
	writeMessage(w, "Registration deleted successfully")
}

// Enroll handles PUT /api/events/{id}/enrollments
// Replaces the attendee's selections within the event. When some selections
// fail the body still lists the ones that were booked.
func (h *RegistrationHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req model.EnrollmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Enroll(r.Context(), chi.URLParam(r, "id"), req)
	if res == nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}
	status := http.StatusOK
	if err != nil {
		status, _ = errorStatus(err, "topic")
	}
	h.links.Registrations(res.Registrations)
	writeJSON(w, status, res)
}

// SendSummary handles POST /api/registrations/summary
func (h *RegistrationHandler) SendSummary(w http.ResponseWriter, r *http.Request) {
	var req model.SummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SendSummary(r.Context(), req); err != nil {
		status, msg := errorStatus(err, "registration")
		if status == http.StatusInternalServerError {
			h.log.Error("summary email failed", zap.String("email", req.Email), zap.Error(err))
			msg = "failed to send email"
		}
		writeError(w, status, msg)
		return
	}
	writeMessage(w, "Email sent successfully")
}

// Export handles GET /api/registrations/export?eventId=
func (h *RegistrationHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter := filterFrom(r)
	filter.Email = ""
	regs, err := h.svc.ListRegistrations(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.log, err, "registration")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	if err := export.WriteCSV(w, regs); err != nil {
		h.log.Error("write csv export", zap.Error(err))
	}
}
