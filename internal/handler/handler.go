// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/repository"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/service"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// errorStatus maps a service error to its HTTP status and client message.
// entity names the resource a bare ErrNotFound refers to.
func errorStatus(err error, entity string) (int, string) {
	var (
		fieldErrs validation.Errors
		ruleErr   *service.ValidationError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, fieldErrs.Error()
	case errors.As(err, &ruleErr):
		return http.StatusBadRequest, ruleErr.Error()
	case errors.Is(err, repository.ErrTopicFull):
		return http.StatusConflict, "topic is full"
	case errors.Is(err, repository.ErrTopicSlotMismatch):
		return http.StatusBadRequest, "topic does not belong to the selected slot"
	case errors.Is(err, repository.ErrTopicHasRegistrations):
		return http.StatusBadRequest, "topic has registrations and cannot move to another slot"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, entity + " not found"
	}
	return http.StatusInternalServerError, "internal server error"
}

// writeServiceError answers with the status for err. Unexpected errors are
// logged with the request id and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, entity string) {
	status, msg := errorStatus(err, entity)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeError(w, status, msg)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck handles GET /health. With a nil pinger it only reports that
// the process is up.
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
