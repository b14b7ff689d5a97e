package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/auth"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// AdminHandler issues bearer tokens for the admin dashboard.
type AdminHandler struct {
	admin *auth.Admin
	log   *zap.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(admin *auth.Admin, log *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, r, h.log, err, "admin")
		return
	}

	token, exp, err := h.admin.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeServiceError(w, r, h.log, err, "admin")
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, ExpiresAt: exp})
}
