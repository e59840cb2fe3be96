package handlers

import (
	"net/http"

	"logistics-console/internal/logx"
	"logistics-console/internal/service/auth"
	"logistics-console/internal/shell"
)

type chrome interface {
	Greeting() string
	Menu() []shell.MenuItem
}

// Resetter drops per-session screen state, such as cached lists.
type Resetter interface {
	Reset()
}

// SessionHandler serves login, register and logout.
type SessionHandler struct {
	auth   authUsecase
	shell  chrome
	reset  Resetter
	logger logx.Logger
}

// NewSessionHandler wires the auth service into HTTP handlers. reset may be nil.
func NewSessionHandler(a *auth.Service, sh *shell.Shell, reset Resetter, logger logx.Logger) *SessionHandler {
	return newSessionHandler(a, sh, reset, logger)
}

func newSessionHandler(a authUsecase, sh chrome, reset Resetter, logger logx.Logger) *SessionHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SessionHandler{auth: a, shell: sh, reset: reset, logger: logger}
}

func (h *SessionHandler) current() sessionDTO {
	u, err := h.auth.Whoami()
	if err != nil {
		return sessionDTO{}
	}
	dto := sessionDTO{
		Active:   true,
		User:     &userDTO{ID: u.ID, Username: u.Username, Role: u.Role},
		Greeting: h.shell.Greeting(),
	}
	for _, m := range h.shell.Menu() {
		dto.Menu = append(dto.Menu, menuItem{Label: m.Label, Path: m.Path})
	}
	return dto
}

// Get handles GET /session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.current())
}

// Login handles POST /session/login.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if _, err := h.auth.Login(r.Context(), req.Username, req.Password); err != nil {
		writeServiceError(h.logger, w, r, err, auth.MsgLoginFailed)
		return
	}
	if h.reset != nil {
		h.reset.Reset()
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.current())
}

// Register handles POST /session/register.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	msg, err := h.auth.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		writeServiceError(h.logger, w, r, err, auth.MsgRegisterFailed)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, messageResponse{Message: msg})
}

// Logout handles DELETE /session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.reset != nil {
		h.reset.Reset()
	}
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Error("logout", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
