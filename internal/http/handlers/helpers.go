package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/shell"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("json encode error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

type errResponse struct {
	Error    string            `json:"error"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeErrorBody(logger, w, r, status, errResponse{Error: msg})
}

func writeErrorBody(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, body errResponse) {
	logger.Info("http error",
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", body.Error),
	)
	writeJSON(logger, w, r, status, body)
}

// writeUnauthenticated answers requests whose session is missing or expired.
func writeUnauthenticated(logger logx.Logger, w http.ResponseWriter, r *http.Request, expired bool) {
	msg := "authentication required"
	if expired {
		msg = "session expired"
	}
	writeErrorBody(logger, w, r, http.StatusUnauthorized, errResponse{Error: msg, Redirect: shell.PathLogin})
}

// errorStatus maps a service error to an HTTP status and the message to show.
func errorStatus(err error, fallback string) (int, string) {
	var fe domain.FieldErrors
	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest, apperr.MessageOf(err, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, apperr.MessageOf(err, "not found")
	case errors.Is(err, apperr.ErrGuarded):
		return http.StatusConflict, "action not allowed for current status"
	case errors.Is(err, apperr.ErrBusy), errors.Is(err, apperr.ErrState), errors.Is(err, apperr.ErrStale):
		return http.StatusConflict, apperr.MessageOf(err, err.Error())
	}
	if f, ok := backend.AsFailure(err); ok {
		msg := apperr.MessageOf(err, f.UserMessage(fallback))
		switch {
		case f.Kind == backend.KindTransport:
			return http.StatusBadGateway, msg
		case f.Kind == backend.KindRejected && f.Status >= 400 && f.Status < 500:
			return f.Status, msg
		default:
			return http.StatusBadGateway, msg
		}
	}
	return http.StatusInternalServerError, apperr.MessageOf(err, fallback)
}

// writeServiceError answers with the status matching err. Expired sessions
// get a 401 pointing at the login screen.
func writeServiceError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, apperr.ErrUnauthenticated) {
		f, ok := backend.AsFailure(err)
		writeUnauthenticated(logger, w, r, ok && f.Kind == backend.KindAuthExpired)
		return
	}
	status, msg := errorStatus(err, fallback)
	body := errResponse{Error: msg}
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		body.Fields = fe
	}
	writeErrorBody(logger, w, r, status, body)
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func intQuery(r *http.Request, name string) (int, bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false, errors.New("invalid " + name)
	}
	return v, true, nil
}

func isUnauthenticated(err error) bool {
	return err != nil && errors.Is(err, apperr.ErrUnauthenticated)
}
