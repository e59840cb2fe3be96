package handlers

import (
	"errors"
	"net/http"

	"logistics-console/internal/apperr"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/service/detail"
	"logistics-console/internal/service/listing"
)

// CarrierHandler serves the carrier list and detail screens and the route list.
type CarrierHandler struct {
	list   carrierList
	detail carrierDetail
	modal  statusModal
	routes routeSource
	logger logx.Logger
}

// NewCarrierHandler wires the carrier services into HTTP handlers.
func NewCarrierHandler(
	list *listing.Carriers,
	details *detail.Carriers,
	modal *detail.StatusModal,
	routes *backend.Client,
	logger logx.Logger,
) *CarrierHandler {
	return newCarrierHandler(list, details, modal, routes, logger)
}

func newCarrierHandler(list carrierList, details carrierDetail, modal statusModal, routes routeSource, logger logx.Logger) *CarrierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CarrierHandler{list: list, detail: details, modal: modal, routes: routes, logger: logger}
}

// List handles GET /carriers.
func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, false)
}

// Refresh handles POST /carriers/refresh.
func (h *CarrierHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, true)
}

func (h *CarrierHandler) serveList(w http.ResponseWriter, r *http.Request, refresh bool) {
	num, size, err := paging(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !loadList(h.logger, w, r, h.list, refresh) {
		return
	}
	q := r.URL.Query()
	page := h.list.QueryPage(listing.CarrierFilter{Search: q.Get("search"), Status: q.Get("status")}, num, size)
	writeJSON(h.logger, w, r, http.StatusOK, toPageDTO(page, toCarrierDTOs, h.list))
}

// Get handles GET /carriers/{id}.
func (h *CarrierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	view, err := h.detail.Load(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err, detail.MsgCarrierUnavailable)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, carrierDetailDTO{
		Carrier:      toCarrierDTO(view.Carrier),
		ActiveOrders: toOrderDTOs(view.ActiveOrders),
	})
}

// SetStatus handles PATCH /carriers/{id}/status.
func (h *CarrierHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req statusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	view, err := h.detail.Load(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err, detail.MsgCarrierUnavailable)
		return
	}
	h.modal.Open(view.Carrier)
	if err := h.modal.Choose(req.Status); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.modal.Submit(r.Context()); err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeError(h.logger, w, r, http.StatusBadRequest, detail.MsgStatusRequired)
			return
		}
		writeServiceError(h.logger, w, r, err, detail.MsgStatusUpdateFailed)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toModalDTO(h.modal.Snapshot()))
}

// Delete handles DELETE /carriers/{id}.
func (h *CarrierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	msg, err := h.list.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			writeServiceError(h.logger, w, r, err, "")
			return
		}
		status, _ := errorStatus(err, listing.MsgCarrierDeleteFailed)
		writeError(h.logger, w, r, status, msg)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, messageResponse{Message: msg})
}

// Routes handles GET /routes.
func (h *CarrierHandler) Routes(w http.ResponseWriter, r *http.Request) {
	res := h.routes.ListRoutes(r.Context())
	if !res.OK() {
		writeServiceError(h.logger, w, r, res.Err(), "No se pudieron cargar las rutas.")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toRouteDTOs(res.Value()))
}
