package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"logistics-console/internal/apperr"
	"logistics-console/internal/logx"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/detail"
	"logistics-console/internal/service/listing"
	"logistics-console/internal/service/ordering"
)

// OrderHandler serves the order list, detail, tracking and create screens.
type OrderHandler struct {
	list     orderList
	detail   orderDetail
	tracking tracking
	creator  orderCreator
	policy   assignment.Policy
	logger   logx.Logger
}

// NewOrderHandler wires the order services into HTTP handlers.
func NewOrderHandler(
	list *listing.Orders,
	details *detail.Orders,
	track *detail.Tracking,
	creator *ordering.Service,
	policy assignment.Policy,
	logger logx.Logger,
) *OrderHandler {
	return newOrderHandler(list, details, track, creator, policy, logger)
}

func newOrderHandler(list orderList, details orderDetail, track tracking, creator orderCreator, policy assignment.Policy, logger logx.Logger) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{list: list, detail: details, tracking: track, creator: creator, policy: policy, logger: logger}
}

// paging reads page and size from the query. Both belong to the request, so
// two dashboard tabs never move each other's cursor.
func paging(r *http.Request) (page, size int, err error) {
	page, size = 1, listing.DefaultPageSize
	if n, ok, err := intQuery(r, "size"); err != nil {
		return 0, 0, err
	} else if ok {
		if err := listing.ValidatePageSize(n); err != nil {
			return 0, 0, err
		}
		size = n
	}
	if n, ok, err := intQuery(r, "page"); err != nil {
		return 0, 0, err
	} else if ok && n > 0 {
		page = n
	}
	return page, size, nil
}

// loadList fetches the list once. A failure other than an expired session is
// reported inline in the page and does not fail the request.
func loadList(logger logx.Logger, w http.ResponseWriter, r *http.Request, v listView, refresh bool) bool {
	var err error
	if refresh {
		err = v.Refresh(r.Context())
	} else {
		err = v.Load(r.Context())
	}
	switch {
	case err == nil:
		return true
	case errors.Is(err, apperr.ErrUnauthenticated):
		writeServiceError(logger, w, r, err, "")
		return false
	default:
		logger.Debug("list load failed", logx.Err(err))
		return true
	}
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, false)
}

// Refresh handles POST /orders/refresh.
func (h *OrderHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, true)
}

func (h *OrderHandler) serveList(w http.ResponseWriter, r *http.Request, refresh bool) {
	q := r.URL.Query()
	date, err := listing.ParseDateBucket(q.Get("date"))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date filter")
		return
	}
	num, size, err := paging(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !loadList(h.logger, w, r, h.list, refresh) {
		return
	}

	page := h.list.QueryPage(listing.OrderFilter{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		Date:        date,
		PackageType: q.Get("type"),
	}, num, size)
	writeJSON(h.logger, w, r, http.StatusOK, toPageDTO(page, toOrderDTOs, h.list))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	view, err := h.detail.Load(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err, detail.MsgOrderUnavailable)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toOrderDetailDTO(view, h.policy.Allows(view.Order)))
}

// Track handles GET /tracking/{code}.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	view, err := h.tracking.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(h.logger, w, r, err, detail.MsgTrackingNotFound)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, trackingDTO{
		Code:    view.Code,
		Order:   toOrderDTO(view.Order),
		History: toHistoryDTO(view.History),
	})
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	msg, err := h.creator.Create(r.Context(), ordering.Form{
		PackageWeight:         req.PackageWeight,
		PackageDimensions:     req.PackageDimensions,
		PackageType:           req.PackageType,
		OriginDepartment:      req.OriginDepartment,
		OriginCity:            req.OriginCity,
		OriginStreet:          req.OriginAddress,
		DestinationDepartment: req.DestinationDepartment,
		DestinationCity:       req.DestinationCity,
		DestinationStreet:     req.DestinationAddress,
		RecipientName:         req.RecipientName,
		RecipientPhone:        req.RecipientPhone,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err, ordering.MsgCreateFailed)
		return
	}
	if err := h.list.Refresh(r.Context()); err != nil {
		h.logger.Debug("order list refetch after create failed", logx.Err(err))
	}
	writeJSON(h.logger, w, r, http.StatusCreated, messageResponse{Message: msg})
}

// Departments handles GET /locations/departments.
func (h *OrderHandler) Departments(w http.ResponseWriter, r *http.Request) {
	names, err := h.creator.Departments(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err, ordering.MsgLocationsUnavailable)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, names)
}

// Cities handles GET /locations/departments/{department}/cities.
func (h *OrderHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.creator.Cities(r.Context(), chi.URLParam(r, "department"))
	if err != nil {
		writeServiceError(h.logger, w, r, err, ordering.MsgLocationsUnavailable)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, cities)
}

type filterOptions struct {
	PageSizes       []int                `json:"page_sizes"`
	DefaultPageSize int                  `json:"default_page_size"`
	PackageTypes    []string             `json:"package_types"`
	Dates           []listing.DateBucket `json:"dates"`
}

// Options handles GET /orders/options: the choices of the list filters.
func (h *OrderHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, filterOptions{
		PageSizes:       listing.PageSizes,
		DefaultPageSize: listing.DefaultPageSize,
		PackageTypes:    listing.PackageTypes,
		Dates: []listing.DateBucket{
			listing.DateAll, listing.DateToday, listing.DateYesterday, listing.DateLastWeek, listing.DateLastMonth,
		},
	})
}
