package handlers

import (
	"context"
	"net/http"

	"logistics-console/internal/logx"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/detail"
)

// AssignmentHandler drives the per-order assignment workflows.
type AssignmentHandler struct {
	board  assignmentBoard
	orders orderDetail
	policy assignment.Policy
	logger logx.Logger
}

// NewAssignmentHandler wires the assignment board into HTTP handlers.
func NewAssignmentHandler(board *assignment.Board, orders *detail.Orders, policy assignment.Policy, logger logx.Logger) *AssignmentHandler {
	return newAssignmentHandler(board, orders, policy, logger)
}

func newAssignmentHandler(board assignmentBoard, orders orderDetail, policy assignment.Policy, logger logx.Logger) *AssignmentHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AssignmentHandler{board: board, orders: orders, policy: policy, logger: logger}
}

// respond writes the workflow snapshot, with the status matching err.
func (h *AssignmentHandler) respond(w http.ResponseWriter, r *http.Request, c *assignment.Controller, err error) {
	if err == nil {
		writeJSON(h.logger, w, r, http.StatusOK, toAssignmentDTO(c.Snapshot()))
		return
	}
	snap := c.Snapshot()
	status, msg := errorStatus(err, assignment.MsgAssignFailed)
	if snap.Error != "" {
		msg = snap.Error
	}
	h.logger.Info("assignment action failed", logx.String("state", snap.State.String()), logx.Err(err))
	dto := toAssignmentDTO(snap)
	dto.Error = msg
	writeJSON(h.logger, w, r, status, dto)
}

// withController resolves the order id and runs fn on its controller, held
// for the length of the request. Expired sessions are answered before fn's
// result is rendered.
func (h *AssignmentHandler) withController(w http.ResponseWriter, r *http.Request, create bool, fn func(ctx context.Context, id int64, c *assignment.Controller) error) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	c, release, ok := h.board.Acquire(id, create)
	defer release()
	if !ok {
		h.settled(w, r, id)
		return
	}
	err = fn(r.Context(), id, c)
	if isUnauthenticated(err) {
		writeServiceError(h.logger, w, r, err, "")
		return
	}
	h.respond(w, r, c, err)
}

// settled answers for an order without a workflow. After an assignment the
// refetched order is shown with its new route and carrier.
func (h *AssignmentHandler) settled(w http.ResponseWriter, r *http.Request, id int64) {
	view, ok := h.orders.Refetched(id)
	if !ok {
		writeError(h.logger, w, r, http.StatusNotFound, "no assignment in progress")
		return
	}
	order := toOrderDetailDTO(view, h.policy.Allows(view.Order))
	writeJSON(h.logger, w, r, http.StatusOK, assignmentDTO{
		State:   assignment.StateIdle.String(),
		OrderID: id,
		Order:   &order,
	})
}

// Open handles POST /orders/{id}/assignment.
func (h *AssignmentHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, true, func(ctx context.Context, id int64, c *assignment.Controller) error {
		view, err := h.orders.Load(ctx, id)
		if err != nil {
			return err
		}
		return c.Open(ctx, view.Order)
	})
}

// Get handles GET /orders/{id}/assignment.
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, false, func(context.Context, int64, *assignment.Controller) error { return nil })
}

// Select handles PUT /orders/{id}/assignment/selection.
func (h *AssignmentHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	h.withController(w, r, false, func(_ context.Context, _ int64, c *assignment.Controller) error {
		return c.Select(assignment.Selection{RouteID: req.RouteID, CarrierID: req.CarrierID})
	})
}

// Submit handles POST /orders/{id}/assignment/submit.
func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, false, func(ctx context.Context, _ int64, c *assignment.Controller) error {
		return c.Submit(ctx)
	})
}

// Dismiss handles POST /orders/{id}/assignment/dismiss.
func (h *AssignmentHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, false, func(_ context.Context, _ int64, c *assignment.Controller) error {
		return c.Dismiss()
	})
}

// Close handles DELETE /orders/{id}/assignment.
func (h *AssignmentHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	h.board.Close(id)
	w.WriteHeader(http.StatusNoContent)
}
