package assignment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/schedule"
)

// Messages shown by the workflow.
const (
	MsgRoutesUnavailable   = "No se pudieron cargar las rutas disponibles."
	MsgCarriersUnavailable = "No se pudieron cargar los transportistas disponibles."
	MsgSelectionRequired   = "Por favor, seleccione una ruta y un transportista."
	MsgAssigned            = "Orden asignada exitosamente."
	MsgAssignFailed        = "Error al asignar la orden."
)

// DefaultRefreshDelay separates a successful submission from the order refetch.
const DefaultRefreshDelay = 1500 * time.Millisecond

// State is a step of the assignment workflow.
type State int

// Workflow states.
const (
	StateIdle State = iota
	StateLoadingOptions
	StateAwaitingSelection
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingOptions:
		return "loading_options"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Selection holds the raw route and carrier choices; empty means not chosen.
type Selection struct {
	RouteID   string
	CarrierID string
}

// Snapshot is a read-only view of the workflow.
type Snapshot struct {
	State         State
	Order         domain.Order
	Routes        []domain.Route
	Carriers      []domain.Carrier
	RoutesError   string
	CarriersError string
	Selection     Selection
	Error         string
	Success       string
}

// RefreshFunc refetches an order after a successful assignment.
type RefreshFunc func(ctx context.Context, orderID int64)

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the reassignment guard.
func WithPolicy(p Policy) Option { return func(c *Controller) { c.policy = p } }

// WithScheduler sets the scheduler for the post-success refresh.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithRefreshDelay sets the delay between success and refresh.
func WithRefreshDelay(d time.Duration) Option { return func(c *Controller) { c.delay = d } }

// WithRefresh sets the callback run after a successful assignment.
func WithRefresh(fn RefreshFunc) Option { return func(c *Controller) { c.refresh = fn } }

// WithRecorder sets the submission counter.
func WithRecorder(r Recorder) Option { return func(c *Controller) { c.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l logx.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller drives the assignment of one route and one carrier to one order.
// It is safe for concurrent use; every fetch is tagged with a generation and
// results from a superseded generation are dropped.
type Controller struct {
	backend  Backend
	policy   Policy
	sched    schedule.Scheduler
	delay    time.Duration
	refresh  RefreshFunc
	recorder Recorder
	logger   logx.Logger

	mu      sync.Mutex
	state   State
	view    Snapshot
	gen     uint64
	cancel  context.CancelFunc
	settled chan struct{}
	// onSettled runs once the post-success refresh is done; set by Board.
	onSettled func()
}

// New creates an idle Controller.
func New(b Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: b,
		policy:  DefaultPolicy(),
		sched:   schedule.Timer{},
		delay:   DefaultRefreshDelay,
		logger:  logx.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Offer reports whether the assign action may be shown for o.
func (c *Controller) Offer(o domain.Order) bool { return c.policy.Allows(o) }

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the workflow view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.State = c.state
	v.Routes = append([]domain.Route(nil), c.view.Routes...)
	v.Carriers = append([]domain.Carrier(nil), c.view.Carriers...)
	return v
}

// Open starts the workflow for o and loads the route and carrier options
// concurrently. A failed list leaves its options empty with an inline error;
// it does not abort the workflow.
func (c *Controller) Open(ctx context.Context, o domain.Order) error {
	if !c.policy.Allows(o) {
		return fmt.Errorf("assign order %d with status %q: %w", o.ID, o.Status, apperr.ErrGuarded)
	}

	c.mu.Lock()
	if c.state != StateIdle {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("open assignment in %s: %w", st, apperr.ErrState)
	}
	ctx, cancel := context.WithCancel(ctx)
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.state = StateLoadingOptions
	c.view = Snapshot{Order: o}
	c.mu.Unlock()
	defer cancel()

	c.logger.Debug("assignment opened", logx.Int64("order_id", o.ID))

	var (
		routes   backend.Result[[]domain.Route]
		carriers backend.Result[[]domain.Carrier]
	)
	var g errgroup.Group
	g.Go(func() error {
		routes = c.backend.ListRoutes(ctx)
		return nil
	})
	g.Go(func() error {
		carriers = c.backend.ListCarriers(ctx)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return fmt.Errorf("open assignment: %w", apperr.ErrStale)
	}
	c.cancel = nil

	if routes.AuthExpired() || carriers.AuthExpired() {
		c.resetLocked()
		if routes.AuthExpired() {
			return fmt.Errorf("load routes: %w", routes.Err())
		}
		return fmt.Errorf("load carriers: %w", carriers.Err())
	}

	if routes.OK() {
		c.view.Routes = routes.Value()
	} else {
		c.view.RoutesError = MsgRoutesUnavailable
		c.logger.Warn("assignment routes unavailable", logx.Int64("order_id", o.ID), logx.Err(routes.Err()))
	}
	if carriers.OK() {
		c.view.Carriers = carriers.Value()
	} else {
		c.view.CarriersError = MsgCarriersUnavailable
		c.logger.Warn("assignment carriers unavailable", logx.Int64("order_id", o.ID), logx.Err(carriers.Err()))
	}
	c.state = StateAwaitingSelection
	return nil
}

// Select records the route and carrier choices. Editing after a failure
// returns the workflow to AwaitingSelection.
func (c *Controller) Select(sel Selection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateAwaitingSelection, StateFailed:
	default:
		return fmt.Errorf("select in %s: %w", c.state, apperr.ErrState)
	}
	c.view.Selection = Selection{
		RouteID:   strings.TrimSpace(sel.RouteID),
		CarrierID: strings.TrimSpace(sel.CarrierID),
	}
	c.view.Error = ""
	c.state = StateAwaitingSelection
	return nil
}

// Submit sends the selection as one assignment request. Nothing is sent when
// either choice is missing, and a second Submit while one is in flight fails
// with apperr.ErrBusy.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return fmt.Errorf("submit assignment: %w", apperr.ErrBusy)
	case StateAwaitingSelection, StateFailed:
	default:
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("submit assignment in %s: %w", st, apperr.ErrState)
	}

	c.state = StateAwaitingSelection
	a, err := c.assignmentLocked()
	if err != nil {
		c.view.Error = MsgSelectionRequired
		c.mu.Unlock()
		return err
	}
	c.state = StateSubmitting
	c.view.Error = ""
	c.view.Success = ""
	gen := c.gen
	c.mu.Unlock()

	res := c.backend.AssignManually(ctx, a)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return fmt.Errorf("submit assignment: %w", apperr.ErrStale)
	}

	switch res.Outcome() {
	case backend.OutcomeOK:
		c.state = StateSuccess
		c.view.Success = MsgAssigned
		c.record("success")
		c.logger.Info("order assigned",
			logx.Int64("order_id", a.OrderID),
			logx.Int64("route_id", a.RouteID),
			logx.Int64("carrier_id", a.CarrierID),
		)
		done := make(chan struct{})
		c.settled = done
		c.sched.After(context.WithoutCancel(ctx), c.delay, func() { c.complete(ctx, gen, a.OrderID, done) })
		return nil
	case backend.OutcomeAuthExpired:
		c.record("auth_expired")
		c.resetLocked()
		return fmt.Errorf("submit assignment: %w", res.Err())
	default:
		c.state = StateFailed
		c.view.Error = res.Message(MsgAssignFailed)
		c.record("failed")
		c.logger.Warn("order assignment failed", logx.Int64("order_id", a.OrderID), logx.Err(res.Err()))
		return fmt.Errorf("submit assignment: %w", res.Err())
	}
}

// Dismiss clears a submission error and returns to AwaitingSelection
// with the loaded options and selection intact.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFailed {
		return fmt.Errorf("dismiss in %s: %w", c.state, apperr.ErrState)
	}
	c.state = StateAwaitingSelection
	c.view.Error = ""
	return nil
}

// Close abandons the workflow from any state. Pending fetches are cancelled
// and their results discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		c.logger.Debug("assignment closed", logx.String("state", c.state.String()))
	}
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.view = Snapshot{}
}

// complete closes the workflow unless it was closed or reopened meanwhile.
// The order is refetched either way since the assignment was accepted.
func (c *Controller) complete(ctx context.Context, gen uint64, orderID int64, done chan struct{}) {
	c.mu.Lock()
	if gen == c.gen && c.state == StateSuccess {
		c.resetLocked()
	}
	hook := c.onSettled
	c.mu.Unlock()

	if c.refresh != nil {
		c.refresh(context.WithoutCancel(ctx), orderID)
	}
	close(done)
	if hook != nil {
		hook()
	}
}

// AwaitRefresh blocks until the refresh that follows the last successful
// submission has run. It returns at once when nothing was submitted.
func (c *Controller) AwaitRefresh(ctx context.Context) error {
	c.mu.Lock()
	done := c.settled
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("await order refresh: %w", ctx.Err())
	}
}

func (c *Controller) assignmentLocked() (domain.Assignment, error) {
	sel := c.view.Selection
	if sel.RouteID == "" || sel.CarrierID == "" {
		return domain.Assignment{}, fmt.Errorf("route and carrier required: %w", apperr.ErrInvalid)
	}
	routeID, err := strconv.ParseInt(sel.RouteID, 10, 64)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("route id %q: %w", sel.RouteID, apperr.ErrInvalid)
	}
	carrierID, err := strconv.ParseInt(sel.CarrierID, 10, 64)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("carrier id %q: %w", sel.CarrierID, apperr.ErrInvalid)
	}
	return domain.Assignment{OrderID: c.view.Order.ID, RouteID: routeID, CarrierID: carrierID}, nil
}

func (c *Controller) record(result string) {
	if c.recorder != nil {
		c.recorder.Submitted(result)
	}
}
