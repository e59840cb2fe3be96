package detail

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
)

// Order detail messages.
const (
	MsgOrderUnavailable = "No se pudieron cargar los detalles de la orden."
	MsgTrackingNotFound = "No se pudo encontrar información para el código de seguimiento proporcionado."
)

// OrderView is the order detail screen: the order plus its dependents.
// A dependent that could not be loaded is nil and renders as not available.
type OrderView struct {
	Order       domain.Order
	Tone        domain.Tone
	Origin      string
	Destination string
	Route       *domain.Route
	Carrier     *domain.Carrier
	History     []domain.StatusEvent
}

// RouteLabel is the route name or domain.NotAvailable.
func (v OrderView) RouteLabel() string {
	if v.Route == nil {
		return domain.NotAvailable
	}
	return v.Route.Name
}

// CarrierLabel is the carrier name or domain.NotAvailable.
func (v OrderView) CarrierLabel() string {
	if v.Carrier == nil {
		return domain.NotAvailable
	}
	return v.Carrier.Name
}

// Orders loads order detail views. It is safe for concurrent use: loads of
// different orders are independent and a newer load of the same order
// answers the older caller too.
type Orders struct {
	backend OrderBackend
	logger  logx.Logger
	loads   latest[int64, OrderView]

	mu        sync.Mutex
	refetched map[int64]OrderView
}

// NewOrders creates the order detail loader.
func NewOrders(b OrderBackend, logger logx.Logger) *Orders {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Orders{backend: b, logger: logger, refetched: make(map[int64]OrderView)}
}

// Invalidate drops every load in flight and the refetched views, as when the session ends.
func (s *Orders) Invalidate() {
	s.loads.drop()
	s.mu.Lock()
	s.refetched = make(map[int64]OrderView)
	s.mu.Unlock()
}

// Load fetches the order, then its route, carrier and history in parallel.
// Only a failure of the order itself, or an expired session, fails the load.
func (s *Orders) Load(ctx context.Context, id int64) (OrderView, error) {
	view, err := s.loads.run(ctx, id, func(ctx context.Context) (OrderView, error) {
		ord := s.backend.GetOrder(ctx, id)
		if !ord.OK() {
			if ord.AuthExpired() {
				return OrderView{}, fmt.Errorf("load order %d: %w", id, ord.Err())
			}
			return OrderView{}, apperr.WithMessage(ord.Message(MsgOrderUnavailable), fmt.Errorf("load order %d: %w", id, ord.Err()))
		}
		return s.dependents(ctx, ord.Value())
	})
	if err == apperr.ErrStale {
		return OrderView{}, fmt.Errorf("load order %d: %w", id, err)
	}
	return view, err
}

// Refetch reloads the order after a change made elsewhere, such as an
// assignment, and keeps the result for Refetched.
func (s *Orders) Refetch(ctx context.Context, id int64) (OrderView, error) {
	view, err := s.Load(ctx, id)
	if err != nil {
		return OrderView{}, err
	}
	s.mu.Lock()
	s.refetched[id] = view
	s.mu.Unlock()
	s.logger.Debug("order refetched",
		logx.Int64("order_id", id),
		logx.String("route", view.RouteLabel()),
		logx.String("carrier", view.CarrierLabel()),
	)
	return view, nil
}

// Refetched returns the view of the last Refetch of id.
func (s *Orders) Refetched(id int64) (OrderView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.refetched[id]
	return v, ok
}

func (s *Orders) dependents(ctx context.Context, o domain.Order) (OrderView, error) {
	view := OrderView{
		Order:       o,
		Tone:        domain.OrderTone(o.Status),
		Origin:      domain.ExtractCityAndDepartment(o.OriginAddress),
		Destination: domain.ExtractCityAndDepartment(o.DestinationAddress),
	}

	var (
		route    backend.Result[domain.Route]
		carrier  backend.Result[domain.Carrier]
		history  backend.Result[[]domain.StatusEvent]
		g        errgroup.Group
		hasRoute = o.RouteID != nil && *o.RouteID > 0
		hasCarr  = o.CarrierID != nil && *o.CarrierID > 0
	)
	if hasRoute {
		g.Go(func() error { route = s.backend.GetRoute(ctx, *o.RouteID); return nil })
	}
	if hasCarr {
		g.Go(func() error { carrier = s.backend.GetCarrier(ctx, *o.CarrierID); return nil })
	}
	g.Go(func() error { history = s.backend.StatusHistory(ctx, o.ID); return nil })
	_ = g.Wait()

	for _, r := range []interface{ AuthExpired() bool }{route, carrier, history} {
		if r.AuthExpired() {
			return OrderView{}, fmt.Errorf("load order %d: %w", o.ID, apperr.ErrUnauthenticated)
		}
	}

	if hasRoute {
		if route.OK() {
			r := route.Value()
			view.Route = &r
		} else {
			s.logger.Warn("order route unavailable", logx.Int64("order_id", o.ID), logx.Err(route.Err()))
		}
	}
	if hasCarr {
		if carrier.OK() {
			c := carrier.Value()
			view.Carrier = &c
		} else {
			s.logger.Warn("order carrier unavailable", logx.Int64("order_id", o.ID), logx.Err(carrier.Err()))
		}
	}
	if history.OK() {
		view.History = history.Value()
	} else {
		s.logger.Warn("order history unavailable", logx.Int64("order_id", o.ID), logx.Err(history.Err()))
	}
	return view, nil
}

// TrackingView is the result of a tracking-code lookup.
type TrackingView struct {
	Code    string
	Order   domain.Order
	Tone    domain.Tone
	History []domain.StatusEvent
}

// Tracking looks orders up by tracking code.
type Tracking struct {
	backend OrderBackend
	logger  logx.Logger
	loads   latest[string, TrackingView]
}

// NewTracking creates the tracking lookup.
func NewTracking(b OrderBackend, logger logx.Logger) *Tracking {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Tracking{backend: b, logger: logger}
}

// Lookup finds the order for code and its history. An empty code is
// rejected without a request; a history failure yields an empty history.
func (s *Tracking) Lookup(ctx context.Context, code string) (TrackingView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return TrackingView{}, fmt.Errorf("tracking code: %w", apperr.ErrInvalid)
	}
	view, err := s.loads.run(ctx, code, func(ctx context.Context) (TrackingView, error) {
		return s.lookup(ctx, code)
	})
	if err == apperr.ErrStale {
		return TrackingView{}, fmt.Errorf("track %q: %w", code, err)
	}
	return view, err
}

func (s *Tracking) lookup(ctx context.Context, code string) (TrackingView, error) {
	res := s.backend.OrderByTracking(ctx, code)
	if res.AuthExpired() {
		return TrackingView{}, fmt.Errorf("track %q: %w", code, res.Err())
	}
	if !res.OK() || res.Value() == nil {
		cause := apperr.ErrNotFound
		if !res.OK() {
			cause = res.Err()
		}
		return TrackingView{}, apperr.WithMessage(MsgTrackingNotFound, fmt.Errorf("track %q: %w", code, cause))
	}

	o := *res.Value()
	view := TrackingView{Code: code, Order: o, Tone: domain.OrderTone(o.Status)}
	hist := s.backend.StatusHistory(ctx, o.ID)
	switch hist.Outcome() {
	case backend.OutcomeOK:
		view.History = hist.Value()
	case backend.OutcomeAuthExpired:
		return TrackingView{}, fmt.Errorf("track %q: %w", code, hist.Err())
	default:
		s.logger.Warn("tracking history unavailable", logx.String("code", code), logx.Err(hist.Err()))
	}
	return view, nil
}
