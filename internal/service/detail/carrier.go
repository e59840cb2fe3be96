package detail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/schedule"
)

// Carrier detail messages.
const (
	MsgCarrierUnavailable = "No se pudieron cargar los detalles del transportista."
	MsgStatusRequired     = "Por favor, seleccione un estado."
	MsgStatusUpdated      = "Estado actualizado exitosamente."
	MsgStatusUpdateFailed = "Error al actualizar el estado."
)

// CarrierView is the carrier detail screen.
type CarrierView struct {
	Carrier      domain.Carrier
	Tone         domain.Tone
	ActiveOrders []domain.Order
}

// Carriers loads carrier detail views; loads of different carriers are independent.
type Carriers struct {
	backend CarrierBackend
	logger  logx.Logger
	loads   latest[int64, CarrierView]
}

// NewCarriers creates the carrier detail loader.
func NewCarriers(b CarrierBackend, logger logx.Logger) *Carriers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Carriers{backend: b, logger: logger}
}

// Invalidate drops every load in flight.
func (s *Carriers) Invalidate() { s.loads.drop() }

// Load fetches the carrier and its active orders in parallel. A failure of
// the order list leaves it empty.
func (s *Carriers) Load(ctx context.Context, id int64) (CarrierView, error) {
	view, err := s.loads.run(ctx, id, func(ctx context.Context) (CarrierView, error) {
		return s.load(ctx, id)
	})
	if err == apperr.ErrStale {
		return CarrierView{}, fmt.Errorf("load carrier %d: %w", id, err)
	}
	return view, err
}

func (s *Carriers) load(ctx context.Context, id int64) (CarrierView, error) {
	var (
		carrier backend.Result[domain.Carrier]
		orders  backend.Result[[]domain.Order]
		g       errgroup.Group
	)
	g.Go(func() error { carrier = s.backend.GetCarrier(ctx, id); return nil })
	g.Go(func() error { orders = s.backend.CarrierOrders(ctx, id); return nil })
	_ = g.Wait()

	if carrier.AuthExpired() {
		return CarrierView{}, fmt.Errorf("load carrier %d: %w", id, carrier.Err())
	}
	if orders.AuthExpired() {
		return CarrierView{}, fmt.Errorf("load carrier %d orders: %w", id, orders.Err())
	}
	if !carrier.OK() {
		return CarrierView{}, apperr.WithMessage(carrier.Message(MsgCarrierUnavailable), fmt.Errorf("load carrier %d: %w", id, carrier.Err()))
	}

	c := carrier.Value()
	view := CarrierView{Carrier: c, Tone: domain.CarrierTone(c.Status)}
	if orders.OK() {
		view.ActiveOrders = orders.Value()
	} else {
		s.logger.Warn("carrier orders unavailable", logx.Int64("carrier_id", id), logx.Err(orders.Err()))
	}
	return view, nil
}

// ModalState is a step of the carrier status update modal.
type ModalState int

// Modal states.
const (
	ModalClosed ModalState = iota
	ModalEditing
	ModalSubmitting
	ModalDone
)

func (s ModalState) String() string {
	switch s {
	case ModalClosed:
		return "closed"
	case ModalEditing:
		return "editing"
	case ModalSubmitting:
		return "submitting"
	case ModalDone:
		return "done"
	default:
		return fmt.Sprintf("modal(%d)", int(s))
	}
}

// ModalSnapshot is a read-only view of the status modal.
type ModalSnapshot struct {
	State     ModalState
	CarrierID int64
	Choice    string
	Error     string
	Success   string
}

// StatusModal is the carrier status update sub-workflow: open pre-filled
// with the current status, choose one status, submit; on success the parent
// is refetched after a delay and the modal closes, on failure it stays open.
type StatusModal struct {
	backend CarrierBackend
	sched   schedule.Scheduler
	delay   time.Duration
	refetch func(ctx context.Context, carrierID int64)
	logger  logx.Logger

	mu   sync.Mutex
	snap ModalSnapshot
	gen  uint64
}

// NewStatusModal creates a closed modal. refetch reloads the parent view.
func NewStatusModal(b CarrierBackend, sched schedule.Scheduler, delay time.Duration, refetch func(context.Context, int64), logger logx.Logger) *StatusModal {
	if sched == nil {
		sched = schedule.Timer{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &StatusModal{backend: b, sched: sched, delay: delay, refetch: refetch, logger: logger}
}

// Open shows the modal for c, pre-filled with its current status.
func (m *StatusModal) Open(c domain.Carrier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	choice := c.Status
	if st := c.State(); st.Valid() {
		choice = st.Label()
	}
	m.snap = ModalSnapshot{State: ModalEditing, CarrierID: c.ID, Choice: choice}
}

// Choose sets the selected status. Any alias of a carrier status is accepted
// and normalized to the label the backend expects; empty clears the choice.
func (m *StatusModal) Choose(status string) error {
	label := ""
	if domain.NormalizeStatus(status) != "" {
		st := domain.ParseCarrierState(status)
		if !st.Valid() {
			return fmt.Errorf("%w: carrier status %q", apperr.ErrInvalid, status)
		}
		label = st.Label()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.State != ModalEditing {
		return fmt.Errorf("choose status in %s: %w", m.snap.State, apperr.ErrState)
	}
	m.snap.Choice = label
	return nil
}

// Submit sends the chosen status.
func (m *StatusModal) Submit(ctx context.Context) error {
	m.mu.Lock()
	switch m.snap.State {
	case ModalSubmitting:
		m.mu.Unlock()
		return fmt.Errorf("submit status: %w", apperr.ErrBusy)
	case ModalEditing:
	default:
		st := m.snap.State
		m.mu.Unlock()
		return fmt.Errorf("submit status in %s: %w", st, apperr.ErrState)
	}
	if m.snap.Choice == "" {
		m.snap.Error = MsgStatusRequired
		m.mu.Unlock()
		return fmt.Errorf("carrier status required: %w", apperr.ErrInvalid)
	}
	m.snap.State = ModalSubmitting
	m.snap.Error = ""
	m.snap.Success = ""
	id, choice, gen := m.snap.CarrierID, m.snap.Choice, m.gen
	m.mu.Unlock()

	res := m.backend.UpdateCarrierStatus(ctx, id, choice)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return fmt.Errorf("submit status: %w", apperr.ErrStale)
	}
	switch res.Outcome() {
	case backend.OutcomeOK:
		m.snap.State = ModalDone
		m.snap.Success = MsgStatusUpdated
		m.logger.Info("carrier status updated", logx.Int64("carrier_id", id), logx.String("status", choice))
		m.sched.After(context.WithoutCancel(ctx), m.delay, func() { m.finish(ctx, gen, id) })
		return nil
	case backend.OutcomeAuthExpired:
		m.gen++
		m.snap = ModalSnapshot{}
		return fmt.Errorf("update carrier %d status: %w", id, res.Err())
	default:
		m.snap.State = ModalEditing
		m.snap.Error = res.Message(MsgStatusUpdateFailed)
		m.logger.Warn("carrier status update failed", logx.Int64("carrier_id", id), logx.Err(res.Err()))
		return apperr.WithMessage(m.snap.Error, fmt.Errorf("update carrier %d status: %w", id, res.Err()))
	}
}

// finish closes the modal unless it was reopened or closed meanwhile; the
// parent is refetched either way.
func (m *StatusModal) finish(ctx context.Context, gen uint64, id int64) {
	m.mu.Lock()
	if gen == m.gen {
		m.gen++
		m.snap = ModalSnapshot{}
	}
	m.mu.Unlock()

	if m.refetch != nil {
		m.refetch(context.WithoutCancel(ctx), id)
	}
}

// Close hides the modal. A response still in flight is dropped.
func (m *StatusModal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.snap = ModalSnapshot{}
}

// Snapshot returns the modal state.
func (m *StatusModal) Snapshot() ModalSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
