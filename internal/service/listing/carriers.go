package listing

import (
	"context"
	"fmt"
	"time"

	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/schedule"
)

// Carrier list messages.
const (
	MsgCarriersUnavailable = "No se pudieron cargar los transportistas."
	MsgCarrierDeleted      = "Transportista eliminado exitosamente."
	MsgCarrierDeleteFailed = "Error al eliminar el transportista."
)

// CarrierSource lists and deletes carriers.
type CarrierSource interface {
	ListCarriers(ctx context.Context) backend.Result[[]domain.Carrier]
	DeleteCarrier(ctx context.Context, id int64) backend.Result[backend.Ack]
}

// Carriers is the carrier list view.
type Carriers struct {
	*ListView[domain.Carrier]
	src    CarrierSource
	sched  schedule.Scheduler
	delay  time.Duration
	logger logx.Logger
}

// NewCarriers creates the carrier list view. After a delete the list is
// refetched once delay has elapsed.
func NewCarriers(src CarrierSource, sched schedule.Scheduler, delay time.Duration, logger logx.Logger) *Carriers {
	if logger == nil {
		logger = logx.Nop()
	}
	if sched == nil {
		sched = schedule.Timer{}
	}
	return &Carriers{
		ListView: NewListView[domain.Carrier]("carriers", MsgCarriersUnavailable, src.ListCarriers, logger),
		src:      src,
		sched:    sched,
		delay:    delay,
		logger:   logger,
	}
}

// Query returns the current page of carriers matching f.
func (c *Carriers) Query(f CarrierFilter) Page[domain.Carrier] {
	return c.View(f.Match)
}

// QueryPage is Query with an explicit page and size.
func (c *Carriers) QueryPage(f CarrierFilter, page, size int) Page[domain.Carrier] {
	return c.Slice(f.Match, page, size)
}

// Delete removes a carrier and schedules a refetch. The returned text is the
// message to show: the confirmation on success, the backend refusal verbatim
// or the fallback on failure.
func (c *Carriers) Delete(ctx context.Context, id int64) (string, error) {
	res := c.src.DeleteCarrier(ctx, id)
	switch res.Outcome() {
	case backend.OutcomeOK:
		c.logger.Info("carrier deleted", logx.Int64("carrier_id", id))
		c.sched.After(context.WithoutCancel(ctx), c.delay, func() {
			if err := c.Refresh(context.Background()); err != nil {
				c.logger.Warn("refetch after delete failed", logx.Err(err))
			}
		})
		return MsgCarrierDeleted, nil
	case backend.OutcomeAuthExpired:
		return "", fmt.Errorf("delete carrier %d: %w", id, res.Err())
	default:
		return res.Message(MsgCarrierDeleteFailed), fmt.Errorf("delete carrier %d: %w", id, res.Err())
	}
}
