package listing

import (
	"context"
	"time"

	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
)

// MsgOrdersUnavailable is shown when the order list cannot be fetched.
const MsgOrdersUnavailable = "No se pudieron cargar las órdenes."

// OrderSource lists orders.
type OrderSource interface {
	ListOrders(ctx context.Context) backend.Result[[]domain.Order]
}

// Orders is the order list view.
type Orders struct {
	*ListView[domain.Order]
	now func() time.Time
}

// NewOrders creates the order list view. A nil now uses time.Now.
func NewOrders(src OrderSource, now func() time.Time, logger logx.Logger) *Orders {
	if now == nil {
		now = time.Now
	}
	return &Orders{
		ListView: NewListView[domain.Order]("orders", MsgOrdersUnavailable, src.ListOrders, logger),
		now:      now,
	}
}

// Query returns the current page of orders matching f. Date buckets are
// evaluated at call time.
func (o *Orders) Query(f OrderFilter) Page[domain.Order] {
	now := o.now()
	return o.View(func(ord domain.Order) bool { return f.Match(ord, now) })
}

// QueryPage is Query with an explicit page and size.
func (o *Orders) QueryPage(f OrderFilter, page, size int) Page[domain.Order] {
	now := o.now()
	return o.Slice(func(ord domain.Order) bool { return f.Match(ord, now) }, page, size)
}
