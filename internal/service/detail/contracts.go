package detail

import (
	"context"

	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
)

// OrderBackend is what the order detail and tracking views read.
type OrderBackend interface {
	GetOrder(ctx context.Context, id int64) backend.Result[domain.Order]
	GetRoute(ctx context.Context, id int64) backend.Result[domain.Route]
	GetCarrier(ctx context.Context, id int64) backend.Result[domain.Carrier]
	StatusHistory(ctx context.Context, id int64) backend.Result[[]domain.StatusEvent]
	OrderByTracking(ctx context.Context, code string) backend.Result[*domain.Order]
}

// CarrierBackend is what the carrier detail view reads and writes.
type CarrierBackend interface {
	GetCarrier(ctx context.Context, id int64) backend.Result[domain.Carrier]
	CarrierOrders(ctx context.Context, id int64) backend.Result[[]domain.Order]
	UpdateCarrierStatus(ctx context.Context, id int64, status string) backend.Result[backend.Ack]
}
