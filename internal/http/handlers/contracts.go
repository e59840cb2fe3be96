package handlers

import (
	"context"

	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/detail"
	"logistics-console/internal/service/listing"
	"logistics-console/internal/service/ordering"
)

type authUsecase interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
	Register(ctx context.Context, username, password, confirm string) (string, error)
	Logout(ctx context.Context) error
	Whoami() (domain.User, error)
}

type listView interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status() (loaded, loading bool, errMsg string)
}

type orderList interface {
	listView
	QueryPage(f listing.OrderFilter, page, size int) listing.Page[domain.Order]
}

type carrierList interface {
	listView
	QueryPage(f listing.CarrierFilter, page, size int) listing.Page[domain.Carrier]
	Delete(ctx context.Context, id int64) (string, error)
}

type orderDetail interface {
	Load(ctx context.Context, id int64) (detail.OrderView, error)
	Refetched(id int64) (detail.OrderView, bool)
}

type tracking interface {
	Lookup(ctx context.Context, code string) (detail.TrackingView, error)
}

type carrierDetail interface {
	Load(ctx context.Context, id int64) (detail.CarrierView, error)
}

type statusModal interface {
	Open(c domain.Carrier)
	Choose(status string) error
	Submit(ctx context.Context) error
	Snapshot() detail.ModalSnapshot
}

type orderCreator interface {
	Create(ctx context.Context, f ordering.Form) (string, error)
	Departments(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, department string) ([]string, error)
}

type routeSource interface {
	ListRoutes(ctx context.Context) backend.Result[[]domain.Route]
}

type assignmentBoard interface {
	Acquire(orderID int64, create bool) (*assignment.Controller, func(), bool)
	Close(orderID int64)
}
