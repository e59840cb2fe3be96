package app

import (
	"fmt"

	"go.uber.org/dig"

	"logistics-console/internal/config"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/auth"
	"logistics-console/internal/service/detail"
	"logistics-console/internal/service/listing"
	"logistics-console/internal/service/ordering"
	"logistics-console/internal/session"
	"logistics-console/internal/shell"
)

// Console exposes the wired services to command line handlers.
type Console struct {
	dig.In

	Config      *config.Config
	Logger      logx.Logger
	Session     *session.Session
	Shell       *shell.Shell
	Backend     *backend.Client
	Auth        *auth.Service
	Orders      *listing.Orders
	Carriers    *listing.Carriers
	OrderDetail *detail.Orders
	Tracking    *detail.Tracking
	CarrierInfo *detail.Carriers
	StatusModal *detail.StatusModal
	Ordering    *ordering.Service
	Policy      assignment.Policy
	Assignments *assignment.Board
	Closers     *closers
}

// Close releases the session store and caches.
func (c Console) Close() {
	c.Assignments.CloseAll()
	c.Closers.closeAll(c.Logger)
}

// ConsoleFrom resolves the Console from container.
func ConsoleFrom(container *dig.Container) (Console, error) {
	var out Console
	err := container.Invoke(func(c Console) { out = c })
	if err != nil {
		return Console{}, fmt.Errorf("resolve console: %w", err)
	}
	return out, nil
}
