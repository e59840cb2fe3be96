//go:generate mockgen -source=contracts.go -destination=assignment_mocks_test.go -package=assignment_test

package assignment

import (
	"context"

	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
)

// Backend is the subset of the backend client the assignment workflow uses.
type Backend interface {
	ListRoutes(ctx context.Context) backend.Result[[]domain.Route]
	ListCarriers(ctx context.Context) backend.Result[[]domain.Carrier]
	AssignManually(ctx context.Context, a domain.Assignment) backend.Result[backend.Ack]
}

// Recorder counts submissions by result.
type Recorder interface {
	Submitted(result string)
}
