package ordering

import (
	"context"
	"fmt"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/gateway/geo"
	"logistics-console/internal/logx"
	"logistics-console/internal/session"
)

// Create order screen messages.
const (
	MsgCreated              = "Orden creada exitosamente"
	MsgCreateFailed         = "No se pudo crear la orden. Inténtalo de nuevo."
	MsgLocationsUnavailable = "Error al cargar los datos de ubicaciones. Por favor, recargue la página o intente más tarde."
)

// Backend submits new orders.
type Backend interface {
	CreateOrder(ctx context.Context, o domain.NewOrder) backend.Result[backend.Ack]
}

// Service backs the create order screen.
type Service struct {
	backend Backend
	geo     geo.Source
	sess    *session.Session
	logger  logx.Logger
}

// New creates the create order service.
func New(b Backend, locations geo.Source, sess *session.Session, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{backend: b, geo: locations, sess: sess, logger: logger}
}

func (s *Service) catalog(ctx context.Context) (geo.Catalog, error) {
	cat, err := s.geo.Load(ctx)
	if err != nil {
		s.logger.Error("load locations", logx.Err(err))
		return geo.Catalog{}, apperr.WithMessage(MsgLocationsUnavailable, err)
	}
	return cat, nil
}

// Departments lists the selectable departments.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.DepartmentNames(), nil
}

// Cities lists the cities of a department.
func (s *Service) Cities(ctx context.Context, department string) ([]string, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	cities, ok := cat.Cities(department)
	if !ok {
		return nil, fmt.Errorf("department %q: %w", department, apperr.ErrNotFound)
	}
	return cities, nil
}

// Create validates the form and submits the order on behalf of the signed-in
// user. Validation errors block the request.
func (s *Service) Create(ctx context.Context, f Form) (string, error) {
	user, ok := s.sess.User()
	if !ok {
		return "", fmt.Errorf("create order: %w", apperr.ErrUnauthenticated)
	}

	cat, err := s.catalog(ctx)
	if err != nil {
		return "", err
	}
	if err := f.Validate(cat).Err(); err != nil {
		return "", err
	}

	res := s.backend.CreateOrder(ctx, f.NewOrder(user.ID))
	if res.AuthExpired() {
		return "", fmt.Errorf("create order: %w", res.Err())
	}
	if !res.OK() {
		s.logger.Warn("create order failed", logx.Err(res.Err()))
		return "", apperr.WithMessage(MsgCreateFailed, fmt.Errorf("create order: %w", res.Err()))
	}

	s.logger.Info("order created", logx.Int64("user_id", user.ID))
	return MsgCreated, nil
}
