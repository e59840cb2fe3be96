package assignment_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/schedule"
	"logistics-console/internal/service/assignment"
)

var (
	pendingOrder = domain.Order{ID: 42, Status: "Pendiente"}
	testRoutes   = []domain.Route{{ID: 1, Name: "Bogotá - Cali"}, {ID: 2, Name: "Cali - Pasto"}}
	testCarriers = []domain.Carrier{{ID: 7, Name: "Pedro", Status: "Disponible"}}
)

func rejected[T any](status int, msg string) backend.Result[T] {
	return backend.Fail[T](&backend.Failure{Kind: backend.KindRejected, Status: status, Message: msg})
}

func expired[T any]() backend.Result[T] {
	return backend.Fail[T](&backend.Failure{Kind: backend.KindAuthExpired, Status: http.StatusUnauthorized, Message: backend.AuthExpiredMessage, Err: apperr.ErrUnauthenticated})
}

func expectOptions(b *MockBackend) {
	b.EXPECT().ListRoutes(gomock.Any()).Return(backend.Ok(testRoutes)).Times(1)
	b.EXPECT().ListCarriers(gomock.Any()).Return(backend.Ok(testCarriers)).Times(1)
}

func TestController_GuardBlocksInTransit(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	c := assignment.New(b)

	for _, status := range []string{"En tránsito", "EN TRÁNSITO", "en tránsito"} {
		o := domain.Order{ID: 1, Status: status}
		require.False(t, c.Offer(o), status)
		require.ErrorIs(t, c.Open(context.Background(), o), apperr.ErrGuarded)
	}
	require.Equal(t, assignment.StateIdle, c.State())

	require.True(t, c.Offer(domain.Order{Status: "Entregado"}))
	require.True(t, c.Offer(domain.Order{Status: "Cancelado"}))
}

func TestPolicy_Configurable(t *testing.T) {
	p := assignment.NewPolicy([]string{"En tránsito", "entregado", "Cancelado", "Retenido"})

	require.False(t, p.Allows(domain.Order{Status: "en transito"}))
	require.False(t, p.Allows(domain.Order{Status: "Entregada"}))
	require.False(t, p.Allows(domain.Order{Status: "cancelado"}))
	require.False(t, p.Allows(domain.Order{Status: "RETENIDO"}))
	require.True(t, p.Allows(domain.Order{Status: "Pendiente"}))
	require.Equal(t, "cancelled,delivered,in_transit,retenido", p.String())

	require.True(t, assignment.NewPolicy(nil).Allows(domain.Order{Status: "En tránsito"}))
}

func TestController_OpenLoadsOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	expectOptions(b)

	c := assignment.New(b)
	require.NoError(t, c.Open(context.Background(), pendingOrder))

	snap := c.Snapshot()
	require.Equal(t, assignment.StateAwaitingSelection, snap.State)
	require.Equal(t, testRoutes, snap.Routes)
	require.Equal(t, testCarriers, snap.Carriers)
	require.Empty(t, snap.Selection.RouteID)
	require.Empty(t, snap.Selection.CarrierID)

	require.ErrorIs(t, c.Open(context.Background(), pendingOrder), apperr.ErrState)
}

func TestController_OpenToleratesOneListFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	b.EXPECT().ListRoutes(gomock.Any()).Return(rejected[[]domain.Route](http.StatusInternalServerError, ""))
	b.EXPECT().ListCarriers(gomock.Any()).Return(backend.Ok(testCarriers))

	c := assignment.New(b)
	require.NoError(t, c.Open(context.Background(), pendingOrder))

	snap := c.Snapshot()
	require.Equal(t, assignment.StateAwaitingSelection, snap.State)
	require.Empty(t, snap.Routes)
	require.Equal(t, assignment.MsgRoutesUnavailable, snap.RoutesError)
	require.Empty(t, snap.CarriersError)
	require.Equal(t, testCarriers, snap.Carriers)
}

func TestController_OpenAuthExpiredReturnsToIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	b.EXPECT().ListRoutes(gomock.Any()).Return(expired[[]domain.Route]())
	b.EXPECT().ListCarriers(gomock.Any()).Return(backend.Ok(testCarriers))

	c := assignment.New(b)
	err := c.Open(context.Background(), pendingOrder)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
	require.Equal(t, assignment.StateIdle, c.State())
}

func TestController_SubmitWithoutSelectionSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	expectOptions(b)
	b.EXPECT().AssignManually(gomock.Any(), gomock.Any()).Times(0)

	c := assignment.New(b)
	require.NoError(t, c.Open(context.Background(), pendingOrder))

	for _, sel := range []assignment.Selection{{}, {RouteID: "1"}, {CarrierID: "7"}, {RouteID: " ", CarrierID: "7"}} {
		require.NoError(t, c.Select(sel))
		err := c.Submit(context.Background())
		require.ErrorIs(t, err, apperr.ErrInvalid)
		snap := c.Snapshot()
		require.Equal(t, assignment.StateAwaitingSelection, snap.State)
		require.Equal(t, assignment.MsgSelectionRequired, snap.Error)
	}
}

func TestController_SubmitSuccessRefreshesAfterDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	rec := NewMockRecorder(ctrl)
	expectOptions(b)
	b.EXPECT().
		AssignManually(gomock.Any(), domain.Assignment{OrderID: 42, RouteID: 2, CarrierID: 7}).
		Return(backend.Ok(backend.Ack{Message: "ok"}))
	rec.EXPECT().Submitted("success")

	sched := &schedule.Manual{}
	var refreshed []int64
	c := assignment.New(b,
		assignment.WithScheduler(sched),
		assignment.WithRecorder(rec),
		assignment.WithRefresh(func(_ context.Context, id int64) { refreshed = append(refreshed, id) }),
	)

	require.NoError(t, c.Open(context.Background(), pendingOrder))
	require.NoError(t, c.Select(assignment.Selection{RouteID: "2", CarrierID: "7"}))
	require.NoError(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	require.Equal(t, assignment.StateSuccess, snap.State)
	require.Equal(t, assignment.MsgAssigned, snap.Success)
	require.Equal(t, []time.Duration{assignment.DefaultRefreshDelay}, sched.Pending())
	require.Empty(t, refreshed)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, c.AwaitRefresh(ctx), context.DeadlineExceeded)

	require.Equal(t, 1, sched.Fire())
	require.Equal(t, []int64{42}, refreshed)
	require.Equal(t, assignment.StateIdle, c.State())
	require.NoError(t, c.AwaitRefresh(context.Background()))
}

func TestController_AwaitRefreshWithoutSubmission(t *testing.T) {
	c := assignment.New(NewMockBackend(gomock.NewController(t)))
	require.NoError(t, c.AwaitRefresh(context.Background()))
}

func TestController_FailureThenRetryWithoutRefetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	rec := NewMockRecorder(ctrl)
	expectOptions(b)

	want := domain.Assignment{OrderID: 42, RouteID: 1, CarrierID: 7}
	gomock.InOrder(
		b.EXPECT().AssignManually(gomock.Any(), want).
			Return(rejected[backend.Ack](http.StatusConflict, "El transportista no está disponible")),
		b.EXPECT().AssignManually(gomock.Any(), want).
			Return(rejected[backend.Ack](http.StatusInternalServerError, "")),
		b.EXPECT().AssignManually(gomock.Any(), want).
			Return(backend.Ok(backend.Ack{})),
	)
	rec.EXPECT().Submitted("failed").Times(2)
	rec.EXPECT().Submitted("success")

	c := assignment.New(b, assignment.WithScheduler(&schedule.Manual{}), assignment.WithRecorder(rec))
	require.NoError(t, c.Open(context.Background(), pendingOrder))
	require.NoError(t, c.Select(assignment.Selection{RouteID: "1", CarrierID: "7"}))

	require.Error(t, c.Submit(context.Background()))
	snap := c.Snapshot()
	require.Equal(t, assignment.StateFailed, snap.State)
	require.Equal(t, "El transportista no está disponible", snap.Error)
	require.Equal(t, testRoutes, snap.Routes)

	require.NoError(t, c.Dismiss())
	snap = c.Snapshot()
	require.Equal(t, assignment.StateAwaitingSelection, snap.State)
	require.Empty(t, snap.Error)
	require.Equal(t, assignment.Selection{RouteID: "1", CarrierID: "7"}, snap.Selection)

	require.Error(t, c.Submit(context.Background()))
	require.Equal(t, assignment.MsgAssignFailed, c.Snapshot().Error)

	// retry straight from Failed
	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, assignment.StateSuccess, c.State())
	require.ErrorIs(t, c.Dismiss(), apperr.ErrState)
}

func TestController_DuplicateSubmitIsBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	expectOptions(b)

	entered := make(chan struct{})
	release := make(chan struct{})
	b.EXPECT().AssignManually(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Assignment) backend.Result[backend.Ack] {
			close(entered)
			<-release
			return backend.Ok(backend.Ack{})
		}).Times(1)

	c := assignment.New(b, assignment.WithScheduler(&schedule.Manual{}))
	require.NoError(t, c.Open(context.Background(), pendingOrder))
	require.NoError(t, c.Select(assignment.Selection{RouteID: "1", CarrierID: "7"}))

	errc := make(chan error, 1)
	go func() { errc <- c.Submit(context.Background()) }()
	<-entered

	require.Equal(t, assignment.StateSubmitting, c.State())
	require.ErrorIs(t, c.Submit(context.Background()), apperr.ErrBusy)
	require.ErrorIs(t, c.Select(assignment.Selection{RouteID: "2", CarrierID: "7"}), apperr.ErrState)

	close(release)
	require.NoError(t, <-errc)
}

func TestController_CloseDiscardsInFlightAndPendingRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	expectOptions(b)

	entered := make(chan struct{})
	release := make(chan struct{})
	b.EXPECT().AssignManually(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Assignment) backend.Result[backend.Ack] {
			close(entered)
			<-release
			return backend.Ok(backend.Ack{})
		})

	sched := &schedule.Manual{}
	refreshed := false
	c := assignment.New(b,
		assignment.WithScheduler(sched),
		assignment.WithRefresh(func(context.Context, int64) { refreshed = true }),
	)
	require.NoError(t, c.Open(context.Background(), pendingOrder))
	require.NoError(t, c.Select(assignment.Selection{RouteID: "1", CarrierID: "7"}))

	errc := make(chan error, 1)
	go func() { errc <- c.Submit(context.Background()) }()
	<-entered
	c.Close()
	close(release)

	require.ErrorIs(t, <-errc, apperr.ErrStale)
	require.Equal(t, assignment.StateIdle, c.State())
	require.Empty(t, sched.Pending())
	require.False(t, refreshed)
}

func TestController_CloseAfterSuccessStillRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	expectOptions(b)
	b.EXPECT().AssignManually(gomock.Any(), gomock.Any()).Return(backend.Ok(backend.Ack{}))

	sched := &schedule.Manual{}
	refreshed := false
	c := assignment.New(b,
		assignment.WithScheduler(sched),
		assignment.WithRefresh(func(context.Context, int64) { refreshed = true }),
	)
	require.NoError(t, c.Open(context.Background(), pendingOrder))
	require.NoError(t, c.Select(assignment.Selection{RouteID: "1", CarrierID: "7"}))
	require.NoError(t, c.Submit(context.Background()))

	c.Close()
	require.Equal(t, assignment.StateIdle, c.State())
	sched.Fire()
	require.True(t, refreshed)
	require.Equal(t, assignment.StateIdle, c.State())
}

func TestController_SubmitAuthExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	rec := NewMockRecorder(ctrl)
	expectOptions(b)
	b.EXPECT().AssignManually(gomock.Any(), gomock.Any()).Return(expired[backend.Ack]())
	rec.EXPECT().Submitted("auth_expired")

	c := assignment.New(b, assignment.WithRecorder(rec))
	require.NoError(t, c.Open(context.Background(), pendingOrder))
	require.NoError(t, c.Select(assignment.Selection{RouteID: "1", CarrierID: "7"}))

	require.ErrorIs(t, c.Submit(context.Background()), apperr.ErrUnauthenticated)
	require.Equal(t, assignment.StateIdle, c.State())
}
