package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"logistics-console/internal/config"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/gateway/geo"
	"logistics-console/internal/http/debugserver"
	"logistics-console/internal/http/handlers"
	"logistics-console/internal/http/router"
	"logistics-console/internal/logx"
	"logistics-console/internal/metrics"
	"logistics-console/internal/schedule"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/auth"
	"logistics-console/internal/service/detail"
	"logistics-console/internal/service/listing"
	"logistics-console/internal/service/ordering"
	"logistics-console/internal/session"
	"logistics-console/internal/session/boltstore"
	"logistics-console/internal/shell"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	cfg          *config.Config
	openStorage  func(path string) (session.Storage, func() error, error)
	redisConnect func(context.Context, string, int, time.Duration) (*redis.Client, error)
	registerer   prometheus.Registerer
	scheduler    schedule.Scheduler
	logger       logx.Logger
	logFatalf    func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder for cfg.
func NewContainerBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg:          cfg,
		openStorage:  openBoltStorage,
		redisConnect: connectRedisWithRetry,
		registerer:   prometheus.DefaultRegisterer,
		scheduler:    schedule.Timer{},
		logFatalf:    log.Fatalf,
	}
}

// WithStorage replaces the bbolt session file with s.
func (b *ContainerBuilder) WithStorage(s session.Storage) *ContainerBuilder {
	if s != nil {
		b.openStorage = func(string) (session.Storage, func() error, error) {
			return s, func() error { return nil }, nil
		}
	}
	return b
}

// WithRedisConnect sets the redis connection function
func (b *ContainerBuilder) WithRedisConnect(
	fn func(context.Context, string, int, time.Duration) (*redis.Client, error),
) *ContainerBuilder {
	if fn != nil {
		b.redisConnect = fn
	}
	return b
}

// WithRegisterer sets the registry metrics are registered with.
func (b *ContainerBuilder) WithRegisterer(r prometheus.Registerer) *ContainerBuilder {
	if r != nil {
		b.registerer = r
	}
	return b
}

// WithScheduler sets the scheduler of delayed refetches.
func (b *ContainerBuilder) WithScheduler(s schedule.Scheduler) *ContainerBuilder {
	if s != nil {
		b.scheduler = s
	}
	return b
}

// WithLogger replaces the logger built from the config.
func (b *ContainerBuilder) WithLogger(l logx.Logger) *ContainerBuilder {
	if l != nil {
		b.logger = l
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// Build builds and returns a new dig container.
func (b *ContainerBuilder) Build(ctx context.Context) (*dig.Container, error) {
	return b.build(ctx)
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("core: nil config")
	}
	container := dig.New()

	if err := registerCore(container, ctx, b); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerSession(container, b.openStorage); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := registerGateways(container, b.redisConnect); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

// closers collects the resources to release when the console exits.
type closers struct {
	fns []func() error
}

func (c *closers) add(fn func() error) { c.fns = append(c.fns, fn) }

// closeAll releases resources in reverse order of acquisition.
func (c *closers) closeAll(logger logx.Logger) {
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i](); err != nil {
			logger.Error("resource close error", logx.Err(err))
		}
	}
	c.fns = nil
}

// registerMetrics registers cs, reusing collectors that already exist.
func registerMetrics(r prometheus.Registerer, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return fmt.Errorf("register metric: %w", err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, b *ContainerBuilder) error {
	logger := b.logger
	return provideAll(container,
		func() context.Context { return ctx },
		func() *config.Config { return b.cfg },
		func(cfg *config.Config) (logx.Logger, error) {
			if logger != nil {
				return logger, nil
			}
			return NewLogger(cfg.Log)
		},
		func() prometheus.Registerer { return b.registerer },
		func() schedule.Scheduler { return b.scheduler },
		func() *closers { return &closers{} },
	)
}

func openBoltStorage(path string) (session.Storage, func() error, error) {
	store, err := boltstore.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

type sessionOut struct {
	dig.Out

	Session *session.Session
	Active  func() bool `name:"session_active"`
}

func registerSession(
	container *dig.Container,
	openStorage func(string) (session.Storage, func() error, error),
) error {
	providerSession := func(ctx context.Context, cfg *config.Config, cl *closers, logger logx.Logger) (sessionOut, error) {
		store, closeFn, err := openStorage(cfg.SessionPath)
		if err != nil {
			return sessionOut{}, err
		}
		cl.add(closeFn)
		sess := session.New(store, logger)
		if err := sess.Init(ctx); err != nil {
			return sessionOut{}, fmt.Errorf("restore session: %w", err)
		}
		return sessionOut{Session: sess, Active: sess.Active}, nil
	}
	return provideAll(container,
		providerSession,
		func(logger logx.Logger) *shell.Navigator { return shell.NewNavigator(shell.PathRoot, logger) },
		shell.New,
	)
}

func registerGateways(
	container *dig.Container,
	redisConnect func(context.Context, string, int, time.Duration) (*redis.Client, error),
) error {
	providerBackend := func(
		cfg *config.Config,
		sess *session.Session,
		sh *shell.Shell,
		reg prometheus.Registerer,
		logger logx.Logger,
	) (*backend.Client, error) {
		m := metrics.NewBackend()
		if err := registerMetrics(reg, m.Collectors()...); err != nil {
			return nil, err
		}
		return backend.New(cfg.APIURL,
			backend.WithTimeout(cfg.RequestTimeout),
			backend.WithTokenSource(sess),
			backend.WithAuthExpiredHandler(sh.HandleAuthExpired),
			backend.WithRecorder(m),
			backend.WithLogger(logger),
		)
	}
	providerGeo := func(ctx context.Context, cfg *config.Config, cl *closers, logger logx.Logger) geo.Source {
		var src geo.Source = geo.NewHTTPSource(cfg.Geo.DatasetURL, nil, logger)
		if cfg.Geo.RedisAddr != "" {
			client, err := redisConnect(ctx, cfg.Geo.RedisAddr, 3, 500*time.Millisecond)
			if err != nil {
				// без кэша работаем напрямую с источником
				logger.Warn("location cache disabled", logx.String("addr", cfg.Geo.RedisAddr), logx.Err(err))
			} else {
				cl.add(client.Close)
				src = geo.NewRedisCache(client, src, cfg.Geo.CacheTTL, logger)
			}
		}
		return geo.NewMemo(src)
	}
	return provideAll(container, providerBackend, providerGeo)
}

// viewResetter drops the screen state of a finished session.
type viewResetter struct {
	orders   *listing.Orders
	carriers *listing.Carriers
	details  *detail.Orders
	board    *assignment.Board
	modal    *detail.StatusModal
}

func (r viewResetter) Reset() {
	r.orders.Reset()
	r.carriers.Reset()
	r.board.CloseAll()
	r.details.Invalidate()
	r.modal.Close()
}

func registerServices(container *dig.Container) error {
	providerCarrierList := func(c *backend.Client, sched schedule.Scheduler, cfg *config.Config, logger logx.Logger) *listing.Carriers {
		return listing.NewCarriers(c, sched, cfg.RefreshDelay, logger)
	}
	providerStatusModal := func(
		c *backend.Client,
		sched schedule.Scheduler,
		cfg *config.Config,
		carriers *listing.Carriers,
		details *detail.Carriers,
		logger logx.Logger,
	) *detail.StatusModal {
		refetch := func(ctx context.Context, carrierID int64) {
			if err := carriers.Refresh(ctx); err != nil {
				logger.Debug("carrier list refetch failed", logx.Int64("carrier_id", carrierID), logx.Err(err))
			}
			if _, err := details.Load(ctx, carrierID); err != nil {
				logger.Debug("carrier refetch failed", logx.Int64("carrier_id", carrierID), logx.Err(err))
			}
		}
		return detail.NewStatusModal(c, sched, cfg.RefreshDelay, refetch, logger)
	}
	providerBoard := func(
		c *backend.Client,
		cfg *config.Config,
		sched schedule.Scheduler,
		policy assignment.Policy,
		orders *listing.Orders,
		details *detail.Orders,
		reg prometheus.Registerer,
		logger logx.Logger,
	) (*assignment.Board, error) {
		m := metrics.NewAssignment()
		if err := registerMetrics(reg, m.Submissions); err != nil {
			return nil, err
		}
		refresh := func(ctx context.Context, orderID int64) {
			if _, err := details.Refetch(ctx, orderID); err != nil {
				logger.Warn("order refetch failed", logx.Int64("order_id", orderID), logx.Err(err))
			}
			if err := orders.Refresh(ctx); err != nil {
				logger.Debug("order list refetch failed", logx.Int64("order_id", orderID), logx.Err(err))
			}
		}
		return assignment.NewBoard(func(int64) *assignment.Controller {
			return assignment.New(c,
				assignment.WithPolicy(policy),
				assignment.WithScheduler(sched),
				assignment.WithRefreshDelay(cfg.RefreshDelay),
				assignment.WithRefresh(refresh),
				assignment.WithRecorder(m),
				assignment.WithLogger(logger),
			)
		}), nil
	}
	return provideAll(container,
		func(c *backend.Client, logger logx.Logger) *listing.Orders { return listing.NewOrders(c, nil, logger) },
		providerCarrierList,
		func(c *backend.Client, logger logx.Logger) *detail.Orders { return detail.NewOrders(c, logger) },
		func(c *backend.Client, logger logx.Logger) *detail.Tracking { return detail.NewTracking(c, logger) },
		func(c *backend.Client, logger logx.Logger) *detail.Carriers { return detail.NewCarriers(c, logger) },
		providerStatusModal,
		func(cfg *config.Config) assignment.Policy { return assignment.NewPolicy(cfg.ReassignBlockedStatuses) },
		providerBoard,
		func(c *backend.Client, sess *session.Session, sh *shell.Shell, sched schedule.Scheduler, logger logx.Logger) *auth.Service {
			return auth.New(c, sess, sh, auth.WithScheduler(sched), auth.WithLogger(logger))
		},
		func(c *backend.Client, src geo.Source, sess *session.Session, logger logx.Logger) *ordering.Service {
			return ordering.New(c, src, sess, logger)
		},
		func(o *listing.Orders, c *listing.Carriers, d *detail.Orders, b *assignment.Board, m *detail.StatusModal) handlers.Resetter {
			return viewResetter{orders: o, carriers: c, details: d, board: b, modal: m}
		},
	)
}

type rateLimitCounterOut struct {
	dig.Out

	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      35 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	counterProvider := func(reg prometheus.Registerer) (rateLimitCounterOut, error) {
		c := metrics.NewRateLimitExceededTotal()
		if err := registerMetrics(reg, c); err != nil {
			return rateLimitCounterOut{}, err
		}
		return rateLimitCounterOut{Counter: c}, nil
	}
	dashboardProvider := func(reg prometheus.Registerer) (*metrics.Dashboard, error) {
		m := metrics.NewDashboard()
		if err := registerMetrics(reg, m.Collectors()...); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err := provideAll(container,
		dashboardProvider,
		handlers.New,
		handlers.NewSessionHandler,
		handlers.NewOrderHandler,
		handlers.NewCarrierHandler,
		handlers.NewAssignmentHandler,
		counterProvider,
		newRateLimitClock,
		newRateLimiters,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	); err != nil {
		return err
	}
	return container.Provide(newPprofServer, dig.Name("pprof_server"))
}

// newPprofServer returns nil when profiling is disabled.
func newPprofServer(cfg *config.Config, reg prometheus.Registerer, board *assignment.Board) *http.Server {
	if !cfg.Pprof.Enabled {
		return nil
	}
	metrics := promhttp.Handler()
	if g, ok := reg.(prometheus.Gatherer); ok {
		metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return &http.Server{
		Addr: cfg.Pprof.Addr,
		Handler: debugserver.Handler(debugserver.Config{
			User:      cfg.Pprof.User,
			Pass:      cfg.Pprof.Pass,
			Metrics:   metrics,
			Workflows: board.Workflows,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
