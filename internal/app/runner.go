package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.uber.org/dig"

	"logistics-console/internal/logx"
	"logistics-console/internal/service/assignment"
)

type serveIn struct {
	dig.In

	Ctx     context.Context
	Logger  logx.Logger
	Server  *http.Server
	Pprof   *http.Server `name:"pprof_server" optional:"true"`
	Board   *assignment.Board
	Closers *closers
}

// MustRun serves the dashboard until the container context is done.
func MustRun(container *dig.Container) {
	if err := Run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

// Run serves the dashboard until the container context is done.
func Run(container *dig.Container) error {
	return container.Invoke(serve)
}

func serve(in serveIn) error {
	defer in.Closers.closeAll(in.Logger)
	defer in.Board.CloseAll()

	errCh := make(chan error, 2)
	if err := startServer(in.Server, in.Logger, "dashboard", errCh); err != nil {
		return err
	}
	if in.Pprof != nil {
		if err := startServer(in.Pprof, in.Logger, "pprof", errCh); err != nil {
			gracefulShutdown(in.Server, in.Logger, time.Second)
			return err
		}
	}

	var runErr error
	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down dashboard")
	case runErr = <-errCh:
		in.Logger.Error("server stopped", logx.Err(runErr))
	}

	gracefulShutdown(in.Server, in.Logger, 15*time.Second)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, in.Logger, 5*time.Second)
	}
	return runErr
}

// startServer binds srv before returning so that a busy port fails fast.
func startServer(srv *http.Server, logger logx.Logger, name string, errCh chan<- error) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s on %s: %w", name, srv.Addr, err)
	}
	go func() {
		logger.Info("server listening", logx.String("server", name), logx.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s: %w", name, err)
		}
	}()
	return nil
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}
