// api/cmd/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/account-service/internal/bootstrap"
	"github.com/baechuer/account-service/internal/logger"
)

// drainTimeout bounds how long in-flight account requests may finish after a stop signal.
const drainTimeout = 15 * time.Second

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type stdServer struct{ *http.Server }

func (s stdServer) Addr() string { return s.Server.Addr }

// serverBuilder returns the wired account API and the cleanup that releases
// its store.
type serverBuilder func() (httpServer, func(), error)

// Run serves the account API until a stop signal or a listener failure and
// returns the process exit code: 0 after a signal, 1 otherwise.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	failed := serve(srv, lg)

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("stopping account api")
	case err := <-failed:
		lg.Error().Err(err).Msg("listener failed")
		return 1
	}

	drain(srv, lg)
	return 0
}

// serve starts the listener; the channel yields only unexpected failures.
func serve(srv httpServer, lg zerolog.Logger) <-chan error {
	failed := make(chan error, 1)
	go func() {
		lg.Info().
			Str("service", logger.ServiceName).
			Str("addr", srv.Addr()).
			Msg("account api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()
	return failed
}

// drain lets in-flight requests finish, then force-closes what is left.
func drain(srv httpServer, lg zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	start := time.Now()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("drain incomplete; closing connections")
		_ = srv.Close()
	}
	lg.Info().Dur("took", time.Since(start)).Msg("account api stopped")
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(func() (httpServer, func(), error) {
		srv, cleanup, err := bootstrap.NewServer()
		if err != nil {
			return nil, nil, err
		}
		return stdServer{srv}, cleanup, nil
	}, sigCh, zlog.Logger))
}
