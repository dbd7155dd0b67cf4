package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Server is an HTTP server named in the logs by the role it plays.
type Server struct {
	Name string
	*http.Server
}

// ListenAndServe runs the servers until ctx is done. Each server is then given
// shutdownTimeout to finish its in-flight requests before being closed.
func ListenAndServe(ctx context.Context, shutdownTimeout time.Duration, servers ...Server) {
	go func() {
		<-ctx.Done()

		for _, s := range servers {
			shutdown(s, shutdownTimeout)
		}
	}()

	var wg sync.WaitGroup

	for _, s := range servers {
		wg.Add(1)

		go func(s Server) {
			defer wg.Done()

			logs.WithTag("server", s.Name).
				WithTag("addr", s.Addr).
				Info("starting server")

			switch err := s.ListenAndServe(); err {
			case nil, http.ErrServerClosed, context.Canceled:
				logs.WithTag("server", s.Name).
					WithTag("addr", s.Addr).
					Info("stopping server")

			default:
				logs.Warn(errors.New("server stopped").
					WithTag("server", s.Name).
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}(s)
	}

	wg.Wait()
}

func shutdown(s Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logs.Warn(errors.New("shutting down the server failed").
			WithTag("server", s.Name).
			WithTag("addr", s.Addr).
			WithTag("timeout", timeout).
			Wrap(err))

		// Hijacked feed connections are not tracked by Shutdown.
		s.Close()
	}
}

// MetricsPathFormatter returns an empty string for the requests that should
// not be labeled by path: redirects, client errors on unknown routes and
// websocket upgrades, whose duration is the lifetime of the feed connection.
func MetricsPathFormatter(statusCode int, path string) string {
	if statusCode == http.StatusSwitchingProtocols ||
		statusCode == http.StatusMovedPermanently ||
		statusCode == http.StatusBadRequest ||
		statusCode == http.StatusNotFound ||
		statusCode == http.StatusMethodNotAllowed {
		return ""
	}

	return path
}
