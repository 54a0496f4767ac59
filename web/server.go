// Package web serves the Yahoo queries as a read-only JSON API. Every
// endpoint answers with the same {data, url, raw} document the CLI prints.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/unrolled/render"

	"github.com/mww/fantasy_query/metrics"
	"github.com/mww/fantasy_query/platforms/yahoo"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	server *http.Server
	logger *slog.Logger
}

func NewServer(addr string, client *yahoo.Client, m *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: getRouter(client, m, newRender(), logger),
		},
		logger: logger,
	}
}

// ListenAndServe blocks until ctx is cancelled or the server fails. On
// cancellation in-flight requests get shutdownTimeout to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("web server is listening", "addr", s.server.Addr)
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newRender() *render.Render {
	return render.New(render.Options{
		IndentJSON: true,
	})
}
