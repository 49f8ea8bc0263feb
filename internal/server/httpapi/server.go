package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dunkey/dunkey-server/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wraps an http.Server around the API routes.
type Server struct {
	address string
	api     *API
	logger  logging.Logger
}

func NewServer(address string, api *API, logger logging.Logger) *Server {
	return &Server{
		address: address,
		api:     api,
		logger:  logger.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.api.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
