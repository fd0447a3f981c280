package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type FloorwatchHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	addr            string
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

func NewFloorwatchHttpServer(router *Router, muxRouter *mux.Router, addr string, shutdownTimeout time.Duration, logger *zap.Logger) *FloorwatchHttpServer {
	return &FloorwatchHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.Named("HttpServer"),
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *FloorwatchHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server exiting")
	return nil
}
