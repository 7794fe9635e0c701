package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slotwise/config"
	"slotwise/internal/handlers/health"
	"slotwise/shared/constant"
	"slotwise/transport/http/router"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	State  *health.State
	server *http.Server
	once   sync.Once
	done   chan struct{}
}

func New(cfg *config.Config, r router.Router, state *health.State) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		State:  state,
		done:   make(chan struct{}),
	}
}

// Serve listens until the process receives SIGTERM or SIGINT and the shutdown
// periods have elapsed.
func (h *HTTP) Serve() {
	h.setup()
	h.setupGracefulShutdown()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-h.done
}

// ServeHTTP serves a single request without listening, for serverless entrypoints.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.server.Handler.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		mux := chi.NewRouter()
		h.Router.SetupRoutes(mux)

		h.server = &http.Server{
			Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		}

		h.State.Set(health.ServerStateReady)
	})
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer close(h.done)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
		h.shutdown(0)

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.State.Set(health.ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State.Set(health.ServerStateInCleanupPeriod)

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// shutdown stops accepting connections and waits up to timeout for in-flight
// requests. A zero timeout closes immediately.
func (h *HTTP) shutdown(timeout time.Duration) {
	if timeout <= 0 {
		if err := h.server.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close HTTP server")
		}

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server gracefully")
	}
}
