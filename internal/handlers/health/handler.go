package health

import (
	"context"
	"net/http"
	"slotwise/infras/otel"
	"slotwise/shared/constant"
	"slotwise/transport/http/response"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

type ServerState int32

const (
	ServerStateStarting ServerState = iota
	ServerStateReady
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

func (s ServerState) String() string {
	switch s {
	case ServerStateReady:
		return "ready"
	case ServerStateInGracePeriod:
		return "grace"
	case ServerStateInCleanupPeriod:
		return "cleanup"
	default:
		return "starting"
	}
}

// State is the lifecycle phase of the server, shared between the server and
// the health endpoint.
type State struct {
	value atomic.Int32
}

func NewState() *State {
	return &State{}
}

func (s *State) Set(state ServerState) {
	s.value.Store(int32(state))
}

func (s *State) Get() ServerState {
	return ServerState(s.value.Load())
}

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	State string `json:"state" example:"ready"`
	Store string `json:"store" example:"ok"`
}

type Handler struct {
	state *State
	store Pinger
	otel  otel.Otel
}

func New(state *State, store Pinger, otel otel.Otel) Handler {
	return Handler{
		state: state,
		store: store,
		otel:  otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/healthz", handler.Health)
}

// Health reports the server state and whether the store is reachable.
// @Summary Health check
// @Description 200 while ready, 503 while starting, draining or when the store does not answer.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[health.Response]
// @Failure 503 {object} response.Message
// @Router /healthz [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	state := handler.state.Get()
	scope.SetAttribute("server.state", state.String())

	switch state {
	case ServerStateReady:
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)

		return
	default:
		response.WithUnhealthy(w)

		return
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := handler.store.Ping(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("store ping failed")

		response.WithUnhealthy(w)

		return
	}

	response.WithJSON(w, http.StatusOK, Response{State: state.String(), Store: "ok"})
}
