package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/headlights/internal/app"
	"github.com/okian/headlights/internal/domain/model"
)

// EventDependencies defines the interface for event processing dependencies.
type EventDependencies interface {
	FireNamed(ctx context.Context, name, source string) (model.EventType, error)
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleEvent handles GET /event/{name}. The name is a pre-classified event
// type such as "calendar" or "work_home".
func (h *EventsHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	h.fire(w, r, "api.event", r.PathValue("name"))
}

// HandleError handles GET /error.
func (h *EventsHandler) HandleError(w http.ResponseWriter, r *http.Request) {
	h.fire(w, r, "api.error", model.Error.String())
}

func (h *EventsHandler) fire(w http.ResponseWriter, r *http.Request, op, name string) {
	_, err := h.deps.FireNamed(r.Context(), name, Source)
	switch {
	case err == nil:
		writeText(w, http.StatusOK, Accepted)
	case errors.Is(err, service.ErrUnknownEvent):
		writeError(w, http.StatusBadRequest, "unknown_event", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrBusy):
		writeError(w, http.StatusTooManyRequests, "busy", NewKind(op, ErrBackpressure))
	default:
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	}
}
