package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/controlx/backoffice/internal/feed"
	"github.com/controlx/backoffice/internal/middleware"
	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventsHandler struct {
	svc      *services.EventService
	feed     *realtime.Feed[[]*models.Event]
	pageSize int
	timeout  time.Duration
	logger   *zap.Logger
}

func NewEventsHandler(svc *services.EventService, eventsFeed *realtime.Feed[[]*models.Event], pageSize int, timeout time.Duration, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{svc: svc, feed: eventsFeed, pageSize: pageSize, timeout: timeout, logger: logger}
}

func (h *EventsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/events", func(er chi.Router) {
		er.Use(middleware.RequireUser)
		// The stream stays out of the timeout group: it lives as long as
		// the client keeps the connection open.
		er.Get("/stream", h.stream)
		er.Group(func(g chi.Router) {
			if h.timeout > 0 {
				g.Use(chimw.Timeout(h.timeout))
			}
			g.Get("/", h.list)
			g.Post("/", h.create)
			g.Get("/upcoming", h.upcoming)
			g.Get("/clients", h.clients)
			g.Get("/{eventID}", h.get)
			g.Patch("/{eventID}", h.update)
			g.Patch("/{eventID}/status", h.updateStatus)
			g.Delete("/{eventID}", h.delete)
		})
	})
}

type eventPageResponse struct {
	Events     []*models.Event `json:"events"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

// list serves one page of the filtered listing. The cursor query param is
// the opaque token from the previous page; omit it to start from the
// beginning. Changing filters invalidates any previously issued cursor.
func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.EventFilter{
		Status: q.Get("status"),
		Client: q.Get("client"),
	}

	pageSize := h.pageSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be 1-100"})
			return
		}
		pageSize = n
	}

	page, err := h.svc.ListPaginated(r.Context(), filter, pageSize, q.Get("cursor"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	events := page.Events
	if events == nil {
		events = []*models.Event{}
	}
	writeJSON(w, http.StatusOK, eventPageResponse{
		Events:     events,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// upcoming serves the dashboard view: confirmed or in-setup events starting
// today or later, ascending. Computed over the full collection, not a page.
func (h *EventsHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, feed.Upcoming(events, time.Now()))
}

func (h *EventsHandler) clients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Clients(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if clients == nil {
		clients = []string{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *EventsHandler) create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var in services.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	event, err := h.svc.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	event, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	var patch models.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	event, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type statusRequest struct {
	Estado models.EventStatus `json:"estado"`
}

func (h *EventsHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	event, err := h.svc.UpdateStatus(r.Context(), id, req.Estado)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stream is the snapshot subscription surface: an SSE feed that sends the
// full event list (updated_at descending) on attach and after every change.
// Closing the connection releases the subscription.
func (h *EventsHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.feed.Subscribe(r.Context())
	defer sub.Unsubscribe()

	for snapshot := range sub.C {
		data, err := json.Marshal(snapshot)
		if err != nil {
			h.logger.Error("failed to marshal event snapshot", zap.Error(err))
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}
