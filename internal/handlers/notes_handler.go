package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/controlx/backoffice/internal/middleware"
	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type NotesHandler struct {
	svc     *services.NoteService
	feed    *realtime.Feed[map[string]*models.Note]
	timeout time.Duration
	logger  *zap.Logger
}

func NewNotesHandler(svc *services.NoteService, notesFeed *realtime.Feed[map[string]*models.Note], timeout time.Duration, logger *zap.Logger) *NotesHandler {
	return &NotesHandler{svc: svc, feed: notesFeed, timeout: timeout, logger: logger}
}

func (h *NotesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/notes", func(nr chi.Router) {
		nr.Use(middleware.RequireUser)
		nr.Get("/stream", h.stream)
		nr.Group(func(g chi.Router) {
			if h.timeout > 0 {
				g.Use(chimw.Timeout(h.timeout))
			}
			g.Get("/", h.list)
			g.Get("/{date}", h.get)
			g.Put("/{date}", h.put)
		})
	})
}

func (h *NotesHandler) list(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NotesHandler) get(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Get(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type putNoteRequest struct {
	Content string `json:"content"`
}

func (h *NotesHandler) put(w http.ResponseWriter, r *http.Request) {
	var req putNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	note, err := h.svc.Upsert(r.Context(), chi.URLParam(r, "date"), req.Content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// stream sends the full date-keyed note map on attach and after every
// change, as SSE.
func (h *NotesHandler) stream(w http.ResponseWriter, r *http.Request) {
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
			h.logger.Error("failed to marshal note snapshot", zap.Error(err))
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}
