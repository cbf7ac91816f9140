package handlers

import (
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

// Options carries everything the router needs wired in.
type Options struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Events     *services.EventService
	Notes      *services.NoteService
	EventsFeed *realtime.Feed[[]*models.Event]
	NotesFeed  *realtime.Feed[map[string]*models.Note]
	PageSize   int
	// FetchTimeout bounds non-streaming requests; zero disables the limit.
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.AuthContext(opts.Auth, opts.Users))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	NewAuthHandler(opts.Auth, opts.Logger).RegisterRoutes(r)
	NewEventsHandler(opts.Events, opts.EventsFeed, opts.PageSize, opts.FetchTimeout, opts.Logger).RegisterRoutes(r)
	NewUsersHandler(opts.Users, opts.Logger).RegisterRoutes(r)
	NewNotesHandler(opts.Notes, opts.NotesFeed, opts.FetchTimeout, opts.Logger).RegisterRoutes(r)

	return r
}
