package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/controlx/backoffice/internal/middleware"
	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UsersHandler exposes the admin user-management screens' API. Every route
// is admin-only; the role check is enforced here, at the route guard.
type UsersHandler struct {
	svc    *services.UserService
	logger *zap.Logger
}

func NewUsersHandler(svc *services.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, logger: logger}
}

func (h *UsersHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(ur chi.Router) {
		ur.Use(middleware.RequireAdmin)
		ur.Get("/", h.list)
		ur.Post("/", h.create)
		ur.Get("/{userID}", h.get)
		ur.Patch("/{userID}", h.update)
		ur.Delete("/{userID}", h.delete)
	})
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	user, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	user, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
