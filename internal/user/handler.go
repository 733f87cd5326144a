// Package user serves the admin-only user management endpoints.
package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/pagination"
	"github.com/ayush/movie-collection/backend/internal/response"
	"github.com/ayush/movie-collection/backend/internal/store"
)

// Store defines the user persistence the admin endpoints need.
type Store interface {
	List(ctx context.Context, q store.UserQuery) ([]models.User, int64, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// Handler holds user management HTTP handlers.
type Handler struct {
	users Store
}

func NewHandler(users Store) *Handler {
	return &Handler{users: users}
}

// List returns one page of users. Unknown sortBy values fall back to
// createdAt and any sortOrder other than desc is ascending.
// @Summary List users
// @Description Admin only. Search matches username, email or role.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param take query int false "Page size (alias pageSize)" default(10)
// @Param search query string false "Username, email or role fragment"
// @Param sortBy query string false "Sort field" Enums(username, email, role, createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /user/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := pagination.Parse(q)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid page or size values")
		return
	}

	query := store.UserQuery{Params: p, SortBy: q.Get("sortBy"), Desc: q.Get("sortOrder") == "desc"}
	users, total, err := h.users.List(r.Context(), query)
	if err != nil {
		logging.FromRequest(r).Error().Err(err).Msg("list users")
		response.Fail(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	msg := "Users retrieved successfully"
	if len(users) == 0 {
		msg = "No users found"
	}
	response.OK(w, http.StatusOK, msg, pagination.NewPage(users, pagination.DocumentInfo(p, total)))
}

// Get returns a single user.
// @Summary Get a user
// @Description Admin only.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope{data=models.UserView}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /user/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "get user")
		return
	}
	response.OK(w, http.StatusOK, "User retrieved successfully", u.View())
}

// Delete removes a user account.
// @Summary Delete a user
// @Description Admin only.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /user/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "delete user")
		return
	}
	response.OK(w, http.StatusOK, "User account deleted successfully", nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		response.Fail(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrNotFound):
		response.Fail(w, http.StatusNotFound, "There is no user associated with this id")
	default:
		logging.FromRequest(r).Error().Err(err).Msg(op)
		response.Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}
