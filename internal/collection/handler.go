// Package collection serves the owner-scoped collection endpoints and the
// movies attached to them.
package collection

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/movie-collection/backend/internal/auth"
	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/pagination"
	"github.com/ayush/movie-collection/backend/internal/response"
	"github.com/ayush/movie-collection/backend/internal/store"
	"github.com/ayush/movie-collection/backend/internal/validation"
)

// CollectionStore defines the collection persistence the handlers need.
type CollectionStore interface {
	Create(ctx context.Context, name, ownerID string) (*models.Collection, error)
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]models.Collection, int64, error)
	Delete(ctx context.Context, id string) error
}

// MovieStore defines the attached-movie persistence the handlers need.
type MovieStore interface {
	Add(ctx context.Context, collectionID, userID string, movie models.Movie) (*models.CollectionMovie, error)
	List(ctx context.Context, collectionID, userID string, p pagination.Params) ([]models.CollectionMovie, int64, error)
	Remove(ctx context.Context, collectionID, userID, movieID string) error
	RemoveAll(ctx context.Context, collectionID string) (int64, error)
}

// UserLookup confirms the caller still exists.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// errNotOwner is returned by owned when the caller does not own the collection.
var errNotOwner = errors.New("collection owned by another user")

// Handler holds collection HTTP handlers.
type Handler struct {
	collections CollectionStore
	movies      MovieStore
	users       UserLookup
}

func NewHandler(collections CollectionStore, movies MovieStore, users UserLookup) *Handler {
	return &Handler{collections: collections, movies: movies, users: users}
}

// Create makes a new collection owned by the caller.
// @Summary Create a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCollectionRequest true "Collection"
// @Success 201 {object} response.Envelope{data=models.Collection}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/ [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreateCollectionRequest
	if err := validation.Bind(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Please fill required fields")
		return
	}

	ctx := r.Context()
	if _, err := h.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			response.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		h.internal(w, r, err, "Failed to create collection")
		return
	}

	c, err := h.collections.Create(ctx, req.Name, claims.UserID)
	if err != nil {
		h.internal(w, r, err, "Failed to create collection")
		return
	}
	response.OK(w, http.StatusCreated, "Collection created successfully", c)
}

// List returns one page of the caller's collections, newest first.
// @Summary List the caller's collections
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param take query int false "Page size (alias pageSize)" default(10)
// @Param search query string false "Name fragment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	p, err := pagination.Parse(r.URL.Query())
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid page or size values")
		return
	}

	items, total, err := h.collections.ListByOwner(r.Context(), claims.UserID, p)
	if err != nil {
		h.internal(w, r, err, "Failed to retrieve collections")
		return
	}
	msg := "Collections retrieved successfully"
	if len(items) == 0 {
		msg = "No collections found"
	}
	response.OK(w, http.StatusOK, msg, pagination.NewPage(items, pagination.CollectionInfo(p, total)))
}

// Get returns one of the caller's collections.
// @Summary Get a collection
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Success 200 {object} response.Envelope{data=models.Collection}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	c, err := h.owned(r.Context(), id, claims.UserID)
	switch {
	case err == nil:
		response.OK(w, http.StatusOK, "Collection retrieved successfully", c)
	case errors.Is(err, store.ErrInvalidID):
		response.Fail(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrNotFound):
		response.Fail(w, http.StatusNotFound, fmt.Sprintf("No collection found with ID: %s", id))
	case errors.Is(err, errNotOwner):
		response.Fail(w, http.StatusForbidden, "Unauthorized action")
	default:
		h.internal(w, r, err, "Failed to retrieve collection")
	}
}

// Delete removes a collection in two phases: attached movies first, then the
// collection itself. The phases are not atomic; if the second fails the
// movies stay deleted and the empty collection remains.
// @Summary Delete a collection
// @Description Removes the attached movies, then the collection.
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	_, err := h.owned(ctx, id, claims.UserID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrInvalidID):
		response.Fail(w, http.StatusBadRequest, "Invalid id")
		return
	case errors.Is(err, store.ErrNotFound):
		response.Fail(w, http.StatusNotFound, "Collection not found")
		return
	case errors.Is(err, errNotOwner):
		response.Fail(w, http.StatusForbidden, "Unauthorized action")
		return
	default:
		h.internal(w, r, err, "Failed to delete collection")
		return
	}

	removed, err := h.movies.RemoveAll(ctx, id)
	if err != nil {
		h.internal(w, r, err, "Failed to delete collection")
		return
	}
	if err := h.collections.Delete(ctx, id); err != nil {
		logging.FromRequest(r).Error().Err(err).
			Str("collection_id", id).
			Int64("movies_removed", removed).
			Msg("collection delete failed after its movies were removed")
		response.Fail(w, http.StatusInternalServerError, "Failed to delete collection")
		return
	}
	response.OK(w, http.StatusOK, "Collection and associated movies deleted successfully", nil)
}

// AddMovie attaches a movie to one of the caller's collections.
// @Summary Attach a movie
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Param request body models.AddMovieRequest true "Movie"
// @Success 201 {object} response.Envelope{data=models.CollectionMovie}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/{id}/movie [post]
func (h *Handler) AddMovie(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.AddMovieRequest
	if err := validation.Bind(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if !h.checkOwned(w, r, id, claims.UserID) {
		return
	}
	m, err := h.movies.Add(ctx, id, claims.UserID, *req.MovieDetails)
	if err != nil {
		h.internal(w, r, err, "Failed to add movie to collection")
		return
	}
	response.OK(w, http.StatusCreated, "Movie added to collection successfully", m)
}

// ListMovies returns one page of the movies the caller attached to a
// collection, newest first.
// @Summary List attached movies
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Param page query int false "Page number" default(1)
// @Param take query int false "Page size (alias pageSize)" default(10)
// @Param search query string false "Title fragment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/{id}/movie [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	p, err := pagination.Parse(r.URL.Query())
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid page or size values")
		return
	}
	id := chi.URLParam(r, "id")

	if !h.checkOwned(w, r, id, claims.UserID) {
		return
	}
	items, total, err := h.movies.List(r.Context(), id, claims.UserID, p)
	if err != nil {
		h.internal(w, r, err, "Failed to retrieve movies in the collection")
		return
	}
	msg := "Movies retrieved successfully"
	if len(items) == 0 {
		msg = "No movies found"
	}
	response.OK(w, http.StatusOK, msg, pagination.NewPage(items, pagination.CollectionInfo(p, total)))
}

// RemoveMovie detaches one movie from one of the caller's collections.
// @Summary Detach a movie
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Param movieId path string true "Attached movie ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /collection/{id}/movie/{movieId} [delete]
func (h *Handler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if !h.checkOwned(w, r, id, claims.UserID) {
		return
	}
	err := h.movies.Remove(r.Context(), id, claims.UserID, chi.URLParam(r, "movieId"))
	switch {
	case err == nil:
		response.OK(w, http.StatusOK, "Movie deleted from collection successfully", nil)
	case errors.Is(err, store.ErrInvalidID):
		response.Fail(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrNotFound):
		response.Fail(w, http.StatusNotFound, "Movie not found in collection.")
	default:
		h.internal(w, r, err, "Failed to delete movie from collection")
	}
}

// owned loads the collection and checks that userID created it.
func (h *Handler) owned(ctx context.Context, id, userID string) (*models.Collection, error) {
	c, err := h.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy.Hex() != userID {
		return nil, errNotOwner
	}
	return c, nil
}

// checkOwned writes the failure response for the movie endpoints, which do
// not distinguish a missing collection from someone else's.
func (h *Handler) checkOwned(w http.ResponseWriter, r *http.Request, id, userID string) bool {
	_, err := h.owned(r.Context(), id, userID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrInvalidID):
		response.Fail(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNotOwner):
		response.Fail(w, http.StatusNotFound, "Collection not found or unauthorized access.")
	default:
		h.internal(w, r, err, "Failed to retrieve collection")
	}
	return false
}

func caller(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "User is not authenticated")
	}
	return claims, ok
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logging.FromRequest(r).Error().Err(err).Msg(msg)
	response.Fail(w, http.StatusInternalServerError, msg)
}
