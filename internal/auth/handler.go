package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/response"
	"github.com/ayush/movie-collection/backend/internal/store"
	"github.com/ayush/movie-collection/backend/internal/validation"
)

// UserStore defines the user persistence the auth handlers need.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// RoleStore looks up seeded roles.
type RoleStore interface {
	FindByName(ctx context.Context, name models.Role) (*models.UserRole, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	roles  RoleStore
	hasher *Hasher
	tokens *TokenManager
}

func NewHandler(users UserStore, roles RoleStore, hasher *Hasher, tokens *TokenManager) *Handler {
	return &Handler{users: users, roles: roles, hasher: hasher, tokens: tokens}
}

// SignUp registers a new account with the USER role.
// @Summary Register an account
// @Description Creates a USER account. The password is limited to 72 bytes.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "New account"
// @Success 201 {object} response.Envelope{data=models.UserView}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/sign-up [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := validation.Bind(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, bodyError(err))
		return
	}
	ctx := r.Context()

	_, err := h.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		response.Fail(w, http.StatusBadRequest, "User already exists")
		return
	case !errors.Is(err, store.ErrNotFound):
		h.internal(w, r, err, "lookup user by email")
		return
	}

	role, err := h.roles.FindByName(ctx, models.RoleUser)
	if errors.Is(err, store.ErrNotFound) {
		response.Fail(w, http.StatusBadRequest, "User role doesn't exist. Please check the user role again.")
		return
	}
	if err != nil {
		h.internal(w, r, err, "lookup user role")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		response.Fail(w, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}
	if err != nil {
		h.internal(w, r, err, "hash password")
		return
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: hashed, Role: role.Name}
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			response.Fail(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.internal(w, r, err, "create user")
		return
	}

	response.OK(w, http.StatusCreated, "User registered successfully.", user.View())
}

// SignIn checks credentials and returns a signed session token.
// @Summary Sign in
// @Description Checks credentials and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/sign-in [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := validation.Bind(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Please fill required fields")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		response.Fail(w, http.StatusBadRequest, "There is no user associated with this email")
		return
	}
	if err != nil {
		h.internal(w, r, err, "lookup user by email")
		return
	}

	ok, err := h.hasher.Verify(req.Password, user.Password)
	if err != nil {
		h.internal(w, r, err, "verify password")
		return
	}
	if !ok {
		response.Fail(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(ClaimsFor(user))
	if err != nil {
		h.internal(w, r, err, "issue token")
		return
	}

	response.OK(w, http.StatusOK, "User login successfully", models.LoginResponse{Token: token, User: user.View()})
}

// Me returns the currently authenticated user.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.UserView}
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/ [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := FromContext(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		response.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internal(w, r, err, "lookup user by id")
		return
	}

	response.OK(w, http.StatusOK, "User retrieved successfully", user.View())
}

// bodyError keeps the generic message for missing or unreadable fields and
// reports any other validation failure as is.
func bodyError(err error) string {
	if errors.Is(err, validation.ErrBadBody) || strings.Contains(err.Error(), " is required") {
		return "Please fill required fields"
	}
	return err.Error()
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, err error, op string) {
	logging.FromRequest(r).Error().Err(err).Str("op", op).Msg("auth request failed")
	response.Fail(w, http.StatusInternalServerError, "Internal server error")
}
