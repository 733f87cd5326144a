package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/ayush/movie-collection/backend/docs"
	"github.com/ayush/movie-collection/backend/internal/auth"
	"github.com/ayush/movie-collection/backend/internal/collection"
	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/movie"
	"github.com/ayush/movie-collection/backend/internal/user"
)

type stubCatalog struct{}

func (stubCatalog) Search(_ context.Context, term string, _ int) (*movie.SearchResult, error) {
	return &movie.SearchResult{Items: []movie.Entry{{Title: term}}, Total: 1}, nil
}

type app struct {
	t      *testing.T
	st     *state
	h      http.Handler
	hasher *auth.Hasher
	prefix string
}

func newApp(t *testing.T, prefix string) *app {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", "HS256", 7*24*time.Hour)
	require.NoError(t, err)
	st := newState()
	hasher := auth.NewHasher(bcrypt.MinCost)

	h := NewRouter(Deps{
		Logger:         zerolog.Nop(),
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
		Prefix:         prefix,
		Auth:           auth.NewHandler(memUsers{st}, memRoles{st}, hasher, tokens),
		Users:          user.NewHandler(memUsers{st}),
		Collections:    collection.NewHandler(memCollections{st}, memMovies{st}, memUsers{st}),
		Movies:         movie.NewHandler(stubCatalog{}, "Stanley Kubrick"),
	})
	return &app{t: t, st: st, h: h, hasher: hasher, prefix: prefix}
}

type reply struct {
	Code    int
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func (a *app) call(method, path, token, body string) reply {
	a.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, a.prefix+path, rd)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, r)

	var out reply
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	out.Code = rec.Code
	return out
}

func (a *app) signUp(name string) {
	a.t.Helper()
	res := a.call(http.MethodPost, "/auth/sign-up", "", `{"username":"`+name+`","email":"`+name+`@example.com","password":"pw-`+name+`"}`)
	require.Equal(a.t, http.StatusCreated, res.Code, res.Message)
}

func (a *app) signIn(name string) string {
	a.t.Helper()
	res := a.call(http.MethodPost, "/auth/sign-in", "", `{"email":"`+name+`@example.com","password":"pw-`+name+`"}`)
	require.Equal(a.t, http.StatusOK, res.Code, res.Message)
	var data models.LoginResponse
	require.NoError(a.t, json.Unmarshal(res.Data, &data))
	return data.Token
}

func (a *app) admin() string {
	a.t.Helper()
	hashed, err := a.hasher.Hash("Password@123")
	require.NoError(a.t, err)
	require.NoError(a.t, memUsers{a.st}.Create(context.Background(), &models.User{
		Username: "Admin", Email: "admin@example.com", Password: hashed, Role: models.RoleAdmin,
	}))
	res := a.call(http.MethodPost, "/auth/sign-in", "", `{"email":"admin@example.com","password":"Password@123"}`)
	require.Equal(a.t, http.StatusOK, res.Code)
	var data models.LoginResponse
	require.NoError(a.t, json.Unmarshal(res.Data, &data))
	return data.Token
}

func (a *app) createCollection(token, name string) string {
	a.t.Helper()
	res := a.call(http.MethodPost, "/collection", token, `{"name":"`+name+`"}`)
	require.Equal(a.t, http.StatusCreated, res.Code, res.Message)
	var c models.Collection
	require.NoError(a.t, json.Unmarshal(res.Data, &c))
	return c.ID.Hex()
}

func TestSignUpSignInFlow(t *testing.T) {
	a := newApp(t, "")

	res := a.call(http.MethodPost, "/auth/sign-up", "", `{"username":"neo","email":"neo@example.com","password":"pw-neo"}`)
	require.Equal(t, http.StatusCreated, res.Code)
	assert.True(t, res.Success)
	assert.Nil(t, res.Error)
	assert.Contains(t, string(res.Data), `"role":"USER"`)

	res = a.call(http.MethodPost, "/auth/sign-up", "", `{"username":"neo","email":"neo@example.com","password":"pw-neo"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, res.Message, *res.Error)

	token := a.signIn("neo")
	assert.NotEmpty(t, token)

	res = a.call(http.MethodGet, "/auth", token, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Data), `"email":"neo@example.com"`)
	assert.NotContains(t, string(res.Data), "password")
}

func TestGate_Stages(t *testing.T) {
	a := newApp(t, "")
	a.signUp("neo")
	token := a.signIn("neo")

	res := a.call(http.MethodGet, "/collection", "", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Not Authorized & No Token", res.Message)

	res = a.call(http.MethodGet, "/collection", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Not authorized", res.Message)

	res = a.call(http.MethodGet, "/user", token, "")
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "You don't have access", res.Message)

	res = a.call(http.MethodGet, "/user", a.admin(), "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Data), `"totalDocuments":2`)
}

func TestCollections_OwnershipAndSearch(t *testing.T) {
	a := newApp(t, "")
	a.signUp("alice")
	a.signUp("bob")
	alice, bob := a.signIn("alice"), a.signIn("bob")

	id := a.createCollection(alice, "Drama Classics")
	a.createCollection(alice, "Space")

	for _, q := range []string{"drama", "DRAMA"} {
		res := a.call(http.MethodGet, "/collection?search="+q, alice, "")
		require.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, string(res.Data), "Drama Classics")
		assert.NotContains(t, string(res.Data), "Space")
	}
	res := a.call(http.MethodGet, "/collection?search=xyz", alice, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Data), `"items":[]`)

	res = a.call(http.MethodGet, "/collection", bob, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Data), `"totalCollections":0`)

	res = a.call(http.MethodDelete, "/collection/"+id, bob, "")
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = a.call(http.MethodPost, "/collection/"+id+"/movie", alice, `{"movieDetails":{"title":"Barry Lyndon","year":"1975"}}`)
	require.Equal(t, http.StatusCreated, res.Code)

	res = a.call(http.MethodDelete, "/collection/"+id, alice, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, a.st.movies)

	res = a.call(http.MethodDelete, "/collection/"+id, alice, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestMovieSearch(t *testing.T) {
	a := newApp(t, "")
	a.signUp("neo")
	token := a.signIn("neo")

	res := a.call(http.MethodGet, "/movie", token, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Default movies retrieved successfully", res.Message)
	assert.Contains(t, string(res.Data), "Stanley Kubrick")

	res = a.call(http.MethodGet, "/movie", "", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestPrefixAndOperational(t *testing.T) {
	a := newApp(t, "/api")
	a.signUp("neo")

	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"ok","data":null,"error":null}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestCORS_Preflight(t *testing.T) {
	a := newApp(t, "")

	r := httptest.NewRequest(http.MethodOptions, "/collection", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, r)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMe_DeletedUserKeepsValidToken(t *testing.T) {
	a := newApp(t, "")
	a.signUp("neo")
	token := a.signIn("neo")

	a.st.mu.Lock()
	a.st.users = nil
	a.st.mu.Unlock()

	res := a.call(http.MethodGet, "/auth", token, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "User not found", res.Message)
}

func TestPanicBecomes500(t *testing.T) {
	a := newApp(t, "")
	a.signUp("neo")
	token := a.signIn("neo")

	panicky := NewRouter(Deps{
		Logger:      zerolog.Nop(),
		Tokens:      mustTokens(t),
		Auth:        auth.NewHandler(memUsers{a.st}, memRoles{a.st}, a.hasher, mustTokens(t)),
		Users:       user.NewHandler(memUsers{a.st}),
		Collections: collection.NewHandler(nil, nil, memUsers{a.st}),
		Movies:      movie.NewHandler(stubCatalog{}, "x"),
	})

	r := httptest.NewRequest(http.MethodGet, "/collection", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	panicky.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{
		"success": false,
		"message": "Internal server error",
		"data": null,
		"error": "Internal server error"
	}`, rec.Body.String())
}

func TestSwaggerDocs(t *testing.T) {
	a := newApp(t, "/api")

	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/auth/sign-in")
	assert.Contains(t, doc.Paths["/collection/{id}/movie/{movieId}"], "delete")

	rec = httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func mustTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	return m
}
