package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/pagination"
	"github.com/ayush/movie-collection/backend/internal/store"
)

type memStore struct {
	users []models.User
	last  store.UserQuery
	err   error
}

func (m *memStore) List(_ context.Context, q store.UserQuery) ([]models.User, int64, error) {
	m.last = q
	if m.err != nil {
		return nil, 0, m.err
	}
	var out []models.User
	for _, u := range m.users {
		s := strings.ToLower(q.Search)
		if s == "" || strings.Contains(strings.ToLower(u.Username), s) || strings.Contains(strings.ToLower(u.Email), s) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Desc {
			return out[i].Username > out[j].Username
		}
		return out[i].Username < out[j].Username
	})
	total := int64(len(out))
	start := min(int(q.Skip()), len(out))
	end := min(start+q.Take, len(out))
	return out[start:end], total, nil
}

func (m *memStore) find(id string) (int, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return -1, store.ErrInvalidID
	}
	for i, u := range m.users {
		if u.ID.Hex() == id {
			return i, nil
		}
	}
	return -1, store.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.User, error) {
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	u := m.users[i]
	return &u, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.users = append(m.users[:i], m.users[i+1:]...)
	return nil
}

type listBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Items    []map[string]interface{} `json:"items"`
		PageInfo map[string]interface{}   `json:"pageInfo"`
	} `json:"data"`
}

func router(s Store) http.Handler {
	h := NewHandler(s)
	r := chi.NewRouter()
	r.Get("/user", h.List)
	r.Get("/user/{id}", h.Get)
	r.Delete("/user/{id}", h.Delete)
	return r
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func seeded() *memStore {
	m := &memStore{}
	for _, name := range []string{"carol", "alice", "bob"} {
		m.users = append(m.users, models.User{ID: primitive.NewObjectID(), Username: name, Email: name + "@example.com", Password: "hash", Role: models.RoleUser})
	}
	return m
}

func TestList(t *testing.T) {
	s := seeded()
	rec := do(router(s), http.MethodGet, "/user?page=1&take=2&sortBy=username&sortOrder=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Users retrieved successfully", body.Message)
	require.Len(t, body.Data.Items, 2)
	assert.Equal(t, "carol", body.Data.Items[0]["username"])
	assert.NotContains(t, body.Data.Items[0], "password")
	assert.EqualValues(t, 3, body.Data.PageInfo["totalDocuments"])
	assert.EqualValues(t, 2, body.Data.PageInfo["totalPages"])

	assert.Equal(t, "username", s.last.SortBy)
	assert.True(t, s.last.Desc)
}

func TestList_Empty(t *testing.T) {
	rec := do(router(seeded()), http.MethodGet, "/user?search=zzz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No users found", body.Message)
	assert.NotNil(t, body.Data.Items)
	assert.Empty(t, body.Data.Items)
}

func TestList_BadPaging(t *testing.T) {
	for _, q := range []string{"page=0", "take=-1", "page=abc", "page=3&take=9223372036854775807"} {
		rec := do(router(seeded()), http.MethodGet, "/user?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestList_StoreError(t *testing.T) {
	rec := do(router(&memStore{err: errors.New("boom")}), http.MethodGet, "/user")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestList_DefaultSortOrder(t *testing.T) {
	s := seeded()
	do(router(s), http.MethodGet, "/user?sortOrder=sideways")
	assert.False(t, s.last.Desc)
	assert.Equal(t, pagination.DefaultTake, s.last.Take)
}

func TestGetAndDelete(t *testing.T) {
	s := seeded()
	id := s.users[0].ID.Hex()
	h := router(s)

	rec := do(h, http.MethodGet, "/user/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"carol"`)

	rec = do(h, http.MethodDelete, "/user/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"User account deleted successfully","data":null,"error":null}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/user/"+id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "There is no user associated with this id")

	rec = do(h, http.MethodDelete, "/user/"+id)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/user/not-an-id")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid id")
}
