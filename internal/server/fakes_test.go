package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/pagination"
	"github.com/ayush/movie-collection/backend/internal/store"
)

// state is an in-memory stand-in for the document store.
type state struct {
	mu          sync.Mutex
	users       []models.User
	roles       map[models.Role]bool
	collections []models.Collection
	movies      []models.CollectionMovie
}

func newState() *state {
	return &state{roles: map[models.Role]bool{models.RoleAdmin: true, models.RoleUser: true}}
}

func oid(id string) (primitive.ObjectID, error) {
	o, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return o, store.ErrInvalidID
	}
	return o, nil
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](items []T, p pagination.Params) []T {
	start := min(int(p.Skip()), len(items))
	return items[start:min(start+p.Take, len(items))]
}

type memUsers struct{ *state }

func (s memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID, u.CreatedAt = primitive.NewObjectID(), time.Now()
	s.users = append(s.users, *u)
	return nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if _, err := oid(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memUsers) List(_ context.Context, q store.UserQuery) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if contains(u.Username, q.Search) || contains(u.Email, q.Search) || contains(string(u.Role), q.Search) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return window(out, q.Params), int64(len(out)), nil
}

func (s memUsers) Delete(_ context.Context, id string) error {
	if _, err := oid(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID.Hex() == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memRoles struct{ *state }

func (s memRoles) FindByName(_ context.Context, name models.Role) (*models.UserRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.roles[name] {
		return nil, store.ErrNotFound
	}
	return &models.UserRole{Name: name}, nil
}

type memCollections struct{ *state }

func (s memCollections) Create(_ context.Context, name, ownerID string) (*models.Collection, error) {
	owner, err := oid(ownerID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Collection{ID: primitive.NewObjectID(), Name: name, CreatedBy: owner, CreatedAt: time.Now()}
	s.collections = append([]models.Collection{c}, s.collections...)
	return &c, nil
}

func (s memCollections) GetByID(_ context.Context, id string) (*models.Collection, error) {
	if _, err := oid(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c.ID.Hex() == id {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memCollections) ListByOwner(_ context.Context, ownerID string, p pagination.Params) ([]models.Collection, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Collection
	for _, c := range s.collections {
		if c.CreatedBy.Hex() == ownerID && contains(c.Name, p.Search) {
			out = append(out, c)
		}
	}
	return window(out, p), int64(len(out)), nil
}

func (s memCollections) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.collections {
		if c.ID.Hex() == id {
			s.collections = append(s.collections[:i], s.collections[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memMovies struct{ *state }

func (s memMovies) Add(_ context.Context, collectionID, userID string, m models.Movie) (*models.CollectionMovie, error) {
	coll, _ := oid(collectionID)
	user, _ := oid(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := models.CollectionMovie{ID: primitive.NewObjectID(), Movie: m, AddedBy: user, AttachedCollection: coll, CreatedAt: time.Now()}
	s.movies = append([]models.CollectionMovie{cm}, s.movies...)
	return &cm, nil
}

func (s memMovies) List(_ context.Context, collectionID, userID string, p pagination.Params) ([]models.CollectionMovie, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CollectionMovie
	for _, m := range s.movies {
		if m.AttachedCollection.Hex() == collectionID && m.AddedBy.Hex() == userID && contains(m.Movie.Title, p.Search) {
			out = append(out, m)
		}
	}
	return window(out, p), int64(len(out)), nil
}

func (s memMovies) Remove(_ context.Context, collectionID, userID, movieID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.movies {
		if m.ID.Hex() == movieID && m.AttachedCollection.Hex() == collectionID && m.AddedBy.Hex() == userID {
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s memMovies) RemoveAll(_ context.Context, collectionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.CollectionMovie
	for _, m := range s.movies {
		if m.AttachedCollection.Hex() != collectionID {
			kept = append(kept, m)
		}
	}
	n := int64(len(s.movies) - len(kept))
	s.movies = kept
	return n, nil
}
