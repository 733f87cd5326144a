package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/pagination"
)

// UserSearchFields are matched by the user list search.
var UserSearchFields = []string{"username", "email", "role"}

// UserSortFields maps sortBy values onto document fields.
var UserSortFields = map[string]string{
	"username":  "username",
	"email":     "email",
	"role":      "role",
	"createdAt": "createdAt",
}

// UserQuery is a page request over all users.
type UserQuery struct {
	pagination.Params
	SortBy string
	Desc   bool
}

// Sort returns the sort document for q, defaulting to createdAt.
func (q UserQuery) Sort() bson.D {
	field, ok := UserSortFields[q.SortBy]
	if !ok {
		field = "createdAt"
	}
	order := 1
	if q.Desc {
		order = -1
	}
	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}
}

// UserStore handles user documents.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(UsersCollection)}
}

// Create inserts u and sets its ID. A taken email yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := s.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("mongo insert user: %w", err)
	}
	u.ID = insertedID(res)
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := findOne(ctx, s.col, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := findOne(ctx, s.col, bson.M{"_id": oid}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns one page of users and the count of all users matching the
// search.
func (s *UserStore) List(ctx context.Context, q UserQuery) ([]models.User, int64, error) {
	filter := pagination.Filter(nil, q.Search, UserSearchFields...)

	cur, err := s.col.Find(ctx, filter, q.FindOptions(q.Sort()).SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, 0, fmt.Errorf("mongo list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("mongo decode users: %w", err)
	}
	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo count users: %w", err)
	}
	return users, total, nil
}

// Delete removes the user with id; a missing user yields ErrNotFound.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored users.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
