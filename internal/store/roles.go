package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-collection/backend/internal/models"
)

// RoleStore handles the userroles table.
type RoleStore struct {
	col *mongo.Collection
}

func NewRoleStore(db *mongo.Database) *RoleStore {
	return &RoleStore{col: db.Collection(RolesCollection)}
}

func (s *RoleStore) FindByName(ctx context.Context, name models.Role) (*models.UserRole, error) {
	var r models.UserRole
	if err := findOne(ctx, s.col, bson.M{"name": name}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RoleStore) Create(ctx context.Context, name models.Role) (*models.UserRole, error) {
	r := &models.UserRole{Name: name, CreatedAt: time.Now()}
	res, err := s.col.InsertOne(ctx, r)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("mongo insert role: %w", err)
	}
	r.ID = insertedID(res)
	return r, nil
}

func (s *RoleStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
