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

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// CollectionStore handles collection documents.
type CollectionStore struct {
	col *mongo.Collection
}

func NewCollectionStore(db *mongo.Database) *CollectionStore {
	return &CollectionStore{col: db.Collection(CollectionsCollection)}
}

// Create inserts a collection named name owned by ownerID.
func (s *CollectionStore) Create(ctx context.Context, name, ownerID string) (*models.Collection, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	c := &models.Collection{Name: name, CreatedBy: owner, CreatedAt: time.Now()}
	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("mongo insert collection: %w", err)
	}
	c.ID = insertedID(res)
	return c, nil
}

func (s *CollectionStore) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var c models.Collection
	if err := findOne(ctx, s.col, bson.M{"_id": oid}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns one page of the owner's collections, newest first,
// optionally filtered by name, and the count of all matches.
func (s *CollectionStore) ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]models.Collection, int64, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, 0, err
	}
	filter := pagination.Filter(bson.M{"createdBy": owner}, p.Search, "name")

	cur, err := s.col.Find(ctx, filter, p.FindOptions(newestFirst))
	if err != nil {
		return nil, 0, fmt.Errorf("mongo list collections: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Collection
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("mongo decode collections: %w", err)
	}
	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo count collections: %w", err)
	}
	return out, total, nil
}

// Delete removes the collection document only; attached movies are removed
// separately by the caller.
func (s *CollectionStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete collection: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
