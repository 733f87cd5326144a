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

// MovieStore handles movies attached to collections.
type MovieStore struct {
	col *mongo.Collection
}

func NewMovieStore(db *mongo.Database) *MovieStore {
	return &MovieStore{col: db.Collection(CollectionMoviesCollection)}
}

// Add attaches movie to collectionID on behalf of userID.
func (s *MovieStore) Add(ctx context.Context, collectionID, userID string, movie models.Movie) (*models.CollectionMovie, error) {
	coll, err := objectID(collectionID)
	if err != nil {
		return nil, err
	}
	user, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	m := &models.CollectionMovie{
		Movie:              movie,
		AddedBy:            user,
		AttachedCollection: coll,
		CreatedAt:          time.Now(),
	}
	res, err := s.col.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("mongo insert movie: %w", err)
	}
	m.ID = insertedID(res)
	return m, nil
}

func ownedBy(collectionID, userID string) (bson.M, error) {
	coll, err := objectID(collectionID)
	if err != nil {
		return nil, err
	}
	user, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return bson.M{"attachedCollection": coll, "addedBy": user}, nil
}

// List returns one page of the movies userID attached to collectionID,
// newest first, optionally filtered by title, and the count of all matches.
func (s *MovieStore) List(ctx context.Context, collectionID, userID string, p pagination.Params) ([]models.CollectionMovie, int64, error) {
	base, err := ownedBy(collectionID, userID)
	if err != nil {
		return nil, 0, err
	}
	filter := pagination.Filter(base, p.Search, "movie.title")

	cur, err := s.col.Find(ctx, filter, p.FindOptions(newestFirst))
	if err != nil {
		return nil, 0, fmt.Errorf("mongo list movies: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.CollectionMovie
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("mongo decode movies: %w", err)
	}
	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo count movies: %w", err)
	}
	return out, total, nil
}

// Remove deletes one attached movie; it must belong to collectionID and
// userID, else ErrNotFound.
func (s *MovieStore) Remove(ctx context.Context, collectionID, userID, movieID string) error {
	filter, err := ownedBy(collectionID, userID)
	if err != nil {
		return err
	}
	oid, err := objectID(movieID)
	if err != nil {
		return err
	}
	filter["_id"] = oid

	res, err := s.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveAll deletes every movie attached to collectionID.
func (s *MovieStore) RemoveAll(ctx context.Context, collectionID string) (int64, error) {
	coll, err := objectID(collectionID)
	if err != nil {
		return 0, err
	}
	res, err := s.col.DeleteMany(ctx, bson.M{"attachedCollection": coll})
	if err != nil {
		return 0, fmt.Errorf("mongo delete collection movies: %w", err)
	}
	return res.DeletedCount, nil
}
