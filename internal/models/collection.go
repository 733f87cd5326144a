package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is a named, user-owned list of movies.
type Collection struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty" swaggertype:"string"`
	Name      string             `json:"name"      bson:"name"`
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy" swaggertype:"string"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Movie is the catalog snapshot stored when a movie is attached.
type Movie struct {
	Title  string `json:"title"  bson:"title"  validate:"required"`
	Year   string `json:"year"   bson:"year"   validate:"required"`
	IMDbID string `json:"imdbID" bson:"imdbID"`
	Type   string `json:"type"   bson:"type"`
	Poster string `json:"poster" bson:"poster"`
}

// CollectionMovie is a movie attached to a collection.
type CollectionMovie struct {
	ID                 primitive.ObjectID `json:"id"                 bson:"_id,omitempty" swaggertype:"string"`
	Movie              Movie              `json:"movie"              bson:"movie"`
	AddedBy            primitive.ObjectID `json:"addedBy"            bson:"addedBy" swaggertype:"string"`
	AttachedCollection primitive.ObjectID `json:"attachedCollection" bson:"attachedCollection" swaggertype:"string"`
	CreatedAt          time.Time          `json:"createdAt"          bson:"createdAt"`
}

// CreateCollectionRequest is the JSON body for POST /collection.
type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddMovieRequest is the JSON body for POST /collection/{id}/movie.
type AddMovieRequest struct {
	MovieDetails *Movie `json:"movieDetails" validate:"required"`
}
