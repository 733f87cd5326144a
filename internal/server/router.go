// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ayush/movie-collection/backend/internal/auth"
	"github.com/ayush/movie-collection/backend/internal/collection"
	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/middleware"
	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/movie"
	"github.com/ayush/movie-collection/backend/internal/response"
	"github.com/ayush/movie-collection/backend/internal/user"
)

// Deps are the handlers and settings the router is built from.
type Deps struct {
	Logger         zerolog.Logger
	Tokens         middleware.TokenVerifier
	AllowedOrigins []string
	Prefix         string

	Auth        *auth.Handler
	Users       *user.Handler
	Collections *collection.Handler
	Movies      *movie.Handler
}

// NewRouter wires middleware and routes. Every API route sits under Prefix;
// /health, /metrics and /swagger do not.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, http.StatusOK, "ok", nil)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	authn := middleware.RequireAuth(d.Tokens)
	anyone := middleware.RequireRole(models.RoleAdmin, models.RoleUser)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", d.Auth.SignUp)
			r.Post("/sign-in", d.Auth.SignIn)
			r.With(authn, anyone).Get("/", d.Auth.Me)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Get("/", d.Users.List)
			r.Get("/{id}", d.Users.Get)
			r.Delete("/{id}", d.Users.Delete)
		})

		r.Route("/collection", func(r chi.Router) {
			r.Use(authn, anyone)
			r.Post("/", d.Collections.Create)
			r.Get("/", d.Collections.List)
			r.Get("/{id}", d.Collections.Get)
			r.Delete("/{id}", d.Collections.Delete)
			r.Post("/{id}/movie", d.Collections.AddMovie)
			r.Get("/{id}/movie", d.Collections.ListMovies)
			r.Delete("/{id}/movie/{movieId}", d.Collections.RemoveMovie)
		})

		r.With(authn, anyone).Get("/movie", d.Movies.Search)
	}

	if d.Prefix == "" {
		api(r)
	} else {
		r.Route(d.Prefix, api)
	}
	return r
}
