// Package main is the movieapi entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-collection/backend/docs"
	"github.com/ayush/movie-collection/backend/internal/auth"
	"github.com/ayush/movie-collection/backend/internal/collection"
	"github.com/ayush/movie-collection/backend/internal/config"
	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/movie"
	"github.com/ayush/movie-collection/backend/internal/server"
	"github.com/ayush/movie-collection/backend/internal/store"
	"github.com/ayush/movie-collection/backend/internal/user"
)

const (
	appName = "movieapi"
	Version = "1.0.0"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var seedOnStart bool

	serve := func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), seedOnStart)
	}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Movie collection API",
		SilenceUsage: true,
		RunE:         serve,
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  serve,
	}
	for _, c := range []*cobra.Command{cmd, serveCmd} {
		c.Flags().BoolVar(&seedOnStart, "seed", true, "Seed roles and the super admin before serving")
	}
	cmd.AddCommand(serveCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Seed roles and the super admin, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			client, db, err := store.Connect(cmd.Context(), cfg.MongoURI, cfg.MongoDB)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())
			return seed(cmd.Context(), cfg, db, log)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr), nil
}

func seed(ctx context.Context, cfg *config.Config, db *mongo.Database, log zerolog.Logger) error {
	if err := store.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	hasher := auth.NewHasher(cfg.BcryptCost)
	res, err := store.Seed(ctx, store.NewRoleStore(db), store.NewUserStore(db), store.Admin{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, hasher.Hash)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(res.RolesCreated) > 0 {
		log.Info().Interface("roles", res.RolesCreated).Msg("seeded user roles")
	}
	if res.Admin != nil {
		log.Info().Str("email", res.Admin.Email).Msg("seeded super admin")
	}
	return nil
}

func run(ctx context.Context, seedOnStart bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	// ── MongoDB ──────────────────────────────────────────────
	client, db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	if seedOnStart {
		if err := seed(ctx, cfg, db, log); err != nil {
			return err
		}
	} else if err := store.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	users := store.NewUserStore(db)
	roles := store.NewRoleStore(db)
	collections := store.NewCollectionStore(db)
	movies := store.NewMovieStore(db)

	// ── Auth ─────────────────────────────────────────────────
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTTTL)
	if err != nil {
		return err
	}
	hasher := auth.NewHasher(cfg.BcryptCost)

	// ── Catalog client ───────────────────────────────────────
	catalog := movie.NewClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, cfg.OMDbTimeout)

	// ── Router ───────────────────────────────────────────────
	docs.SwaggerInfo.BasePath = cfg.RoutePrefix()
	if docs.SwaggerInfo.BasePath == "" {
		docs.SwaggerInfo.BasePath = "/"
	}
	handler := server.NewRouter(server.Deps{
		Logger:         log,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins(),
		Prefix:         cfg.RoutePrefix(),
		Auth:           auth.NewHandler(users, roles, hasher, tokens),
		Users:          user.NewHandler(users),
		Collections:    collection.NewHandler(collections, movies, users),
		Movies:         movie.NewHandler(catalog, cfg.OMDbDefaultSearch),
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("prefix", cfg.RoutePrefix()).Msg("movieapi listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
