package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"snippetnav/internal/auth"
	"snippetnav/internal/config"
	"snippetnav/internal/handler"
	"snippetnav/internal/middleware"
	"snippetnav/internal/repository/postgres"
	postgresSnippets "snippetnav/internal/repository/postgres/snippets"
	serviceAuth "snippetnav/internal/service/auth"
	serviceSnippets "snippetnav/internal/service/snippets"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	projectRepo := postgresSnippets.NewProjectRepository(repoConfig)
	folderRepo := postgresSnippets.NewFolderRepository(repoConfig)
	snippetRepo := postgresSnippets.NewSnippetRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(projectRepo)
	treeService := serviceSnippets.NewTreeService(folderRepo, snippetRepo, authorizer, logger)
	contentService := serviceSnippets.NewContentService(snippetRepo, txManager, authorizer, logger)

	logger.Info("services initialized")

	mux := handler.NewRouter(
		handler.NewTreeHandler(treeService, logger),
		handler.NewContentHandler(contentService, logger),
	)

	// Auth: JWKS-backed JWT verification, or a fixed user in dev
	var authMiddleware func(http.Handler) http.Handler
	if cfg.JWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		authMiddleware = middleware.AuthMiddleware(jwtVerifier, logger)
	} else if cfg.Environment == "dev" {
		logger.Warn("JWKS_URL not set: all requests run as the dev user", "user_id", cfg.DevUserID)
		authMiddleware = middleware.DevAuthMiddleware(cfg.DevUserID)
	} else {
		log.Fatalf("JWKS_URL is required outside dev")
	}

	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = authMiddleware(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
