package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/askloop/forum/config"
	"github.com/askloop/forum/internal/db"
	"github.com/askloop/forum/internal/handlers"
	"github.com/askloop/forum/internal/logger"
	"github.com/askloop/forum/internal/render"
	"github.com/askloop/forum/internal/services"
	"github.com/askloop/forum/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	log        zerolog.Logger
}

// New constructs a Server: database, repositories, services, handlers and
// router, wired together with the shared middleware stack.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	log := logger.New("server")

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New()
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	questionRepo := store.NewQuestionRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)

	userService := services.NewUserService(userRepo)
	questionService := services.NewQuestionService(questionRepo)
	commentService := services.NewCommentService(commentRepo)

	sessions := handlers.NewSessions(userService, cfg.Session)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logger.RequestLogger(log),
		middleware.Timeout(60*time.Second),
		sessions.CurrentUser,
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, userService, sessions, renderer, log)
	handlers.ForumRouter(router, questionService, commentService, renderer, log)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
