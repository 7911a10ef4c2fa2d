package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type playerService interface {
	Register(ctx context.Context, name, color string) (*entity.Player, error)
	ResolveColor(ctx context.Context, id string) (entity.Cell, error)
}

type sessionService interface {
	Create(ctx context.Context, playerID string) (*entity.Session, error)
	FindWaiting(ctx context.Context) (*entity.Session, error)
	Join(ctx context.Context, sessionID, playerID string) (*entity.Session, error)
}

type gamePlayService interface {
	FetchSnapshot(ctx context.Context, sessionID string) (*entity.Session, error)
	SubmitMove(ctx context.Context, sessionID, userID string, column int) (*entity.Session, error)
}

type Server struct {
	logger *slog.Logger

	players  playerService
	sessions sessionService
	gameplay gamePlayService
}

func New(logger *slog.Logger, players playerService, sessions sessionService, gameplay gamePlayService) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		players:  players,
		sessions: sessions,
		gameplay: gameplay,
	}
}

// Handler - builds the HTTP routes of the game API.
func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ping", that.pingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/players", that.registerPlayer)
		r.Get("/players/{id}/color", that.playerColor)

		r.Post("/sessions", that.createSession)
		r.Get("/sessions/waiting", that.findWaitingSession)
		r.Get("/sessions/{id}", that.fetchSnapshot)
		r.Post("/sessions/{id}/join", that.joinSession)
		r.Post("/sessions/{id}/moves", that.submitMove)
	})

	return r
}

// Start - serves the API until ctx is canceled, then shuts the server down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
