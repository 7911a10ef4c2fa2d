package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/pkg"
)

// SessionService is the matchmaking side of the game: it creates sessions and pairs players into them.
type SessionService interface {
	Create(ctx context.Context, playerID string) (*entity.Session, error)
	FindWaiting(ctx context.Context) (*entity.Session, error)
	Join(ctx context.Context, sessionID, playerID string) (*entity.Session, error)
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	FindWaiting(ctx context.Context) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

type BoardSize struct {
	Rows    int
	Columns int
}

type sessionService struct {
	logger *slog.Logger

	playerService PlayerService
	sessionRepo   sessionRepo
	size          BoardSize
}

func NewSessionService(logger *slog.Logger, playerService PlayerService, sessionRepo sessionRepo, size BoardSize) SessionService {
	return &sessionService{
		logger:        logger.With("component", "sessionService"),
		playerService: playerService,
		sessionRepo:   sessionRepo,
		size:          size,
	}
}

func (that *sessionService) Create(ctx context.Context, playerID string) (*entity.Session, error) {
	if _, err := that.playerService.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	session := entity.NewSession(pkg.GenerateSessionID(), playerID, that.size.Rows, that.size.Columns)

	if err := that.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "playerID", playerID)

	return session, nil
}

func (that *sessionService) FindWaiting(ctx context.Context) (*entity.Session, error) {
	session, err := that.sessionRepo.FindWaiting(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find waiting session: %w", err)
	}

	return session, nil
}

// Join - adds a second player to a session. Joining a session the player is already part of is a no-op.
func (that *sessionService) Join(ctx context.Context, sessionID, playerID string) (*entity.Session, error) {
	if _, err := that.playerService.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	session, err := that.sessionRepo.Update(ctx, sessionID, func(session *entity.Session) error {
		if session.HasPlayer(playerID) {
			return nil
		}

		if !session.IsWaiting() {
			return fmt.Errorf("%w: session %s", apperror.ErrSessionFull, session.ID)
		}

		session.Player2ID = playerID

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	that.logger.Info("player joined session", "sessionID", sessionID, "playerID", playerID)

	return session, nil
}

func (that *sessionService) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session from storage: %w", err)
	}

	return session, nil
}
