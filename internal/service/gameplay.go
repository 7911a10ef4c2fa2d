package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/connectfive"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
)

// GamePlayService serves the two operations clients poll and play through.
type GamePlayService interface {
	FetchSnapshot(ctx context.Context, sessionID string) (*entity.Session, error)
	SubmitMove(ctx context.Context, sessionID, userID string, column int) (*entity.Session, error)
}

type GamePlayOptions struct {
	// EnforceTurns rejects moves from players outside the session and repeated moves by the last mover.
	EnforceTurns bool
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	sessionRepo   sessionRepo
	opts          GamePlayOptions
}

func NewGamePlayService(logger *slog.Logger, playerService PlayerService, sessionRepo sessionRepo, opts GamePlayOptions) GamePlayService {
	return &gamePlayService{
		logger:        logger.With("component", "gamePlayService"),
		playerService: playerService,
		sessionRepo:   sessionRepo,
		opts:          opts,
	}
}

func (that *gamePlayService) FetchSnapshot(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}

	return session, nil
}

// SubmitMove - drops the player's piece into a 1-based column. The read of the board, the move and the write
// of the new board happen as one update of the session, so concurrent submissions never lose a move.
func (that *gamePlayService) SubmitMove(ctx context.Context, sessionID, userID string, column int) (*entity.Session, error) {
	log := that.logger.With("method", "SubmitMove", "sessionID", sessionID, "userID", userID, "column", column)

	color, err := that.playerService.ResolveColor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player color: %w", err)
	}

	session, err := that.sessionRepo.Update(ctx, sessionID, func(session *entity.Session) error {
		return that.applyMove(session, userID, column, color)
	})
	if err != nil {
		log.Info("move rejected", "error", err)
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	log.Info("move applied", "winner", session.Winner, "ended", session.Ended, "version", session.Version)

	return session, nil
}

func (that *gamePlayService) applyMove(session *entity.Session, userID string, column int, color entity.Cell) error {
	if session.Ended {
		return apperror.ErrGameFinished
	}

	if that.opts.EnforceTurns {
		if !session.HasPlayer(userID) {
			return fmt.Errorf("%w: player %s is not in session %s", apperror.ErrInvalidArgument, userID, session.ID)
		}

		if session.HasLastMover() && session.LastMoverID == userID {
			return apperror.ErrNotYourTurn
		}
	}

	grid, err := session.Grid()
	if err != nil {
		return fmt.Errorf("session %s: %w", session.ID, err)
	}

	next, err := connectfive.ApplyMove(grid, column, color)
	if err != nil {
		return err
	}

	session.Board = entity.EncodeBoard(next)
	session.LastMoverID = userID
	session.LastMoverColor = string(color)
	session.Winner = connectfive.IsWinner(next)
	session.Ended = session.Winner || connectfive.IsFull(next)

	return nil
}
