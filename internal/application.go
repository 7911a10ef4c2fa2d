package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/connectfive-backend/internal/config"
	"github.com/rocketscienceinc/connectfive-backend/internal/repository"
	"github.com/rocketscienceinc/connectfive-backend/internal/repository/memory"
	"github.com/rocketscienceinc/connectfive-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfive-backend/internal/service"
	"github.com/rocketscienceinc/connectfive-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type repositories struct {
	players  repository.PlayerRepository
	sessions repository.SessionRepository
	close    func()
}

// RunApp - runs the game server until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, log, conf)
	if err != nil {
		return err
	}
	defer repos.close()

	playerService := service.NewPlayerService(repos.players)
	sessionService := service.NewSessionService(logger, playerService, repos.sessions, service.BoardSize{
		Rows:    conf.Game.Rows,
		Columns: conf.Game.Columns,
	})
	gamePlayService := service.NewGamePlayService(logger, playerService, repos.sessions, service.GamePlayOptions{
		EnforceTurns: conf.Game.EnforceTurns,
	})

	server := rest.New(logger, playerService, sessionService, gamePlayService)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newRepositories(ctx context.Context, log *slog.Logger, conf *config.Config) (*repositories, error) {
	if conf.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, state is lost on restart")

		return &repositories{
			players:  memory.NewPlayerRepository(),
			sessions: memory.NewSessionRepository(),
			close:    func() {},
		}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
		Addr:     redisAddrString,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return &repositories{
		players:  repository.NewPlayerRepository(redisStorage.Connection),
		sessions: repository.NewSessionRepository(redisStorage.Connection, conf.Game.MaxUpdateAttempts),
		close: func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		},
	}, nil
}
