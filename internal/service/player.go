package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/pkg"
)

const maxNameLength = 32

type PlayerService interface {
	Register(ctx context.Context, name, color string) (*entity.Player, error)
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	ResolveColor(ctx context.Context, id string) (entity.Cell, error)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerService struct {
	playerRepo playerRepo
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

func (that *playerService) Register(ctx context.Context, name, color string) (*entity.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be 1 to %d characters", apperror.ErrInvalidArgument, maxNameLength)
	}

	if _, err := entity.ParseColor(color); err != nil {
		return nil, err
	}

	player := &entity.Player{
		ID:    pkg.GeneratePlayerID(),
		Name:  name,
		Color: color,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	return player, nil
}

func (that *playerService) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	existingPlayer, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get player by id: %w", err)
	}

	return existingPlayer, nil
}

// ResolveColor - returns the piece a player's moves leave on the board.
func (that *playerService) ResolveColor(ctx context.Context, id string) (entity.Cell, error) {
	player, err := that.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	piece, err := player.Piece()
	if err != nil {
		return 0, fmt.Errorf("player %s: %w", id, err)
	}

	return piece, nil
}
