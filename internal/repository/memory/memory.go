// Package memory keeps players and sessions in process memory. It follows the redis repositories'
// contract and is used when the server runs without redis and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]entity.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		players: make(map[string]entity.Player),
	}
}

func (that *PlayerRepository) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = *player

	return nil
}

func (that *PlayerRepository) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[id]
	if !ok {
		return nil, fmt.Errorf("player %w", apperror.ErrNotFound)
	}

	return &player, nil
}

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	waiting  []string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

func (that *SessionRepository) Create(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[session.ID]; ok {
		return fmt.Errorf("%w: session %s already exists", apperror.ErrPersistence, session.ID)
	}

	that.sessions[session.ID] = session.Clone()
	if session.IsWaiting() {
		that.waiting = append(that.waiting, session.ID)
	}

	return nil
}

func (that *SessionRepository) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %w: %s", apperror.ErrNotFound, id)
	}

	return session.Clone(), nil
}

// FindWaiting - returns the most recently created session that still lacks a second player.
func (that *SessionRepository) FindWaiting(_ context.Context) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.waiting) == 0 {
		return nil, fmt.Errorf("waiting session %w", apperror.ErrNotFound)
	}

	return that.sessions[that.waiting[len(that.waiting)-1]].Clone(), nil
}

// Update - applies fn to a copy of the session under the repository lock, so concurrent updates never interleave.
func (that *SessionRepository) Update(_ context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %w: %s", apperror.ErrNotFound, id)
	}

	session := stored.Clone()
	if err := fn(session); err != nil {
		return nil, err
	}

	session.Version++
	that.sessions[id] = session

	if !session.IsWaiting() {
		that.removeWaiting(id)
	}

	return session.Clone(), nil
}

func (that *SessionRepository) removeWaiting(id string) {
	for i, waitingID := range that.waiting {
		if waitingID == id {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			return
		}
	}
}
