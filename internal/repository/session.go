package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
)

const waitingSessionsKey = "sessions:waiting"

var ErrSessionNotFound = fmt.Errorf("session %w", apperror.ErrNotFound)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	FindWaiting(ctx context.Context) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

type dbSession struct {
	client      *redis.Client
	maxAttempts int
}

// NewSessionRepository - maxAttempts bounds how many times a conflicting Update is recomputed.
func NewSessionRepository(client *redis.Client, maxAttempts int) SessionRepository {
	return &dbSession{
		client:      client,
		maxAttempts: max(1, maxAttempts),
	}
}

func (that *dbSession) Create(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), sessionJSON, 0)

		if session.IsWaiting() {
			pipe.ZAdd(ctx, waitingSessionsKey, redis.Z{
				Score:  float64(time.Now().UnixMilli()),
				Member: session.ID,
			})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create session: %w", apperror.ErrPersistence, err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	return readSession(ctx, that.client, id)
}

// FindWaiting - returns the most recently created session that still lacks a second player.
func (that *dbSession) FindWaiting(ctx context.Context) (*entity.Session, error) {
	ids, err := that.client.ZRevRange(ctx, waitingSessionsKey, 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list waiting sessions: %w", apperror.ErrPersistence, err)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("waiting %w", ErrSessionNotFound)
	}

	return readSession(ctx, that.client, ids[0])
}

// Update - applies fn to the stored session inside an optimistic transaction.
// The key is watched while fn runs; a concurrent write aborts the transaction and
// the read-compute-write cycle starts again from a fresh read.
// An error returned by fn aborts the update and is returned unchanged.
func (that *dbSession) Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	key := sessionKey(id)

	var updated *entity.Session
	txf := func(tx *redis.Tx) error {
		session, err := readSession(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = fn(session); err != nil {
			return err
		}

		session.Version++

		sessionJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, 0)

			if !session.IsWaiting() {
				pipe.ZRem(ctx, waitingSessionsKey, session.ID)
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: failed to write session: %w", apperror.ErrPersistence, err)
		}

		updated = session

		return nil
	}

	for range that.maxAttempts {
		err := that.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("%w: session %s: %w", apperror.ErrPersistence, id, apperror.ErrVersionConflict)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readSession(ctx context.Context, client getter, id string) (*entity.Session, error) {
	response, err := client.Get(ctx, sessionKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to get session: %w", apperror.ErrPersistence, err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
