package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(id, playerID string) *entity.Session {
	return entity.NewSession(id, playerID, entity.DefaultRows, entity.DefaultColumns)
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)

		// Given: a created session
		session := newSession("s1", "p1")
		require.NoError(t, sessionRepo.Create(ctx, session))

		// When: GetByID is called
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the stored snapshot should match
		require.NoError(t, err)
		assert.Equal(t, session, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)

		// When: GetByID is called with an unknown ID
		retrieved, err := sessionRepo.GetByID(ctx, "missing")

		// Then: ErrNotFound should be returned
		require.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestSessionRepository_FindWaiting(t *testing.T) {
	t.Run("Returns the most recent waiting session", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)

		// Given: two waiting sessions created one after another
		require.NoError(t, sessionRepo.Create(ctx, newSession("old", "p1")))
		require.NoError(t, st.Storage.ZIncrBy(ctx, waitingSessionsKey, -1000, "old").Err())
		require.NoError(t, sessionRepo.Create(ctx, newSession("new", "p2")))

		// When: finding a waiting session
		found, err := sessionRepo.FindWaiting(ctx)

		// Then: the newest one should be returned
		require.NoError(t, err)
		assert.Equal(t, "new", found.ID)
	})

	t.Run("Joined sessions are no longer waiting", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)

		// Given: a session that gets a second player
		require.NoError(t, sessionRepo.Create(ctx, newSession("s1", "p1")))
		_, err := sessionRepo.Update(ctx, "s1", func(session *entity.Session) error {
			session.Player2ID = "p2"
			return nil
		})
		require.NoError(t, err)

		// When: finding a waiting session
		_, err = sessionRepo.FindWaiting(ctx)

		// Then: none should be found
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestSessionRepository_Update(t *testing.T) {
	t.Run("Applies the change and bumps the version", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)
		require.NoError(t, sessionRepo.Create(ctx, newSession("s1", "p1")))

		// When: updating the last mover
		updated, err := sessionRepo.Update(ctx, "s1", func(session *entity.Session) error {
			session.LastMoverID = "p1"
			return nil
		})

		// Then: the stored session should reflect the change
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.Version)

		stored, err := sessionRepo.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Error from fn aborts the update", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)
		require.NoError(t, sessionRepo.Create(ctx, newSession("s1", "p1")))

		// When: fn fails
		_, err := sessionRepo.Update(ctx, "s1", func(session *entity.Session) error {
			session.LastMoverID = "p1"
			return apperror.ErrColumnFull
		})

		// Then: the error is returned unchanged and nothing is written
		require.ErrorIs(t, err, apperror.ErrColumnFull)

		stored, err := sessionRepo.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, stored.LastMoverID)
		assert.Equal(t, int64(0), stored.Version)
	})

	t.Run("Missing session", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 5)

		_, err := sessionRepo.Update(ctx, "missing", func(*entity.Session) error { return nil })

		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Concurrent updates are not lost", func(t *testing.T) {
		ctx, st := suite.New(t)

		const writers = 10

		sessionRepo := NewSessionRepository(st.Storage, 100)
		require.NoError(t, sessionRepo.Create(ctx, newSession("s1", "p1")))

		// When: several writers increment the version concurrently
		var wg sync.WaitGroup
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := sessionRepo.Update(context.WithoutCancel(ctx), "s1", func(*entity.Session) error { return nil })
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// Then: every write should be counted
		stored, err := sessionRepo.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(writers), stored.Version)
	})
}
