package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/repository/memory"
	"github.com/rocketscienceinc/connectfive-backend/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessionRepo := memory.NewSessionRepository()
	players := service.NewPlayerService(memory.NewPlayerRepository())
	sessions := service.NewSessionService(logger, players, sessionRepo, service.BoardSize{Rows: entity.DefaultRows, Columns: entity.DefaultColumns})
	gameplay := service.NewGamePlayService(logger, players, sessionRepo, service.GamePlayOptions{})

	srv := httptest.NewServer(New(logger, players, sessions, gameplay).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, dst any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}

	return resp.StatusCode
}

func TestServer_Ping(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Game(t *testing.T) {
	// Given: two registered players
	srv := newTestServer(t)

	var alice, bob entity.Player
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/players", registerPlayerRequest{Name: "alice", Color: "X"}, &alice))
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/players", registerPlayerRequest{Name: "bob", Color: "O"}, &bob))

	var color colorResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/players/"+alice.ID+"/color", nil, &color))
	assert.Equal(t, "X", color.Color)

	// When: alice creates a session and bob finds and joins it
	var created, waiting, joined entity.Session
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/sessions", playerRequest{PlayerID: alice.ID}, &created))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/sessions/waiting", nil, &waiting))
	assert.Equal(t, created.ID, waiting.ID)
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/join", playerRequest{PlayerID: bob.ID}, &joined))
	assert.Equal(t, bob.ID, joined.Player2ID)

	// And: alice drops five pieces into column 6
	var moved entity.Session
	for range 5 {
		require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/moves", moveRequest{PlayerID: alice.ID, Column: 6}, &moved))
	}

	// Then: the snapshot should show alice as the winner
	var snapshot entity.Session
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/sessions/"+created.ID, nil, &snapshot))
	assert.True(t, snapshot.Winner)
	assert.Equal(t, alice.ID, snapshot.LastMoverID)
	assert.Equal(t, moved, snapshot)

	// And: another move is a conflict
	var errResp ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/moves", moveRequest{PlayerID: bob.ID, Column: 1}, &errResp))
	assert.Equal(t, CodeGameFinished, errResp.Code)
}

func TestServer_Errors(t *testing.T) {
	srv := newTestServer(t)

	var alice, bob entity.Player
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/players", registerPlayerRequest{Name: "alice", Color: "X"}, &alice))
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/players", registerPlayerRequest{Name: "bob", Color: "O"}, &bob))

	var session entity.Session
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/sessions", playerRequest{PlayerID: alice.ID}, &session))

	// column 2 is filled with alternating pieces, so the game is still running
	for row := range entity.DefaultRows {
		mover := alice.ID
		if row%2 == 1 {
			mover = bob.ID
		}
		require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/moves", moveRequest{PlayerID: mover, Column: 2}, nil))
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/api/sessions/missing", nil, http.StatusNotFound, CodeNotFound},
		{"unknown player color", http.MethodGet, "/api/players/missing/color", nil, http.StatusNotFound, CodeNotFound},
		{"invalid color", http.MethodPost, "/api/players", registerPlayerRequest{Name: "bob", Color: "--"}, http.StatusBadRequest, CodeInvalidArgument},
		{"invalid column", http.MethodPost, "/api/sessions/" + session.ID + "/moves", moveRequest{PlayerID: alice.ID, Column: 0}, http.StatusUnprocessableEntity, CodeInvalidColumn},
		{"full column", http.MethodPost, "/api/sessions/" + session.ID + "/moves", moveRequest{PlayerID: alice.ID, Column: 2}, http.StatusUnprocessableEntity, CodeColumnFull},
		{"malformed body", http.MethodPost, "/api/sessions", "not an object", http.StatusBadRequest, CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp ErrorResponse
			assert.Equal(t, tt.status, call(t, srv, tt.method, tt.path, tt.body, &errResp))
			assert.Equal(t, tt.code, errResp.Code)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("failed to make move: %w", apperror.ErrColumnFull), CodeColumnFull},
		{fmt.Errorf("get: %w", apperror.ErrNotFound), CodeNotFound},
		{apperror.ErrNotYourTurn, CodeNotYourTurn},
		{apperror.ErrSessionFull, CodeSessionFull},
		{errors.Join(apperror.ErrPersistence, apperror.ErrVersionConflict), CodePersistenceFailure},
		{errors.New("boom"), CodePersistenceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			code := CodeOf(tt.err)

			assert.Equal(t, tt.code, code)
			assert.NotZero(t, statusByCode[code])
		})
	}
}

func TestErrorOf(t *testing.T) {
	assert.ErrorIs(t, ErrorOf(CodeColumnFull), apperror.ErrColumnFull)
	assert.ErrorIs(t, ErrorOf(CodeInvalidColumn), apperror.ErrInvalidColumn)
	assert.ErrorIs(t, ErrorOf(CodePersistenceFailure), apperror.ErrPersistence)
	assert.ErrorIs(t, ErrorOf("something new"), apperror.ErrPersistence)
}
