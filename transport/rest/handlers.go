package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
)

type registerPlayerRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type playerRequest struct {
	PlayerID string `json:"player_id"`
}

type moveRequest struct {
	PlayerID string `json:"player_id"`
	Column   int    `json:"column"`
}

type colorResponse struct {
	Color string `json:"color"`
}

func (that *Server) registerPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if !that.decode(w, r, &req) {
		return
	}

	player, err := that.players.Register(r.Context(), req.Name, req.Color)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, player)
}

func (that *Server) playerColor(w http.ResponseWriter, r *http.Request) {
	color, err := that.players.ResolveColor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, colorResponse{Color: string(color)})
}

func (that *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.sessions.Create(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, session)
}

func (that *Server) findWaitingSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.FindWaiting(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Server) joinSession(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.sessions.Join(r.Context(), chi.URLParam(r, "id"), req.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Server) fetchSnapshot(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameplay.FetchSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Server) submitMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.gameplay.SubmitMove(r.Context(), chi.URLParam(r, "id"), req.PlayerID, req.Column)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrInvalidArgument, err))
		return false
	}

	return true
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	code := CodeOf(err)
	status := statusByCode[code]

	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, ErrorResponse{Code: code, Error: err.Error()})
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const (
	CodeNotFound           = "not_found"
	CodeInvalidColumn      = "invalid_column"
	CodeColumnFull         = "column_full"
	CodeNotYourTurn        = "not_your_turn"
	CodeGameFinished       = "game_finished"
	CodeSessionFull        = "session_full"
	CodeInvalidArgument    = "invalid_argument"
	CodePersistenceFailure = "persistence_failure"
)

var codes = []struct {
	err  error
	code string
}{
	{apperror.ErrNotFound, CodeNotFound},
	{apperror.ErrInvalidColumn, CodeInvalidColumn},
	{apperror.ErrColumnFull, CodeColumnFull},
	{apperror.ErrNotYourTurn, CodeNotYourTurn},
	{apperror.ErrGameFinished, CodeGameFinished},
	{apperror.ErrSessionFull, CodeSessionFull},
	{apperror.ErrInvalidArgument, CodeInvalidArgument},
}

var statusByCode = map[string]int{
	CodeNotFound:           http.StatusNotFound,
	CodeInvalidColumn:      http.StatusUnprocessableEntity,
	CodeColumnFull:         http.StatusUnprocessableEntity,
	CodeNotYourTurn:        http.StatusConflict,
	CodeGameFinished:       http.StatusConflict,
	CodeSessionFull:        http.StatusConflict,
	CodeInvalidArgument:    http.StatusBadRequest,
	CodePersistenceFailure: http.StatusInternalServerError,
}

// CodeOf - maps an error to its API code. Anything unrecognized is reported as a persistence failure.
func CodeOf(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodePersistenceFailure
}

// ErrorOf - maps an API code back to its sentinel error.
func ErrorOf(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}

	return apperror.ErrPersistence
}
