// Package client talks to the game server over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/transport/rest"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New - creates a client for the server at baseURL. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (that *Client) RegisterPlayer(ctx context.Context, name, color string) (*entity.Player, error) {
	var player entity.Player
	body := map[string]string{"name": name, "color": color}

	if err := that.do(ctx, http.MethodPost, "/api/players", body, &player); err != nil {
		return nil, fmt.Errorf("register player: %w", err)
	}

	return &player, nil
}

func (that *Client) ResolvePlayerColor(ctx context.Context, userID string) (entity.Cell, error) {
	var resp struct {
		Color string `json:"color"`
	}

	if err := that.do(ctx, http.MethodGet, "/api/players/"+url.PathEscape(userID)+"/color", nil, &resp); err != nil {
		return 0, fmt.Errorf("resolve player color: %w", err)
	}

	return entity.ParseColor(resp.Color)
}

func (that *Client) CreateSession(ctx context.Context, playerID string) (*entity.Session, error) {
	var session entity.Session
	body := map[string]string{"player_id": playerID}

	if err := that.do(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &session, nil
}

func (that *Client) FindWaitingSession(ctx context.Context) (*entity.Session, error) {
	var session entity.Session

	if err := that.do(ctx, http.MethodGet, "/api/sessions/waiting", nil, &session); err != nil {
		return nil, fmt.Errorf("find waiting session: %w", err)
	}

	return &session, nil
}

func (that *Client) JoinSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error) {
	var session entity.Session
	body := map[string]string{"player_id": playerID}

	if err := that.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/join", body, &session); err != nil {
		return nil, fmt.Errorf("join session: %w", err)
	}

	return &session, nil
}

func (that *Client) FetchSnapshot(ctx context.Context, sessionID string) (*entity.Session, error) {
	var session entity.Session

	if err := that.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	return &session, nil
}

func (that *Client) SubmitMove(ctx context.Context, sessionID, userID string, column int) (*entity.Session, error) {
	var session entity.Session
	body := struct {
		PlayerID string `json:"player_id"`
		Column   int    `json:"column"`
	}{PlayerID: userID, Column: column}

	if err := that.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/moves", body, &session); err != nil {
		return nil, fmt.Errorf("submit move: %w", err)
	}

	return &session, nil
}

// do - performs one API call. Network failures wrap apperror.ErrTransport, API errors map back to their sentinel.
func (that *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %w", apperror.ErrInvalidArgument, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, that.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrTransport, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if err = json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %w", apperror.ErrTransport, err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	var errResp rest.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Code == "" {
		return fmt.Errorf("%w: unexpected status %d", apperror.ErrTransport, resp.StatusCode)
	}

	return fmt.Errorf("%w: %s", rest.ErrorOf(errResp.Code), errResp.Error)
}
