package moveservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const movePath = "/move"

// maxResponseSize bounds the body read from the service; a board is a few dozen bytes.
const maxResponseSize = 1 << 16

type moveRequest struct {
	State []string `json:"state"`
}

type moveResponse struct {
	State []string `json:"state"`
}

// Client asks the external Move Service for the opponent's move.
type Client struct {
	url        string
	httpClient *http.Client
}

// New - creates a client for the service at baseURL. A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		url:        strings.TrimRight(baseURL, "/") + movePath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Move - sends the board and returns the board after the opponent's move.
// Every failure wraps apperror.ErrMoveServiceUnavailable.
func (that *Client) Move(ctx context.Context, board entity.Board) (entity.Board, error) {
	body, err := json.Marshal(moveRequest{State: board.Cells()})
	if err != nil {
		return entity.Board{}, fmt.Errorf("%w: could not marshal board: %w", apperror.ErrMoveServiceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(body))
	if err != nil {
		return entity.Board{}, fmt.Errorf("%w: could not build request: %w", apperror.ErrMoveServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrMoveServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return entity.Board{}, fmt.Errorf("%w: HTTP status %d", apperror.ErrMoveServiceUnavailable, resp.StatusCode)
	}

	var payload moveResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return entity.Board{}, fmt.Errorf("%w: could not decode response: %w", apperror.ErrMoveServiceUnavailable, err)
	}

	next, err := entity.BoardFromCells(payload.State)
	if err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrMoveServiceUnavailable, err)
	}

	return next, nil
}
