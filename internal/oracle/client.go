package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

var (
	ErrUnavailable     = errors.New("oracle is unavailable")
	ErrInvalidResponse = errors.New("oracle returned an invalid response")
)

// Advisor - an external move suggester. Untrusted: callers must validate the
// returned coordinates before playing them, and any error must be recovered
// locally by falling back to the built-in heuristic.
type Advisor interface {
	SuggestMove(ctx context.Context, board entity.Board, player entity.Cell) (entity.Coord, error)
}

type suggestRequest struct {
	Board  string `json:"board"`
	Player int    `json:"player"`
	Size   int    `json:"size"`
}

type suggestResponse struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type httpAdvisor struct {
	logger *slog.Logger
	client *http.Client
	url    string
	apiKey string
}

// NewHTTPAdvisor - an Advisor over a JSON-speaking HTTP endpoint. The
// client-level timeout backstops callers that forget a context deadline.
func NewHTTPAdvisor(logger *slog.Logger, conf config.Oracle) Advisor {
	return &httpAdvisor{
		logger: logger.With("component", "oracle"),
		client: &http.Client{Timeout: conf.Timeout},
		url:    conf.URL,
		apiKey: conf.APIKey,
	}
}

func (that *httpAdvisor) SuggestMove(ctx context.Context, board entity.Board, player entity.Cell) (entity.Coord, error) {
	payload, err := json.Marshal(suggestRequest{
		Board:  gomoku.Encode(board),
		Player: int(player),
		Size:   board.Size(),
	})
	if err != nil {
		return entity.Coord{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(payload))
	if err != nil {
		return entity.Coord{}, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if that.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+that.apiKey)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return entity.Coord{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.Coord{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var suggestion suggestResponse
	if err = json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return entity.Coord{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	that.logger.Debug("oracle suggested a move", "row", suggestion.Row, "col", suggestion.Col)

	return entity.Coord{Row: suggestion.Row, Col: suggestion.Col}, nil
}
