// Package routing implements the core.RoutePlanner port against the external
// route-planning service over HTTP.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

const defaultTimeout = 5 * time.Second

// Config captures the subset of planner behaviour we need.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Client calls the route planner's shortest-path endpoint. The planner is
// fallible: callers must treat every error as "no usable route" and fail
// closed rather than fabricate a path.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient builds a planner client from a validated config.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("routing base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse routing base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		client:  hc,
		logger:  logger.With("component", "routing_client"),
	}, nil
}

// routeResponse is the planner's wire format.
type routeResponse struct {
	Points []struct {
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		ElapsedMS int64   `json:"elapsed_ms"`
		NodeID    *string `json:"node_id,omitempty"`
	} `json:"points"`
	DurationMS int64   `json:"duration_ms"`
	DistanceM  float64 `json:"distance_m"`
}

// ShortestPath implements core.RoutePlanner. A 404 from the planner means no
// path exists within its search radius and maps to a no_route error; transport
// failures and 5xx responses map to upstream.
func (c *Client) ShortestPath(ctx context.Context, origin, dest geo.Coordinate) (*model.Route, error) {
	if !origin.Valid() || !dest.Valid() {
		return nil, apperrors.Validationf("route endpoints out of range")
	}

	q := url.Values{}
	q.Set("from_lat", formatCoord(origin.Lat))
	q.Set("from_lon", formatCoord(origin.Lon))
	q.Set("to_lat", formatCoord(dest.Lat))
	q.Set("to_lon", formatCoord(dest.Lon))
	endpoint := c.baseURL + "/route?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create route request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Timeoutf("route planner timed out")
		}
		if errors.Is(err, context.Canceled) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeCanceled, "route request canceled")
		}
		return nil, apperrors.Upstreamf("route planner unreachable: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperrors.NoRoutef("no route from %s to %s", origin, dest)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "route planner error response",
			"status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return nil, apperrors.Upstreamf("route planner returned %s", resp.Status)
	}

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.Upstreamf("decode route response: %v", err)
	}
	if len(decoded.Points) == 0 {
		return nil, apperrors.NoRoutef("planner returned empty route from %s to %s", origin, dest)
	}

	route := &model.Route{
		Origin:          origin,
		Destination:     dest,
		Points:          make([]model.PathPoint, 0, len(decoded.Points)),
		TotalDurationMS: decoded.DurationMS,
		TotalDistanceM:  decoded.DistanceM,
	}
	for _, p := range decoded.Points {
		route.Points = append(route.Points, model.PathPoint{
			Lat:       p.Lat,
			Lon:       p.Lon,
			ElapsedMS: p.ElapsedMS,
			NodeID:    p.NodeID,
		})
	}
	return route, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ core.RoutePlanner = (*Client)(nil)
