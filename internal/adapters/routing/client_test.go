package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"
)

var (
	testOrigin = geo.Coordinate{Lat: 52.0907, Lon: 5.1214}
	testDest   = geo.Coordinate{Lat: 52.0936, Lon: 5.1171}
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
}

func TestShortestPathSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route", r.URL.Path)
		assert.Equal(t, "52.0907", r.URL.Query().Get("from_lat"))
		assert.Equal(t, "5.1171", r.URL.Query().Get("to_lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"points": [
				{"lat": 52.0907, "lon": 5.1214, "elapsed_ms": 0, "node_id": "n1"},
				{"lat": 52.0936, "lon": 5.1171, "elapsed_ms": 240000}
			],
			"duration_ms": 240000,
			"distance_m": 3200.5
		}`))
	})

	route, err := c.ShortestPath(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	require.Len(t, route.Points, 2)
	assert.Equal(t, int64(240000), route.TotalDurationMS)
	assert.InDelta(t, 3200.5, route.TotalDistanceM, 1e-9)
	assert.Equal(t, testOrigin, route.Origin)
	assert.Equal(t, testDest, route.Destination)
	require.NotNil(t, route.Points[0].NodeID)
	assert.Equal(t, "n1", *route.Points[0].NodeID)
	assert.Nil(t, route.Points[1].NodeID)
}

func TestShortestPathNoRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no path", http.StatusNotFound)
	})

	_, err := c.ShortestPath(context.Background(), testOrigin, testDest)
	require.Error(t, err)
	assert.True(t, apperrors.IsNoRoute(err))
}

func TestShortestPathEmptyRouteIsNoRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"points": [], "duration_ms": 0, "distance_m": 0}`))
	})

	_, err := c.ShortestPath(context.Background(), testOrigin, testDest)
	require.Error(t, err)
	assert.True(t, apperrors.IsNoRoute(err))
}

func TestShortestPathServerErrorIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ShortestPath(context.Background(), testOrigin, testDest)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestShortestPathMalformedBodyIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"points": [`))
	})

	_, err := c.ShortestPath(context.Background(), testOrigin, testDest)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestShortestPathUnreachableIsUpstream(t *testing.T) {
	c, err := NewClient(Config{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	_, err = c.ShortestPath(context.Background(), testOrigin, testDest)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestShortestPathRejectsInvalidCoordinates(t *testing.T) {
	c := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("planner must not be called for invalid coordinates")
	})

	_, err := c.ShortestPath(context.Background(), geo.Coordinate{Lat: 91, Lon: 0}, testDest)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
