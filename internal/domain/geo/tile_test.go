package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileValidate(t *testing.T) {
	tests := []struct {
		name    string
		tile    Tile
		wantErr bool
	}{
		{"valid mid zoom", Tile{X: 4212, Y: 2702, Z: 13}, false},
		{"min zoom", Tile{X: 0, Y: 0, Z: 1}, false},
		{"max zoom", Tile{X: 0, Y: 0, Z: 18}, false},
		{"zoom zero rejected", Tile{X: 0, Y: 0, Z: 0}, true},
		{"zoom nineteen rejected", Tile{X: 0, Y: 0, Z: 19}, true},
		{"negative x", Tile{X: -1, Y: 0, Z: 5}, true},
		{"x beyond grid", Tile{X: 32, Y: 0, Z: 5}, true},
		{"y beyond grid", Tile{X: 0, Y: 32, Z: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tile.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTileBounds(t *testing.T) {
	// Tile covering Utrecht at zoom 13.
	tile := Tile{X: 4212, Y: 2702, Z: 13}
	require.NoError(t, tile.Validate())

	b := tile.Bounds()
	assert.Less(t, b.South, b.North)
	assert.Less(t, b.West, b.East)
	assert.True(t, b.Contains(Coordinate{Lat: 52.0907, Lon: 5.1214}),
		"Utrecht city center should fall inside its zoom-13 tile")
}

func TestTileBoundsWholeWorld(t *testing.T) {
	// The four zoom-1 tiles partition the mercator world.
	nw := Tile{X: 0, Y: 0, Z: 1}.Bounds()
	se := Tile{X: 1, Y: 1, Z: 1}.Bounds()

	assert.InDelta(t, -180, nw.West, 1e-9)
	assert.InDelta(t, 0, nw.East, 1e-9)
	assert.InDelta(t, 0, nw.South, 1e-9)
	assert.InDelta(t, 0, se.North, 1e-9)
	assert.InDelta(t, 180, se.East, 1e-9)
	// mercator latitude limit
	assert.InDelta(t, 85.05112878, nw.North, 1e-6)
}
