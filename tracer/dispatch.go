package tracer

import (
	"fmt"

	"github.com/achilleasa/skytrace/scene"
)

// GridPolicy controls how the dispatch grid covers surfaces whose dimensions
// are not a multiple of the tile size.
type GridPolicy uint8

const (
	// Round the group count up so every pixel is covered. The kernels skip
	// work items that fall outside the surface.
	GridCeil GridPolicy = iota

	// Truncate the group count; pixels in a partial border tile are not
	// rendered.
	GridTruncate
)

// Parse a grid policy name.
func ParseGridPolicy(name string) (GridPolicy, error) {
	switch name {
	case "ceil":
		return GridCeil, nil
	case "truncate":
		return GridTruncate, nil
	}
	return GridCeil, scene.NewConfigError("grid policy", "expected ceil or truncate; got %q", name)
}

func (p GridPolicy) String() string {
	switch p {
	case GridCeil:
		return "ceil"
	case GridTruncate:
		return "truncate"
	}
	return fmt.Sprintf("GridPolicy(%d)", uint8(p))
}

// Calculate the number of tile groups needed for a surface.
func (p GridPolicy) Groups(width, height uint32) (uint32, uint32, uint32) {
	if p == GridTruncate {
		return width / TileSize, height / TileSize, 1
	}
	return (width + TileSize - 1) / TileSize, (height + TileSize - 1) / TileSize, 1
}
