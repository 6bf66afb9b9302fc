package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TileSize is the world size of one level tile, in units.
	TileSize = 64

	// DefaultDelta is used as frame delta before the first frame is simulated.
	DefaultDelta = 1.0 / 60.0
)
