package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/common"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("invalid level")

// Level is a side-view tile map. Rows grow downward in the file; world Z
// grows upward, so row 0 is the top of the level. Solid tiles are extruded
// Depth units along world Y.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Depth     float64     `json:"depth,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	SpawnX    int         `json:"spawn_x,omitempty"`
	SpawnY    int         `json:"spawn_y,omitempty"`
	Panels    []Panel     `json:"panels,omitempty"`
}

type LayerMeta struct {
	HasPhysics bool   `json:"has_physics"`
	Color      string `json:"color"`
}

// Panel is a slanted single-sided surface only present in the 3D scene.
type Panel struct {
	Center [3]float64 `json:"center"`
	Normal [3]float64 `json:"normal"`
	U      [3]float64 `json:"u"`
	HalfU  float64    `json:"half_u"`
	HalfV  float64    `json:"half_v"`
}

// Rect is an axis-aligned rectangle in world X/Z.
type Rect struct {
	X0, Z0, X1, Z1 float64
}

func (r Rect) Width() float64 { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Z1 - r.Z0 }

// Load reads a level from levels/ on disk, falling back to the embedded copy.
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean))); err == nil {
		return Parse(data)
	}
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}
	return Parse(data)
}

// LoadFile reads a level from an explicit path.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks dimensions and fills defaults for tile size, depth and
// layer metadata.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("levels: %w: dimensions %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("levels: %w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	if l.SpawnX < 0 || l.SpawnX >= l.Width || l.SpawnY < 0 || l.SpawnY >= l.Height {
		return fmt.Errorf("levels: %w: spawn (%d,%d) outside level", ErrInvalidLevel, l.SpawnX, l.SpawnY)
	}
	if l.TileSize <= 0 {
		l.TileSize = common.TileSize
	}
	if l.Depth <= 0 {
		l.Depth = l.TileSize * 16
	}
	if len(l.LayerMeta) < len(l.Layers) {
		meta := make([]LayerMeta, len(l.Layers))
		copy(meta, l.LayerMeta)
		for i := len(l.LayerMeta); i < len(meta); i++ {
			meta[i] = LayerMeta{HasPhysics: true, Color: "#3c78ff"}
		}
		l.LayerMeta = meta
	}
	return nil
}

// Spawn is the world position of the bottom centre of the spawn tile.
func (l *Level) Spawn() mgl64.Vec3 {
	x := (float64(l.SpawnX) + 0.5) * l.TileSize
	z := float64(l.Height-l.SpawnY-1) * l.TileSize
	return mgl64.Vec3{x, 0, z}
}

// TileRect is the world rectangle covered by tile (x, y).
func (l *Level) TileRect(x, y int) Rect {
	x0 := float64(x) * l.TileSize
	z0 := float64(l.Height-y-1) * l.TileSize
	return Rect{X0: x0, Z0: z0, X1: x0 + l.TileSize, Z1: z0 + l.TileSize}
}

// WorldSize is the level's extent in world units.
func (l *Level) WorldSize() (w, h float64) {
	return float64(l.Width) * l.TileSize, float64(l.Height) * l.TileSize
}

// LayerColor parses a layer's #rrggbb colour; unparsable values are blue.
func (l *Level) LayerColor(i int) color.RGBA {
	if i < 0 || i >= len(l.LayerMeta) {
		return color.RGBA{B: 0xff, A: 0xff}
	}
	return parseHexColor(l.LayerMeta[i].Color)
}

func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x00, 0x00, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func cleanLevelPath(path string) string {
	s := strings.TrimPrefix(filepath.ToSlash(path), "levels/")
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}
