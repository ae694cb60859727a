package world

import (
	"fmt"
	"math"
	"math/rand/v2"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/opd-ai/go-tankgame/pkg/physics"
)

// TerrainType is the ground kind of a tile
type TerrainType int

const (
	Grass TerrainType = iota
	Dirt
	Stone
)

func (t TerrainType) String() string {
	switch t {
	case Grass:
		return "grass"
	case Dirt:
		return "dirt"
	case Stone:
		return "stone"
	default:
		return "unknown"
	}
}

// DecorationType is the kind of prop drawn on top of a tile
type DecorationType int

const (
	GrassTuft DecorationType = iota
	SmallRock
	Tree
	Bush
)

func (d DecorationType) String() string {
	switch d {
	case GrassTuft:
		return "grass tuft"
	case SmallRock:
		return "small rock"
	case Tree:
		return "tree"
	case Bush:
		return "bush"
	default:
		return "unknown"
	}
}

// Generation odds.
const (
	dirtChance       = 0.10
	stoneChance      = 0.05
	decorationChance = 0.08
	minTileSize      = 20
)

// TileCoord addresses a tile on the infinite grid
type TileCoord struct {
	X, Y int
}

// Decoration is a prop placed inside a tile. Offset is the fractional
// position within the tile so it follows tile size changes.
type Decoration struct {
	Type     DecorationType
	Offset   physics.Vector2D
	Size     float64
	Position physics.Vector2D
}

// Tile is one generated grid cell
type Tile struct {
	Coord      TileCoord
	Type       TerrainType
	Decoration *Decoration
}

// Origin returns the world position of the tile's top-left corner
func (t Tile) Origin(tileSize float64) physics.Vector2D {
	return physics.Vector2D{X: float64(t.Coord.X) * tileSize, Y: float64(t.Coord.Y) * tileSize}
}

// View is the visible slice of terrain for one frame
type View struct {
	TileSize    float64
	Tiles       []Tile
	Decorations []Decoration
}

// Terrain lazily generates tiles around the camera. Generation is a pure
// function of (seed, x, y), so evicted tiles come back identical.
type Terrain struct {
	seed     uint64
	baseSize float64
	tileSize float64
	cache    *lru.Cache[TileCoord, Tile]
}

// NewTerrain creates a terrain generator with a bounded tile cache
func NewTerrain(seed uint64, tileSize float64, cacheSize int) (*Terrain, error) {
	cache, err := lru.New[TileCoord, Tile](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tile cache: %w", err)
	}
	return &Terrain{
		seed:     seed,
		baseSize: tileSize,
		tileSize: math.Max(tileSize, minTileSize),
		cache:    cache,
	}, nil
}

// TileSize returns the current edge length of a tile
func (t *Terrain) TileSize() float64 {
	return t.tileSize
}

// SetScale resizes tiles relative to the configured base size
func (t *Terrain) SetScale(scale float64) {
	t.tileSize = math.Max(t.baseSize*scale, minTileSize)
}

// Reseed changes the seed and drops every cached tile
func (t *Terrain) Reseed(seed uint64) {
	t.seed = seed
	t.cache.Purge()
}

// Len returns the number of cached tiles
func (t *Terrain) Len() int {
	return t.cache.Len()
}

// Tile returns the tile at c, generating it on first use.
func (t *Terrain) Tile(c TileCoord) Tile {
	if tile, ok := t.cache.Get(c); ok {
		return tile
	}
	tile := t.generate(c)
	t.cache.Add(c, tile)
	return tile
}

// Visible returns the tiles covering the camera viewport with a one-tile
// margin and the decorations that fall on screen.
func (t *Terrain) Visible(cam *Camera) View {
	size := t.tileSize
	startX := int(math.Floor((cam.Position.X-cam.Width/2)/size)) - 1
	startY := int(math.Floor((cam.Position.Y-cam.Height/2)/size)) - 1
	endX := startX + int(math.Ceil(cam.Width/size)) + 3
	endY := startY + int(math.Ceil(cam.Height/size)) + 3

	view := View{
		TileSize: size,
		Tiles:    make([]Tile, 0, (endX-startX)*(endY-startY)),
	}
	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			tile := t.Tile(TileCoord{X: x, Y: y})
			view.Tiles = append(view.Tiles, tile)
			if tile.Decoration == nil {
				continue
			}
			d := *tile.Decoration
			d.Position = tile.Origin(size).Add(d.Offset.Scale(size))
			if cam.OnScreen(d.Position, 50) {
				view.Decorations = append(view.Decorations, d)
			}
		}
	}
	return view
}

func (t *Terrain) generate(c TileCoord) Tile {
	key := uint64(uint32(c.X))<<32 | uint64(uint32(c.Y))
	rng := rand.New(rand.NewPCG(t.seed, key))

	tile := Tile{Coord: c, Type: Grass}
	switch r := rng.Float64(); {
	case r < stoneChance:
		tile.Type = Stone
	case r < stoneChance+dirtChance:
		tile.Type = Dirt
	}

	if rng.Float64() < decorationChance {
		tile.Decoration = &Decoration{
			Type:   pickDecoration(rng.Float64()),
			Offset: physics.Vector2D{X: rng.Float64(), Y: rng.Float64()},
			Size:   0.5 + rng.Float64()*0.5,
		}
	}
	return tile
}

func pickDecoration(r float64) DecorationType {
	switch {
	case r < 0.3:
		return SmallRock
	case r < 0.4:
		return Tree
	case r < 0.6:
		return Bush
	default:
		return GrassTuft
	}
}
