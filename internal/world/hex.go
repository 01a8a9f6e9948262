// Package world generates hex-grid continents: coastlines, seas, lakes,
// rivers, mountains, humidity and terrain classification.
// Cells are addressed by a linear index over an N×N offset grid.
package world

import (
	"fmt"
	"math"
)

// Grid size limits. The codec container refuses anything above MaxSize².
const (
	MinSize = 8
	MaxSize = 512
)

// Hex directions. Opposite directions differ by 3.
const (
	DirUp = iota
	DirUpRight
	DirDownRight
	DirDown
	DirDownLeft
	DirUpLeft
	numDirs
)

// SkewX is the horizontal spacing of hex columns relative to row spacing.
var SkewX = 1 / math.Sqrt(1-0.5*0.5) // 1.1547

const (
	hexHeight = 1.0 // distance between any two adjacent hex centers
	hexEdge   = hexHeight / 1.7320508075688772
	hexWidth  = 1.5 * hexEdge
)

// Inverse returns the opposite hex direction.
func Inverse(dir int) int {
	return (dir + 3) % numDirs
}

// Grid describes an N×N offset hex grid. Odd columns sit half a row higher
// than even ones, so neighbor offsets depend on column parity.
type Grid struct {
	Size  int
	Total int

	neighbors [2][numDirs]int
}

// NewGrid returns the grid geometry for an N×N map.
func NewGrid(size int) (*Grid, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: grid size %d outside [%d, %d]", ErrInvalidOptions, size, MinSize, MaxSize)
	}
	w := size
	return &Grid{
		Size:  size,
		Total: size * size,
		neighbors: [2][numDirs]int{
			{w, 1, 1 - w, -w, -1 - w, -1},  // even columns
			{w, 1 + w, 1, -w, -1, -1 + w}, // odd columns
		},
	}, nil
}

// Offsets returns the six neighbor index offsets for the cell at pos.
func (g *Grid) Offsets(pos int) *[numDirs]int {
	return &g.neighbors[(pos%g.Size)&1]
}

// Neighbor returns the index of pos's neighbor in direction dir.
// pos must not be a border cell.
func (g *Grid) Neighbor(pos, dir int) int {
	return pos + g.neighbors[(pos%g.Size)&1][dir]
}

// XY splits a linear index into column and row.
func (g *Grid) XY(pos int) (x, y int) {
	return pos % g.Size, pos / g.Size
}

// Index joins a column and row into a linear index.
func (g *Grid) Index(x, y int) int {
	return y*g.Size + x
}

// IsBorder reports whether pos lies on the outermost ring of the grid.
func (g *Grid) IsBorder(pos int) bool {
	x, y := g.XY(pos)
	return x == 0 || y == 0 || x == g.Size-1 || y == g.Size-1
}

// UnifPos maps a cell to unit space, [-1, 1] on both axes.
func (g *Grid) UnifPos(x, y int) (float64, float64) {
	wx := float64(x) * hexWidth
	wy := float64(y)*hexHeight - hexHeight*0.5
	if x&1 != 0 {
		wy += hexHeight * 0.5
	}
	ux := wx/(float64(g.Size-1)*hexWidth)*2 - 1
	uy := wy/((float64(g.Size)-1.5)*hexHeight)*2 - 1
	return ux, uy
}

// Distance returns the hex step distance between two cells.
func (g *Grid) Distance(a, b int) int {
	aq, ar := g.cube(a)
	bq, br := g.cube(b)
	dq := abs(aq - bq)
	dr := abs(ar - br)
	ds := abs((-aq - ar) - (-bq - br))
	return max(dq, dr, ds)
}

// cube converts an offset position into axial (q, r) coordinates.
func (g *Grid) cube(pos int) (q, r int) {
	x, y := g.XY(pos)
	// Rows grow upward and odd columns are shifted up half a row.
	return x, -y - (x+(x&1))/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
