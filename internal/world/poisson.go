package world

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/talgya/hex-continent/internal/entropy"
)

// poissonSample returns cell indices at least radius apart (and usually less
// than 2*radius), using a background grid of cell size radius/√2 so each
// candidate only checks a 5×5 neighborhood of buckets.
func (c *GenerationContext) poissonSample(radius float64, k int) []int {
	g := c.grid
	w, h := g.Size, g.Size
	rsq := radius * radius
	cellBound := radius / math.Sqrt2
	cellW := int(math.Ceil(float64(w) / cellBound))
	cellH := int(math.Ceil(float64(h) / cellBound))
	cells := make([]int32, cellW*cellH) // sample index + 1, 0 when empty

	var ret, active []int
	emit := func(pos int) {
		x, y := g.XY(pos)
		ci := int(float64(x)/cellBound) + int(float64(y)/cellBound)*cellW
		ret = append(ret, pos)
		cells[ci] = int32(len(ret))
		active = append(active, pos)
	}
	near := func(nx, ny int) bool {
		const n = 2
		x := int(float64(nx) / cellBound)
		y := int(float64(ny) / cellBound)
		for yy := max(y-n, 0); yy < min(y+n+1, cellH); yy++ {
			for xx := max(x-n, 0); xx < min(x+n+1, cellW); xx++ {
				s := cells[yy*cellW+xx]
				if s == 0 {
					continue
				}
				gx, gy := g.XY(ret[s-1])
				dx, dy := float64(nx-gx), float64(ny-gy)
				if dx*dx+dy*dy < rsq {
					return true
				}
			}
		}
		return false
	}

	emit(c.rng.Intn(g.Total))
	for len(active) > 0 {
		ai := c.rng.Intn(len(active))
		pos := active[ai]
		active = entropy.RemoveAt(active, ai)
		px, py := g.XY(pos)
		for j := 0; j < k; j++ {
			// Uniform point in the annulus between r and 2r.
			theta := c.rng.Float64() * 2 * math.Pi
			r := math.Sqrt(c.rng.Float64()*3*rsq + rsq)
			nx := int(float64(px) + r*math.Cos(theta))
			ny := int(float64(py) + r*math.Sin(theta))
			if nx < 0 || nx >= w || ny < 0 || ny >= h || near(nx, ny) {
				continue
			}
			emit(g.Index(nx, ny))
		}
	}
	return ret
}

// regionPeak is the highest value found around a candidate.
type regionPeak[T constraints.Unsigned] struct {
	value T
	pos   int
}

// maxPerRegion finds, for each candidate, the first strict maximum of field
// in the square of the given radius, and returns them sorted high to low.
// Equal values keep candidate order.
func maxPerRegion[T constraints.Unsigned](g *Grid, candidates []int, field []T, radius int) []regionPeak[T] {
	ret := make([]regionPeak[T], 0, len(candidates))
	for _, pos := range candidates {
		px, py := g.XY(pos)
		best := regionPeak[T]{value: field[pos], pos: pos}
		for y := max(0, py-radius); y <= min(g.Size-1, py+radius); y++ {
			for x := max(0, px-radius); x <= min(g.Size-1, px+radius); x++ {
				p := g.Index(x, y)
				if field[p] > best.value {
					best = regionPeak[T]{value: field[p], pos: p}
				}
			}
		}
		ret = append(ret, best)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].value > ret[j].value
	})
	return ret
}
