package world

import (
	"math/rand"

	"github.com/talgya/hex-continent/internal/entropy"
	"github.com/talgya/hex-continent/internal/noise"
)

// Fill classifies cells while the land mask and water bodies are built.
// It is only meaningful during generation.
type Fill uint8

const (
	FillOpen         Fill = iota // land, or not yet visited water
	FillBorder                   // outermost ring, always water
	FillSea                      // ocean reached from the map edge
	FillSeaSecondary             // ocean (or unfilled sea) reached while seeding rivers
	FillInlandSea                // landlocked water: unfilled seas and lake seeds
	FillCoastline                // land cell where a river may start
	FillLake                     // lake seed water reached while seeding rivers
)

func (f Fill) String() string {
	switch f {
	case FillOpen:
		return "open"
	case FillBorder:
		return "border"
	case FillSea:
		return "sea"
	case FillSeaSecondary:
		return "sea2"
	case FillInlandSea:
		return "inland_sea"
	case FillCoastline:
		return "coastline"
	case FillLake:
		return "lake"
	default:
		return "unknown"
	}
}

// noFlow marks a cell without a downstream direction.
const noFlow = -1

// GenerationContext owns every buffer and all state of one generation call.
// Buffers are sized once per grid size and cleared, not reallocated, between
// calls.
type GenerationContext struct {
	grid *Grid
	opts *Options
	rng  *rand.Rand

	land          []uint8 // 255 land, 0 water
	fill          []Fill
	util          []uint8 // visited marks and small counters, phase-local
	accum         []uint32
	mountainDelta []uint32
	tslope        []uint8
	rslope        []uint8
	river         []uint8 // one bit per direction carrying flow
	flow          []int8  // downstream direction of a river cell
	relev         []uint16
	strahler      []uint8
	waterLevel    []uint16
	coastDist     []uint8
	oceanDist     []uint8
	humidity      []uint8
	humidityTmp   []uint8
	classif       []uint8
	blur1         []uint32
	blur2         []uint32
	priority      []uint8
	lakeMark      []int32 // lake id + 1 of the flood that visited a cell

	countByH [256]int

	// cross-phase state
	coastThreshold  int
	unfilledSeas    [][]int
	lakes           []int
	coastlines      []int // every river mouth candidate, in discovery order
	oceanCoastlines []int // ocean and unfilled sea mouths, not lakes
	borderMinDist   int
	voxelScale      float64
}

func newGenerationContext(g *Grid) *GenerationContext {
	n := g.Total
	return &GenerationContext{
		grid:          g,
		land:          make([]uint8, n),
		fill:          make([]Fill, n),
		util:          make([]uint8, n),
		accum:         make([]uint32, n),
		mountainDelta: make([]uint32, n),
		tslope:        make([]uint8, n),
		rslope:        make([]uint8, n),
		river:         make([]uint8, n),
		flow:          make([]int8, n),
		relev:         make([]uint16, n),
		strahler:      make([]uint8, n),
		waterLevel:    make([]uint16, n),
		coastDist:     make([]uint8, n),
		oceanDist:     make([]uint8, n),
		humidity:      make([]uint8, n),
		humidityTmp:   make([]uint8, n),
		classif:       make([]uint8, n),
		blur1:         make([]uint32, n),
		blur2:         make([]uint32, n),
		priority:      make([]uint8, n),
		lakeMark:      make([]int32, n),
	}
}

// reset prepares the context for a new call with the given options.
func (c *GenerationContext) reset(opts *Options) {
	c.opts = opts
	c.rng = entropy.NewRand(opts.Seed)

	clear(c.land)
	clear(c.fill)
	clear(c.util)
	clear(c.accum)
	clear(c.mountainDelta)
	clear(c.tslope)
	clear(c.rslope)
	clear(c.river)
	for i := range c.flow {
		c.flow[i] = noFlow
	}
	clear(c.relev)
	clear(c.strahler)
	clear(c.waterLevel)
	clear(c.coastDist)
	clear(c.oceanDist)
	clear(c.humidity)
	clear(c.humidityTmp)
	clear(c.classif)
	clear(c.blur1)
	clear(c.blur2)
	clear(c.priority)
	clear(c.lakeMark)
	clear(c.countByH[:])

	c.coastThreshold = 0
	c.unfilledSeas = nil
	c.lakes = nil
	c.coastlines = nil
	c.oceanCoastlines = nil
	c.borderMinDist = 0
	c.voxelScale = 0
}

// sampleField evaluates a noise group at every cell, row by row.
func (c *GenerationContext) sampleField(g noise.Group, fn func(s *noise.Sampler, h float64, pos int)) {
	s := noise.NewSampler(c.opts.Seed, g)
	size := c.grid.Size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			ux, uy := c.grid.UnifPos(x, y)
			fn(s, s.Sample(ux, uy), c.grid.Index(x, y))
		}
	}
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func toU16(v float64) uint16 {
	return uint16(clampFloat(v, 0, 65535))
}

func satU16(v int) uint16 {
	return uint16(clampInt(v, 0, 65535))
}
