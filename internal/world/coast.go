package world

import (
	"math"

	"github.com/talgya/hex-continent/internal/entropy"
	"github.com/talgya/hex-continent/internal/noise"
)

// generateCoastlines builds the land mask. Heights are biased toward the
// center and the cutoff is chosen as a percentile, so the land fraction does
// not depend on the noise amplitude.
func (c *GenerationContext) generateCoastlines() {
	co := &c.opts.Coast
	var cutoffPercent float64
	c.sampleField(co.Group, func(s *noise.Sampler, h float64, pos int) {
		x, y := c.grid.XY(pos)
		ux, uy := c.grid.UnifPos(x, y)
		h *= 1 - (ux*ux + uy*uy)
		hb := clampInt(int(math.Floor(h*255)), 0, 255)
		c.countByH[hb]++
		c.land[pos] = uint8(hb)
		if x == c.grid.Size/2 && y == c.grid.Size/2 {
			cutoffPercent = s.Param("cutoff", co.Cutoff)
		}
	})

	cutoffPercent = 1 - (1-cutoffPercent)*(1-cutoffPercent)
	remaining := float64(c.grid.Total) * cutoffPercent
	threshold := -1
	for threshold < 255 && remaining > 0 {
		threshold++
		remaining -= float64(c.countByH[threshold])
	}
	c.coastThreshold = threshold

	for pos := range c.land {
		if int(c.land[pos]) > threshold && !c.grid.IsBorder(pos) {
			c.land[pos] = 255
		} else {
			c.land[pos] = 0
		}
		c.fill[pos] = FillOpen
	}
}

// seaFlood is an explicit-stack flood over open water.
type seaFlood struct {
	c    *GenerationContext
	todo []int
	done []int
}

func (f *seaFlood) mark(pos int, v Fill) {
	if f.c.land[pos] != 0 || f.c.fill[pos] != FillOpen {
		return
	}
	f.c.fill[pos] = v
	f.todo = append(f.todo, pos)
	f.done = append(f.done, pos)
}

func (f *seaFlood) spread(v Fill) {
	for len(f.todo) > 0 {
		pos := f.todo[len(f.todo)-1]
		f.todo = f.todo[:len(f.todo)-1]
		for _, off := range f.c.grid.Offsets(pos) {
			f.mark(pos+off, v)
		}
	}
}

// fillSeas marks the border and the ocean, then channels, fills or records
// every landlocked sea.
func (c *GenerationContext) fillSeas() error {
	g := c.grid
	size := g.Size
	for i := 0; i < size; i++ {
		c.fill[i] = FillBorder
		c.fill[(size-1)*size+i] = FillBorder
		c.fill[size*i] = FillBorder
		c.fill[size*i+size-1] = FillBorder
	}

	f := &seaFlood{c: c}
	for _, pos := range c.innerRing() {
		f.mark(pos, FillSea)
	}
	if len(f.todo) == 0 {
		return invariantf("ocean flood cannot reach the border: no water next to it")
	}
	f.spread(FillSea)

	var seas [][]int
	for pos := range c.fill {
		if c.land[pos] == 0 && c.fill[pos] == FillOpen {
			f.done = nil
			f.mark(pos, FillInlandSea)
			f.spread(FillInlandSea)
			seas = append(seas, f.done)
		}
	}
	entropy.Shuffle(c.rng, seas)

	co := &c.opts.Coast
	for _, sea := range seas {
		if co.Channels {
			var ok bool
			if sea, ok = c.channelSea(sea); ok {
				continue
			}
		}
		if co.FillSeas {
			for _, pos := range sea {
				c.land[pos] = 255
				c.fill[pos] = FillOpen
			}
		} else {
			c.unfilledSeas = append(c.unfilledSeas, sea)
		}
	}
	return nil
}

// innerRing lists the cells adjacent to the border, in index order.
func (c *GenerationContext) innerRing() []int {
	size := c.grid.Size
	ring := make([]int, 0, 4*(size-3))
	for pos := range c.fill {
		x, y := c.grid.XY(pos)
		if x == 0 || y == 0 || x == size-1 || y == size-1 {
			continue
		}
		if x == 1 || y == 1 || x == size-2 || y == size-2 {
			ring = append(ring, pos)
		}
	}
	return ring
}

// channelSea looks for a ring cell around the sea that touches open ocean and
// carves it, joining the sea to the ocean.
func (c *GenerationContext) channelSea(sea []int) ([]int, bool) {
	g := c.grid
	checked := make(map[int]bool, len(sea)*2)
	for _, pos := range sea {
		checked[pos] = true
	}
	var adjacent []int
	for _, pos := range sea {
		for _, off := range g.Offsets(pos) {
			npos := pos + off
			if !checked[npos] {
				checked[npos] = true
				if !g.IsBorder(npos) {
					adjacent = append(adjacent, npos)
				}
			}
		}
	}
	entropy.Shuffle(c.rng, adjacent)

	for _, pos := range adjacent {
		for _, off := range g.Offsets(pos) {
			npos := pos + off
			if checked[npos] || c.land[npos] != 0 || c.fill[npos] != FillSea {
				continue
			}
			c.land[pos] = 0
			c.land[npos] = 0
			sea = append(sea, pos, npos)
			for _, p := range sea {
				c.fill[p] = FillSea
			}
			return sea, true
		}
	}
	return sea, false
}
