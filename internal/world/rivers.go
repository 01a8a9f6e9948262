package world

import (
	"math"

	"github.com/talgya/hex-continent/internal/entropy"
	"github.com/talgya/hex-continent/internal/noise"
)

const maxPriority = 10

// generateTerrainSlope samples the roughness added per height build-up step.
func (c *GenerationContext) generateTerrainSlope() {
	ts := &c.opts.TSlope
	c.sampleField(ts.Group, func(s *noise.Sampler, h float64, pos int) {
		lo := s.Param("min", ts.Min)
		rng := s.Param("range", ts.Range)
		c.tslope[pos] = uint8(clampFloat(lo+math.Floor(h*rng), 0, 255))
	})
}

// generateRiverSlope samples the elevation gained per river step, 1..steps.
func (c *GenerationContext) generateRiverSlope() {
	rs := &c.opts.RSlope
	c.sampleField(rs.Group, func(_ *noise.Sampler, h float64, pos int) {
		v := clampInt(int(math.Floor(h*float64(rs.Steps))), 0, rs.Steps-1)
		c.rslope[pos] = uint8(v + 1)
	})
}

// candidateFlood spreads through water in random order and turns every land
// cell it touches into a river mouth pointing back at the water.
type candidateFlood struct {
	c    *GenerationContext
	todo []int
}

func (f *candidateFlood) mark(pos int, v Fill, incoming int) {
	c := f.c
	switch c.fill[pos] {
	case FillSea, FillInlandSea:
		c.fill[pos] = v
		f.todo = append(f.todo, pos)
	case FillOpen:
		inv := Inverse(incoming)
		c.fill[pos] = FillCoastline
		c.river[pos] = 1 << inv
		c.flow[pos] = int8(inv)
		c.relev[pos] = uint16(c.rslope[pos])
		c.coastlines = append(c.coastlines, pos)
	}
}

// seed starts a flood at a water cell; land and visited cells are ignored.
func (f *candidateFlood) seed(pos int, v Fill) {
	switch f.c.fill[pos] {
	case FillSea, FillInlandSea:
		f.c.fill[pos] = v
		f.todo = append(f.todo, pos)
	}
}

func (f *candidateFlood) spread(v Fill) {
	c := f.c
	for len(f.todo) > 0 {
		i := c.rng.Intn(len(f.todo))
		pos := f.todo[i]
		f.todo = entropy.RemoveAt(f.todo, i)
		for dir, off := range c.grid.Offsets(pos) {
			f.mark(pos+off, v, dir)
		}
	}
}

// findRiverMouths marks every coastline reachable from the ocean, from
// unfilled seas, and from lake seeds.
func (c *GenerationContext) findRiverMouths() {
	g := c.grid
	f := &candidateFlood{c: c}
	size := g.Size
	for _, xy := range [4][2]int{{1, 1}, {size - 2, 1}, {size - 2, size - 2}, {1, size - 2}} {
		f.seed(g.Index(xy[0], xy[1]), FillSeaSecondary)
	}
	// Corners can be land; the rest of the ring reaches any ocean they miss.
	for _, pos := range c.innerRing() {
		f.seed(pos, FillSeaSecondary)
	}
	for _, sea := range c.unfilledSeas {
		f.seed(sea[c.rng.Intn(len(sea))], FillSeaSecondary)
	}
	f.spread(FillSeaSecondary)
	c.oceanCoastlines = append([]int(nil), c.coastlines...)

	for _, pos := range c.lakes {
		f.seed(pos, FillLake)
	}
	f.spread(FillLake)
}

// findBorderMinDist measures how far the closest coastline is from the map
// edge, walking through water only.
func (c *GenerationContext) findBorderMinDist() error {
	g := c.grid
	clear(c.util)
	todo := c.coastlines
	for _, pos := range todo {
		c.util[pos] = 1
	}
	d := 0
	for len(todo) > 0 {
		d = min(d+1, 255)
		var next []int
		for _, pos := range todo {
			for _, off := range g.Offsets(pos) {
				npos := pos + off
				if c.util[npos] != 0 || c.land[npos] != 0 {
					continue
				}
				c.util[npos] = 1
				if c.fill[npos] == FillBorder {
					c.borderMinDist = d
					return nil
				}
				next = append(next, npos)
			}
		}
		todo = next
	}
	return invariantf("no coastline connects to the map border through water")
}

// filterRiverMouths keeps the coastlines that make good river mouths: one
// open side is best, two or three contiguous open sides are accepted at
// random, and accepted mouths block their neighbors.
func (c *GenerationContext) filterRiverMouths() ([]int, error) {
	g := c.grid
	var rank [3][]int
	for _, pos := range c.coastlines {
		openCount := 0
		openBits := 0
		for dir, off := range g.Offsets(pos) {
			if c.land[pos+off] == 0 {
				openBits |= 1 << dir
				openCount++
			}
		}
		if openCount >= 4 {
			continue
		}
		if openCount == 0 {
			return nil, invariantf("coastline %d has no water neighbor", pos)
		}
		if openCount == 1 {
			rank[0] = append(rank[0], pos)
			continue
		}
		// Are all open sides adjacent? Rotate to the first open side after a
		// solid one and count the run.
		openBits |= openBits << numDirs
		b := 0
		for openBits&(1<<b) != 0 {
			b++
		}
		for openBits&(1<<b) == 0 {
			b++
		}
		run := 0
		for openBits&(1<<b) != 0 {
			b++
			run++
		}
		if run != openCount {
			continue
		}
		odds := 2
		if openCount == 2 {
			odds = 4
		}
		if c.rng.Intn(odds) == 0 {
			rank[openCount-1] = append(rank[openCount-1], pos)
		}
	}

	clear(c.util)
	var mouths []int
	for _, list := range rank {
		for _, pos := range list {
			if c.util[pos] != 0 {
				continue
			}
			mouths = append(mouths, pos)
			for _, off := range g.Offsets(pos) {
				c.util[pos+off] = 1
			}
		}
	}
	return mouths, nil
}

// riverQueue buckets active river tips by priority tier, then by elevation.
type riverQueue struct {
	byPrior [maxPriority + 1][][]int
	minElev [maxPriority + 1]int
}

func newRiverQueue() *riverQueue {
	q := &riverQueue{}
	for p := range q.minElev {
		q.minElev[p] = math.MaxInt
	}
	return q
}

func (q *riverQueue) push(p, elev, pos int) {
	b := q.byPrior[p]
	for len(b) <= elev {
		b = append(b, nil)
	}
	b[elev] = append(b[elev], pos)
	q.byPrior[p] = b
	q.minElev[p] = min(q.minElev[p], elev)
}

// choose pops a random tip from the lowest bucket of the most important tier
// that has one within tuningH of the global minimum elevation.
func (c *GenerationContext) chooseNode(q *riverQueue, tuningH int) (pos, prior int, err error) {
	minElev := math.MaxInt
	for _, m := range q.minElev {
		minElev = min(minElev, m)
	}
	if minElev == math.MaxInt {
		return -1, 0, nil
	}
	for p := maxPriority; p >= 0; p-- {
		b := q.byPrior[p]
		for i := 0; i < tuningH; i++ {
			elev := minElev + i
			if elev >= len(b) || len(b[elev]) == 0 {
				continue
			}
			idx := c.rng.Intn(len(b[elev]))
			pos = b[elev][idx]
			b[elev] = entropy.RemoveAt(b[elev], idx)
			if len(b[elev]) == 0 {
				if q.minElev[p] != elev {
					return -1, 0, invariantf("tier %d emptied bucket %d above its minimum %d", p, elev, q.minElev[p])
				}
				next := elev
				for next < len(b) && len(b[next]) == 0 {
					next++
				}
				if next == len(b) {
					next = math.MaxInt
				}
				q.minElev[p] = next
			}
			return pos, p, nil
		}
	}
	return -1, 0, nil
}

// validGrowth rejects growth that would put the new cell too far above or
// below any river cell next to it.
func (c *GenerationContext) validGrowth(from, to int) bool {
	newElev := int(c.relev[from]) + int(c.rslope[to])
	for _, off := range c.grid.Offsets(to) {
		npos := to + off
		if c.river[npos] != 0 && abs(newElev-int(c.relev[npos])) > c.opts.River.MaxTerrainSlope {
			return false
		}
	}
	return true
}

type growOption struct {
	pos, dir int
}

// growRivers extends every mouth upstream until no tip can grow.
func (c *GenerationContext) growRivers(mouths []int) error {
	ro := &c.opts.River
	g := c.grid
	weightTotal := ro.WeightBend + ro.WeightSymFork + ro.WeightAsymFork
	q := newRiverQueue()
	for _, pos := range mouths {
		r := c.rng.Float64()
		p := 1 + int(math.Floor(r*r*r*maxPriority))
		c.priority[pos] = uint8(p)
		q.push(p, 0, pos)
	}

	options := make([]growOption, 0, numDirs)
	for {
		pos, prior, err := c.chooseNode(q, ro.TuningH)
		if err != nil {
			return err
		}
		if pos < 0 {
			return nil
		}

		cur := int(c.river[pos])
		// Never grow beside an existing edge.
		bad := cur | cur<<1 | cur>>1 | cur>>5 | cur<<5
		options = options[:0]
		for dir, off := range g.Offsets(pos) {
			if bad&(1<<dir) != 0 {
				continue
			}
			npos := pos + off
			if c.land[npos] == 0 || c.river[npos] != 0 {
				continue
			}
			if c.validGrowth(pos, npos) {
				options = append(options, growOption{npos, dir})
			}
		}
		if len(options) == 0 {
			continue
		}

		asym := false
		if len(options) > 1 {
			n := 1
			split := c.rng.Intn(weightTotal)
			if split >= ro.WeightBend {
				n = 2
				if split-ro.WeightBend >= ro.WeightSymFork {
					asym = true
				}
			}
			for i := 0; i < n; i++ {
				j := i + c.rng.Intn(len(options)-i)
				options[i], options[j] = options[j], options[i]
			}
			options = options[:n]
		}

		for i, o := range options {
			nelev := int(c.relev[pos]) + int(c.rslope[o.pos])
			p := prior
			switch {
			case asym && i == 1:
				p = prior - 1
			case !asym && len(options) > 1:
				p = prior - 1
			}
			p = max(0, p)
			c.priority[o.pos] = uint8(p)
			c.relev[o.pos] = satU16(nelev)
			inv := Inverse(o.dir)
			c.river[o.pos] = 1 << inv
			c.flow[o.pos] = int8(inv)
			c.river[pos] |= 1 << o.dir
			q.push(p, int(c.relev[o.pos]), o.pos)
		}
	}
}

// clearRiverCell removes a cell from the network. Neighbors lose the edge
// into it, except an upstream neighbor whose flow ends there: that edge
// stays as the neighbor's mouth.
func (c *GenerationContext) clearRiverCell(pos int) {
	g := c.grid
	bits := c.river[pos]
	for dir := 0; dir < numDirs; dir++ {
		if bits&(1<<dir) == 0 {
			continue
		}
		npos := g.Neighbor(pos, dir)
		inv := Inverse(dir)
		if int(c.flow[npos]) == inv {
			continue
		}
		c.river[npos] &^= 1 << inv
	}
	c.river[pos] = 0
	c.flow[pos] = noFlow
	c.strahler[pos] = 0
}

// pruneLeafStreams drops every first-order stream segment.
func (c *GenerationContext) pruneLeafStreams() {
	for pos := range c.river {
		if c.strahler[pos] == 1 && c.river[pos] != 0 {
			c.clearRiverCell(pos)
			c.relev[pos] = 0
		}
	}
}

// buildUpHeight spreads elevation from river cells to all reachable land in
// waves. Each new cell averages the contributions of the wave that reached
// it and is frozen afterward.
func (c *GenerationContext) buildUpHeight() {
	g := c.grid
	clear(c.util)
	clear(c.accum)
	var work []int
	for pos := range c.river {
		if c.river[pos] != 0 {
			work = append(work, pos)
		}
	}
	const frozen = 255
	for len(work) > 0 {
		var next []int
		for _, pos := range work {
			h := uint32(c.relev[pos]) + uint32(c.tslope[pos])
			for _, off := range g.Offsets(pos) {
				npos := pos + off
				if c.river[npos] != 0 || c.land[npos] == 0 || c.util[npos] == frozen {
					continue
				}
				if c.util[npos] == 0 {
					c.accum[npos] = 0
					next = append(next, npos)
				}
				c.accum[npos] += h
				c.util[npos]++
			}
		}
		for _, pos := range next {
			c.relev[pos] = uint16(min(c.accum[pos]/uint32(c.util[pos]), math.MaxUint16))
			c.util[pos] = frozen
		}
		work = next
	}
}

// generateRivers runs the whole river phase: mouths, growth, Strahler
// orders, leaf pruning and the height build-up.
func (c *GenerationContext) generateRivers() error {
	clear(c.river)
	clear(c.relev)
	c.findRiverMouths()
	if err := c.findBorderMinDist(); err != nil {
		return err
	}
	if c.opts.EarlyOut == StageRiver {
		return nil
	}

	mouths, err := c.filterRiverMouths()
	if err != nil {
		return err
	}
	if err := c.growRivers(mouths); err != nil {
		return err
	}
	if err := c.computeStrahler(); err != nil {
		return err
	}
	if c.opts.River.Prune {
		c.pruneLeafStreams()
		if err := c.computeStrahler(); err != nil {
			return err
		}
	}
	c.buildUpHeight()
	return nil
}
