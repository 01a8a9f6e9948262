package world

import (
	"math"
	"sort"
)

// generateLakes seeds lakes at the inland points furthest from any coast,
// keeping seeds at least min_sep apart.
func (c *GenerationContext) generateLakes() {
	lo := &c.opts.Lakes
	g := c.grid
	c.generateInlandDistance()

	points := c.poissonSample(float64(lo.SearchRadius), lo.K)
	peaks := maxPerRegion(g, points, c.coastDist, lo.SearchRadius/2)
	kept := peaks[:0]
	for _, p := range peaks {
		if p.value > 2 {
			kept = append(kept, p)
		}
	}
	want := int(math.Floor(float64(len(kept)) * lo.Percent))

	type xy struct{ x, y int }
	var use []xy
	minSepSq := lo.MinSep * lo.MinSep
	for _, p := range kept {
		if len(use) >= want {
			break
		}
		px, py := g.XY(p.pos)
		tooClose := false
		for _, o := range use {
			dx, dy := px-o.x, py-o.y
			if dx*dx+dy*dy < minSepSq {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		use = append(use, xy{px, py})
	}

	for _, p := range use {
		pos := g.Index(p.x, p.y)
		c.fill[pos] = FillInlandSea
		c.land[pos] = 0
		c.lakes = append(c.lakes, pos)
	}
}

// lakeFlood grows one lake by raising a trial water level one unit at a
// time. Cells adjacent to the flooded set are bucketed by elevation; the
// ring two steps out decides whether a level is stable.
type lakeFlood struct {
	c      *GenerationContext
	id     int32
	try    int
	filled []int
	byElev map[int][]int
	ring2  map[int]int
	spill  bool
}

func (f *lakeFlood) seen(pos int) bool {
	return f.c.lakeMark[pos] == f.id
}

// add floods pos and registers its unseen neighbors. It reports false when
// water at the trial level would spill out through a lower neighbor.
func (f *lakeFlood) add(pos int) bool {
	c := f.c
	g := c.grid
	if g.IsBorder(pos) {
		return false
	}
	f.filled = append(f.filled, pos)
	for _, off := range g.Offsets(pos) {
		npos := pos + off
		if f.seen(npos) {
			continue
		}
		nelev := int(c.relev[npos])
		if nelev < f.try || c.waterLevel[npos] != 0 {
			return false
		}
		f.byElev[nelev] = append(f.byElev[nelev], npos)
		c.lakeMark[npos] = f.id
		delete(f.ring2, npos)
		if g.IsBorder(npos) {
			continue
		}
		for _, off2 := range g.Offsets(npos) {
			n2 := npos + off2
			if !f.seen(n2) {
				if _, ok := f.ring2[n2]; !ok {
					f.ring2[n2] = int(c.relev[n2])
				}
			}
		}
	}
	return true
}

func (f *lakeFlood) stable(level int) bool {
	for _, e := range f.ring2 {
		if e <= level {
			return false
		}
	}
	return true
}

type goodLevel struct {
	level  int
	filled int
}

// fillLake floods the basin around source, if it holds water.
func (c *GenerationContext) fillLake(id int32, source int) {
	f := &lakeFlood{
		c:      c,
		id:     id,
		try:    int(c.relev[source]),
		byElev: make(map[int][]int),
		ring2:  make(map[int]int),
	}
	c.lakeMark[source] = id
	if !f.add(source) {
		return
	}

	var good []goodLevel
flood:
	for f.try < math.MaxUint16 {
		f.try++
		filledLen := len(f.filled)
		if len(f.byElev[f.try]) == 0 {
			continue
		}
		// The bucket grows while we walk it.
		for i := 0; i < len(f.byElev[f.try]); i++ {
			if !f.add(f.byElev[f.try][i]) {
				f.filled = f.filled[:filledLen]
				break flood
			}
		}
		// Water at try+1 covers everything flooded so far and stays below
		// every cell two steps out.
		if f.stable(f.try + 1) {
			good = append(good, goodLevel{level: f.try, filled: len(f.filled)})
		}
	}
	if len(good) == 0 {
		return
	}

	// Take the level found halfway through the flooding process.
	pick := good[len(good)/2]
	wl := uint16(pick.level + 1)
	for _, pos := range f.filled[:pick.filled] {
		c.waterLevel[pos] = wl
		c.land[pos] = 0
	}
}

// fillLakes floods every lake seed in placement order.
func (c *GenerationContext) fillLakes() {
	clear(c.lakeMark)
	for i, pos := range c.lakes {
		c.fillLake(int32(i+1), pos)
	}
}

// pruneFloodedRivers removes river cells that ended up under a lake.
func (c *GenerationContext) pruneFloodedRivers() {
	var flooded []int
	for pos := range c.river {
		if c.river[pos] == 0 {
			continue
		}
		wl := c.waterLevel[pos]
		if wl != 0 && c.relev[pos] < wl {
			flooded = append(flooded, pos)
		}
	}
	sort.Ints(flooded)
	for _, pos := range flooded {
		c.clearRiverCell(pos)
	}
}
