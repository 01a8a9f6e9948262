package world

// spreadDistance runs a multi-source breadth-first wave from todo, writing
// the wave number (saturating at 255) into dst for every newly reached cell.
// Cells already marked in util are never revisited; border cells receive a
// distance but do not propagate.
func (c *GenerationContext) spreadDistance(dst []uint8, todo []int) {
	g := c.grid
	d := 0
	for len(todo) > 0 {
		d = min(d+1, 255)
		var next []int
		for _, pos := range todo {
			for _, off := range g.Offsets(pos) {
				npos := pos + off
				if c.util[npos] != 0 {
					continue
				}
				c.util[npos] = 1
				dst[npos] = uint8(d)
				if c.fill[npos] != FillBorder {
					next = append(next, npos)
				}
			}
		}
		todo = next
	}
}

// markSources zeroes the visited marks and seeds a distance field.
func (c *GenerationContext) markSources(dst []uint8, sources []int) {
	clear(c.util)
	for _, pos := range sources {
		dst[pos] = 0
		c.util[pos] = 1
	}
}

// fixCorners patches the two corners no wave can reach.
func fixCorners(dst []uint8) {
	n := len(dst)
	dst[0] = uint8(min(int(dst[1])+1, 255))
	dst[n-1] = uint8(min(int(dst[n-2])+1, 255))
}

// touchesWater reports whether a non-border cell has a water neighbor
// according to isWater.
func (c *GenerationContext) touchesWater(pos int, isWater func(int) bool) bool {
	for _, off := range c.grid.Offsets(pos) {
		if isWater(pos + off) {
			return true
		}
	}
	return false
}

// generateInlandDistance measures, for every land cell, the distance to the
// nearest water cell. Water cells are 0.
func (c *GenerationContext) generateInlandDistance() {
	clear(c.util)
	var todo []int
	isWater := func(p int) bool { return c.land[p] == 0 }
	for pos := range c.land {
		if c.land[pos] == 0 {
			c.util[pos] = 1
			c.coastDist[pos] = 0
			continue
		}
		if c.touchesWater(pos, isWater) {
			todo = append(todo, pos)
			c.coastDist[pos] = 0
			c.util[pos] = 1
		}
	}
	c.spreadDistance(c.coastDist, todo)
}

// generateOceanDistance measures distance from the ocean coastlines (not
// lakes) across every cell.
func (c *GenerationContext) generateOceanDistance() {
	sources := append([]int(nil), c.oceanCoastlines...)
	c.markSources(c.oceanDist, sources)
	c.spreadDistance(c.oceanDist, sources)
	fixCorners(c.oceanDist)
}

// generateCoastDistance measures distance from the final shoreline, lakes
// included, using output elevations and water levels.
func (c *GenerationContext) generateCoastDistance() {
	sea := c.opts.Output.SeaRange
	isWater := func(p int) bool {
		wl := int(c.waterLevel[p])
		if wl == 0 {
			wl = sea
		}
		return int(c.relev[p]) < wl
	}
	var coast []int
	for pos := range c.relev {
		if c.grid.IsBorder(pos) || isWater(pos) {
			continue
		}
		if c.touchesWater(pos, isWater) {
			coast = append(coast, pos)
		}
	}
	c.markSources(c.coastDist, coast)
	c.spreadDistance(c.coastDist, coast)
	fixCorners(c.coastDist)
}
