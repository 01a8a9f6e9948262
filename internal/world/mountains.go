package world

import "math"

// probe directions perpendicular to the three hex axes, with the angle offset
// applied when that side holds the ridge.
var ridgeProbes = [6]struct{ dx, dy, angle float64 }{
	{-0.5, math.Sqrt(0.75), math.Pi / 6},
	{-1, 0, math.Pi * 3 / 6},
	{-0.5, -math.Sqrt(0.75), math.Pi * 5 / 6},
	{0.5, -math.Sqrt(0.75), math.Pi * 7 / 6},
	{1, 0, math.Pi * 9 / 6},
	{0.5, math.Sqrt(0.75), math.Pi * 11 / 6},
}

// choosePeaks picks the highest land cells of a Poisson spread.
func (c *GenerationContext) choosePeaks() []int {
	mo := &c.opts.Mountainify
	var candidates []int
	for _, pos := range c.poissonSample(float64(mo.PeakRadius), mo.PeakK) {
		if c.land[pos] != 0 {
			candidates = append(candidates, pos)
		}
	}
	peaks := maxPerRegion(c.grid, candidates, c.relev, mo.PeakRadius/2)
	keep := min(len(peaks), max(1, int(math.Ceil(mo.PeakPercent*float64(len(peaks))))))
	ret := make([]int, keep)
	for i := range ret {
		ret[i] = peaks[i].pos
	}
	return ret
}

// growMountain exaggerates the relief around one peak. The falloff is
// steeper across the dominant ridge than along it.
func (c *GenerationContext) growMountain(pos int) {
	mo := &c.opts.Mountainify
	g := c.grid
	size := g.Size
	radius := mo.BlendRadius
	rsq := float64(radius * radius)
	horiz := int(math.Ceil(float64(radius) * SkewX))
	x0, y0 := g.XY(pos)

	var avgHeight, avgCount float64
	for dx := -horiz; dx <= horiz; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			dsq := float64(dx*dx + dy*dy)
			if dsq >= rsq {
				continue
			}
			x, y := x0+dx, y0+dy
			if x < 0 || x >= size || y < 0 || y >= size {
				continue
			}
			p := g.Index(x, y)
			if c.land[p] == 0 {
				continue
			}
			w := dsq / rsq
			avgHeight += float64(c.relev[p]) * w
			avgCount += w
		}
	}
	if avgCount == 0 {
		return
	}
	avgHeight /= avgCount
	centerDH := float64(c.relev[pos]) - avgHeight
	if centerDH < 10 {
		// Probably on the slope of a neighboring peak.
		return
	}

	angleOffs := math.Pi / 6
	var bestH uint16
	for _, pr := range ridgeProbes {
		sx := clampInt(int(math.Round(float64(x0)+pr.dx*float64(radius)/2/SkewX)), 0, size-1)
		sy := clampInt(int(math.Round(float64(y0)+pr.dy*float64(radius)/2)), 0, size-1)
		if h := c.relev[g.Index(sx, sy)]; h > bestH {
			bestH = h
			angleOffs = pr.angle
		}
	}

	weightAbs := 1 - mo.WeightLocal
	for dx := -horiz; dx <= horiz; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			x, y := x0+dx, y0+dy
			udx := float64(dx) / SkewX
			udy := float64(dy)
			if x0&1 != x&1 {
				if x0&1 != 0 {
					udy -= 0.5
				} else {
					udy += 0.5
				}
			}
			dsq := udx*udx + udy*udy
			if dsq >= rsq {
				continue
			}
			if x < 0 || x >= size || y < 0 || y >= size {
				continue
			}
			p := g.Index(x, y)
			if c.land[p] == 0 {
				continue
			}
			dh := float64(c.relev[p]) - avgHeight
			scale := 1 - math.Sqrt(dsq)/float64(radius)
			angle := math.Atan2(udx, udy)
			angle = math.Mod(angle+angleOffs+math.Pi, 2*math.Pi) - math.Pi
			angle = math.Abs(angle) / math.Pi
			angle = clampFloat((angle-(1-mo.PowerBlend)/2)/mo.PowerBlend, 0, 1)
			power := mo.PowerMin + (mo.PowerMax-mo.PowerMin)*angle
			scale = math.Pow(scale, power)
			if mo.CoastRamp > 0 {
				scale *= clampFloat(float64(c.coastDist[p])/mo.CoastRamp, 0, 1)
			}
			delta := (mo.WeightLocal*max(0, dh) + weightAbs*centerDH) * mo.HeightScale * scale
			c.mountainDelta[p] = max(c.mountainDelta[p], uint32(clampFloat(delta, 0, math.MaxUint32)))
		}
	}
}

// mountainify grows every chosen peak, keeping the largest lift per cell,
// and applies the lift once.
func (c *GenerationContext) mountainify() {
	peaks := c.choosePeaks()
	clear(c.mountainDelta)
	for _, pos := range peaks {
		c.growMountain(pos)
	}
	for pos, d := range c.mountainDelta {
		c.relev[pos] = satU16(int(c.relev[pos]) + int(d))
	}
}
