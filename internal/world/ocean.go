package world

import (
	"math"

	"github.com/talgya/hex-continent/internal/noise"
)

// generateOcean sets ocean depth (0 shallow, 255 deep) from the distance to
// the coast, roughened by noise away from both ends of the range.
func (c *GenerationContext) generateOcean() {
	bmd := float64(max(c.borderMinDist, 1))
	c.sampleField(c.opts.Ocean, func(_ *noise.Sampler, h float64, pos int) {
		if c.fill[pos] != FillSeaSecondary && c.fill[pos] != FillBorder {
			return
		}
		d := clampFloat(float64(c.oceanDist[pos])/bmd, 0, 1)
		d -= h * (0.5 - math.Abs(d-0.5))
		c.relev[pos] = uint16(clampFloat(d*255, 0, 255))
	})
}

// generateOutputElevation converts land heights and ocean depths into the
// output units, with sea level at SeaRange.
func (c *GenerationContext) generateOutputElevation() {
	out := &c.opts.Output
	estMax := float64(c.opts.RSlope.Steps*50 + 80)
	c.voxelScale = float64(out.LandRange) / 2 / estMax
	sea := float64(out.SeaRange)
	for pos, e := range c.relev {
		var v float64
		if c.land[pos] != 0 {
			v = sea + float64(e)*c.voxelScale
		} else {
			v = sea - 1 - float64(e)/255*sea
		}
		c.relev[pos] = toU16(math.Round(v))
	}
	clear(c.waterLevel)
}

// fixupCoastalWaters makes water next to land no deeper than the lowest
// neighboring land is high, then lifts land sitting exactly at sea level.
func (c *GenerationContext) fixupCoastalWaters() {
	g := c.grid
	sea := c.opts.Output.SeaRange
	for pos := range c.relev {
		if c.fill[pos] != FillSeaSecondary {
			continue
		}
		minDelta := math.MaxInt
		for _, off := range g.Offsets(pos) {
			npos := pos + off
			if c.land[npos] != 0 {
				minDelta = min(minDelta, int(c.relev[npos])-sea)
			}
		}
		if minDelta != math.MaxInt {
			c.relev[pos] = max(c.relev[pos], satU16(sea-max(minDelta, 1)))
		}
	}
	for pos, e := range c.relev {
		if int(e) == sea && c.river[pos] == 0 {
			lift := float64(min(c.rslope[pos], c.tslope[pos])) * c.voxelScale * 0.5
			c.relev[pos] = toU16(float64(sea) + lift)
		}
	}
}

// blurExtremeSlopes pulls land cells at the foot of a cliff toward the
// average of their neighborhood.
func (c *GenerationContext) blurExtremeSlopes() {
	g := c.grid
	bo := &c.opts.Blur
	sea := c.opts.Output.SeaRange
	type blur struct {
		pos  int
		elev uint16
	}
	var blurs []blur
	for pos := range c.relev {
		if c.land[pos] == 0 || c.river[pos] != 0 {
			continue
		}
		elev := int(c.relev[pos])
		steep := false
		total := elev
		for _, off := range g.Offsets(pos) {
			nelev := int(c.relev[pos+off])
			if nelev-elev > bo.Threshold {
				steep = true
			}
			total += max(sea, nelev)
		}
		if !steep {
			continue
		}
		avg := math.Round(float64(total) / 7)
		v := float64(elev) + (avg-float64(elev))*bo.Weight
		blurs = append(blurs, blur{pos, toU16(v)})
	}
	for _, b := range blurs {
		c.relev[b.pos] = b.elev
	}
}
