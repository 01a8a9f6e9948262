package world

import "math"

// Class is the terrain category of a cell.
type Class uint8

const (
	ClassWater Class = iota
	ClassPlains
	ClassHills
	ClassMountains
	numClasses
)

func (c Class) String() string {
	switch c {
	case ClassWater:
		return "water"
	case ClassPlains:
		return "plains"
	case ClassHills:
		return "hills"
	case ClassMountains:
		return "mountains"
	default:
		return "unknown"
	}
}

// blurHeight box-blurs elevation (floored at sea level) horizontally into
// blur1, then vertically into blur2. Cells closer than blur_w to an edge are
// left at zero.
func (c *GenerationContext) blurHeight() {
	size := c.grid.Size
	bw := c.opts.Classify.BlurW
	wlen := bw*2 + 1
	hmin := uint32(c.opts.Output.SeaRange)
	clear(c.blur1)
	clear(c.blur2)
	if wlen > size {
		return
	}

	for y := 0; y < size; y++ {
		for x := 0; x <= size-wlen; x++ {
			pos := c.grid.Index(x, y)
			var v uint32
			for dx := 0; dx < wlen; dx++ {
				v += max(hmin, uint32(c.relev[pos+dx]))
			}
			c.blur1[pos+bw] = uint32(math.Round(float64(v) / float64(wlen)))
		}
	}
	for y := 0; y <= size-wlen; y++ {
		for x := bw; x < size-bw; x++ {
			pos := c.grid.Index(x, y)
			var v uint32
			for dy := 0; dy < wlen; dy++ {
				v += c.blur1[pos+dy*size]
			}
			c.blur2[pos+bw*size] = uint32(math.Round(float64(v) / float64(wlen)))
		}
	}
}

// determineClassification buckets land by how far it stands above its
// blurred surroundings.
func (c *GenerationContext) determineClassification() {
	co := &c.opts.Classify
	c.blurHeight()
	for pos := range c.classif {
		if c.land[pos] == 0 {
			c.classif[pos] = uint8(ClassWater)
			continue
		}
		elev := float64(c.relev[pos])
		blurred := float64(c.blur2[pos])
		if c.blur2[pos] == 0 {
			blurred = elev
		}
		v := (elev - blurred) / co.BlurScale
		cl := ClassPlains
		switch {
		case v > co.Cut2:
			cl = ClassMountains
		case v > co.Cut1:
			cl = ClassHills
		}
		c.classif[pos] = uint8(cl)
	}
}
