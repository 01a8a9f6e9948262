package world

import (
	"math"

	"github.com/talgya/hex-continent/internal/noise"
)

// slopeWeights weigh elevation differences per direction: positive when the
// neighbor lies to the right. The vertical axis does not count.
var slopeWeights = [numDirs]int{0, 1, 1, 0, -1, -1}

// humiditySlope weighs the left-right elevation differences around a land
// cell. A difference across the shore counts half.
func (c *GenerationContext) humiditySlope(pos int) float64 {
	elev := int(c.relev[pos])
	slope := 0.0
	for dir, off := range c.grid.Offsets(pos) {
		w := slopeWeights[dir]
		if w == 0 {
			continue
		}
		npos := pos + off
		d := float64(w * (elev - int(c.relev[npos])))
		if c.land[npos] == 0 {
			d /= 2
		}
		slope += d
	}
	return slope
}

// rainShadow fills humidity with the blurred slope term: 128 is neutral and
// water stays there.
func (c *GenerationContext) rainShadow() {
	g := c.grid
	slopeMul := 4096 / float64(c.opts.Output.LandRange)
	for pos := range c.humidity {
		if c.land[pos] == 0 {
			c.humidity[pos] = 128
			continue
		}
		c.humidity[pos] = uint8(clampFloat(128+c.humiditySlope(pos)*slopeMul, 0, 255))
	}

	copy(c.humidityTmp, c.humidity)
	for pos := range c.humidity {
		if c.land[pos] == 0 {
			continue
		}
		total := int(c.humidityTmp[pos])
		count := 1
		for _, off := range g.Offsets(pos) {
			npos := pos + off
			if c.land[npos] != 0 {
				total += int(c.humidityTmp[npos])
				count++
			}
		}
		c.humidity[pos] = uint8(math.Round(float64(total) / float64(count)))
	}
}

// generateHumidity derives rain shadow from the left-right slope of the land
// and blends it with the humidity noise.
func (c *GenerationContext) generateHumidity() {
	c.rainShadow()

	ho := &c.opts.Humidity
	c.sampleField(ho.Group, func(s *noise.Sampler, h float64, pos int) {
		shadow := (float64(c.humidity[pos]) - 128) / 127
		// Push toward [-1, -0.25] or [0.25, 1].
		if shadow >= 0 {
			shadow = 0.25 + shadow*0.75
		} else {
			shadow = -0.25 + shadow*0.75
		}
		effect := s.Param("rainshadow", ho.Rainshadow)
		shadow *= effect
		v := (h + shadow + effect) / (1 + effect*2)
		c.humidity[pos] = uint8(clampFloat(v*255, 0, 255))
	})
}
