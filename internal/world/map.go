package world

import (
	"fmt"
	"slices"
	"time"

	"github.com/talgya/hex-continent/internal/codec"
)

// Map is a generated continent. Every array has Size*Size entries indexed
// by y*Size+x.
type Map struct {
	Size         int   `json:"size"`
	Seed         int64 `json:"seed"`
	SeaLevel     int   `json:"sea_level"`
	MaxElevation int   `json:"max_elevation"`

	Elevation      []uint16 `json:"-"`
	Humidity       []uint8  `json:"-"`
	River          []uint8  `json:"-"` // bit d set when water flows across edge d
	WaterLevel     []uint16 `json:"-"` // lake surface, 0 outside lakes
	Classification []uint8  `json:"-"` // a Class per cell

	Elapsed     time.Duration `json:"elapsed"`
	Diagnostics *Diagnostics  `json:"-"`
}

// Diagnostics carries intermediate fields, attached when output.debug is set.
type Diagnostics struct {
	Land          []uint8
	Fill          []Fill
	TerrainSlope  []uint8
	RiverSlope    []uint8
	Strahler      []uint8
	CoastDistance []uint8
	OceanDistance []uint8
	Priority      []uint8
}

func (c *GenerationContext) result() *Map {
	out := &c.opts.Output
	m := &Map{
		Size:           c.grid.Size,
		Seed:           c.opts.Seed,
		SeaLevel:       out.SeaRange,
		MaxElevation:   out.SeaRange + out.LandRange,
		Elevation:      slices.Clone(c.relev),
		Humidity:       slices.Clone(c.humidity),
		River:          slices.Clone(c.river),
		WaterLevel:     slices.Clone(c.waterLevel),
		Classification: slices.Clone(c.classif),
	}
	if out.Debug {
		m.Diagnostics = &Diagnostics{
			Land:          slices.Clone(c.land),
			Fill:          slices.Clone(c.fill),
			TerrainSlope:  slices.Clone(c.tslope),
			RiverSlope:    slices.Clone(c.rslope),
			Strahler:      slices.Clone(c.strahler),
			CoastDistance: slices.Clone(c.coastDist),
			OceanDistance: slices.Clone(c.oceanDist),
			Priority:      slices.Clone(c.priority),
		}
	}
	return m
}

// ClassCounts returns the number of cells in each class.
func (m *Map) ClassCounts() map[Class]int {
	counts := make(map[Class]int, numClasses)
	for _, v := range m.Classification {
		counts[Class(v)]++
	}
	return counts
}

// LandCells returns the number of cells not classified as water.
func (m *Map) LandCells() int {
	n := 0
	for _, v := range m.Classification {
		if Class(v) != ClassWater {
			n++
		}
	}
	return n
}

// Fields returns the arrays the codec stores. The slices are shared.
func (m *Map) Fields() *codec.Fields {
	return &codec.Fields{
		SeaLevel:       m.SeaLevel,
		MaxElevation:   m.MaxElevation,
		Elevation:      m.Elevation,
		WaterLevel:     m.WaterLevel,
		Humidity:       m.Humidity,
		River:          m.River,
		Classification: m.Classification,
	}
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(size=%d, seed=%d, land=%d/%d)", m.Size, m.Seed, m.LandCells(), len(m.Classification))
}
