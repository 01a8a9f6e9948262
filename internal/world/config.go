package world

import (
	"math"

	"github.com/talgya/hex-continent/internal/noise"
)

// CoastOptions shape the land mask.
type CoastOptions struct {
	noise.Group
	Cutoff   noise.Param `json:"cutoff"`    // fraction of cells kept as water, before squaring
	FillSeas bool        `json:"fill_seas"` // turn landlocked seas into land
	Channels bool        `json:"channels"`  // try to carve a channel from inland seas to the ocean
}

// TerrainSlopeOptions drive the per-cell roughness added while building up height.
type TerrainSlopeOptions struct {
	noise.Group
	Min   noise.Param `json:"min"`
	Range noise.Param `json:"range"`
}

// RiverSlopeOptions drive the elevation gained per river step.
type RiverSlopeOptions struct {
	noise.Group
	Steps int `json:"steps"`
}

// RiverOptions tune the river growth process.
type RiverOptions struct {
	WeightBend      int  `json:"weight_bend"`
	WeightAsymFork  int  `json:"weight_afork"`
	WeightSymFork   int  `json:"weight_sfork"`
	MaxTerrainSlope int  `json:"max_tslope"`
	TuningH         int  `json:"tuning_h"`
	Prune           bool `json:"prune"`
	UphillPrune     bool `json:"mtify_prune"`
	UphillGrace     int  `json:"mtify_prune_grace"`
}

// LakeOptions tune lake seeding.
type LakeOptions struct {
	SearchRadius int     `json:"lake_search_radius"`
	Percent      float64 `json:"lake_percent"`
	K            int     `json:"lake_k"`
	MinSep       int     `json:"min_sep"`
}

// BlurOptions tune the extreme-slope smoothing pass.
type BlurOptions struct {
	Threshold int     `json:"threshold"`
	Weight    float64 `json:"weight"`
}

// MountainOptions tune peak growth.
type MountainOptions struct {
	PeakRadius  int     `json:"peak_radius"`
	PeakPercent float64 `json:"peak_percent"`
	PeakK       int     `json:"peak_k"`
	HeightScale float64 `json:"height_scale"`
	BlendRadius int     `json:"blend_radius"`
	WeightLocal float64 `json:"weight_local"`
	PowerMin    float64 `json:"power_min"`
	PowerMax    float64 `json:"power_max"`
	PowerBlend  float64 `json:"power_blend"`
	CoastRamp   float64 `json:"cdist_ramp"`
}

// HumidityOptions blend slope-derived rain shadow with noise.
type HumidityOptions struct {
	noise.Group
	Rainshadow noise.Param `json:"rainshadow"`
}

// ClassifyOptions bucket relief into plains, hills and mountains.
type ClassifyOptions struct {
	Cut1      float64 `json:"cut1"`
	Cut2      float64 `json:"cut2"`
	BlurScale float64 `json:"blur_scale"`
	BlurW     int     `json:"blur_w"`
}

// OutputOptions set the elevation units of the result.
type OutputOptions struct {
	SeaRange  int  `json:"sea_range"`
	LandRange int  `json:"land_range"`
	Debug     bool `json:"debug"` // attach diagnostic arrays to the Map
}

// Stage names an optional early stop.
type Stage string

const (
	StageFull  Stage = ""
	StageRiver Stage = "river" // stop before river growth and humidity
)

// Options is the complete parameter set for one generation.
type Options struct {
	Size        int                 `json:"hex_tex_size"`
	Seed        int64               `json:"seed"`
	Coast       CoastOptions        `json:"coast"`
	TSlope      TerrainSlopeOptions `json:"tslope"`
	RSlope      RiverSlopeOptions   `json:"rslope"`
	River       RiverOptions        `json:"river"`
	Ocean       noise.Group         `json:"ocean"`
	Lakes       LakeOptions         `json:"lakes"`
	Blur        BlurOptions         `json:"blur"`
	Mountainify MountainOptions     `json:"mountainify"`
	Humidity    HumidityOptions     `json:"humidity"`
	Classify    ClassifyOptions     `json:"classif"`
	Output      OutputOptions       `json:"output"`
	EarlyOut    Stage               `json:"early_out"`
}

// DefaultOptions returns the tuned defaults, with radii scaled to the grid size.
func DefaultOptions(size int) Options {
	scaled := func(v float64) int {
		return max(1, int(math.Round(v*float64(size)/256)))
	}
	return Options{
		Size: size,
		Seed: 1,
		Coast: CoastOptions{
			Group: noise.Group{
				Key:         "",
				Frequency:   noise.Scalar(2),
				Amplitude:   1,
				Persistence: noise.Scalar(0.5),
				Lacunarity:  noise.Ranged(1.6, 2.8, 0.3),
				Octaves:     6,
				DomainWarp:  0,
				WarpFreq:    1,
				WarpAmp:     0.1,
			},
			Cutoff:   noise.Scalar(0.5),
			FillSeas: true,
			Channels: true,
		},
		TSlope: TerrainSlopeOptions{
			Group: noise.Group{
				Key:         "ts",
				Frequency:   noise.Scalar(3.5),
				Amplitude:   1,
				Persistence: noise.Scalar(0.5),
				Lacunarity:  noise.Scalar(1.33),
				Octaves:     1,
				DomainWarp:  1,
				WarpFreq:    1,
				WarpAmp:     0.1,
			},
			Min:   noise.Scalar(0),
			Range: noise.Scalar(8),
		},
		RSlope: RiverSlopeOptions{
			Group: noise.Group{
				Key:         "rs",
				Frequency:   noise.Scalar(1.2),
				Amplitude:   1,
				Persistence: noise.Scalar(0.5),
				Lacunarity:  noise.Scalar(1.33),
				Octaves:     1,
				DomainWarp:  1,
				WarpFreq:    1,
				WarpAmp:     0.1,
			},
			Steps: 4,
		},
		River: RiverOptions{
			WeightBend:      2,
			WeightAsymFork:  2,
			WeightSymFork:   1,
			MaxTerrainSlope: 48,
			TuningH:         32,
			Prune:           true,
			UphillPrune:     true,
			UphillGrace:     100,
		},
		Ocean: noise.Group{
			Key:         "oc",
			Frequency:   noise.Scalar(3),
			Amplitude:   1,
			Persistence: noise.Scalar(0.5),
			Lacunarity:  noise.Scalar(2.4),
			Octaves:     3,
			DomainWarp:  1,
			WarpFreq:    1,
			WarpAmp:     1,
		},
		Lakes: LakeOptions{
			SearchRadius: scaled(10),
			Percent:      0.10,
			K:            5,
			MinSep:       scaled(40),
		},
		Blur: BlurOptions{
			Threshold: 500,
			Weight:    1,
		},
		Mountainify: MountainOptions{
			PeakRadius:  scaled(10),
			PeakPercent: 0.80,
			PeakK:       5,
			HeightScale: 3,
			BlendRadius: scaled(10),
			WeightLocal: 0.25,
			PowerMin:    1,
			PowerMax:    4,
			PowerBlend:  0.25,
			CoastRamp:   2,
		},
		Humidity: HumidityOptions{
			Group: noise.Group{
				Key:         "hu",
				Frequency:   noise.Scalar(2.2),
				Amplitude:   1,
				Persistence: noise.Scalar(0.5),
				Lacunarity:  noise.Scalar(4),
				Octaves:     3,
				DomainWarp:  0,
				WarpFreq:    1,
				WarpAmp:     1,
			},
			Rainshadow: noise.Scalar(0.75),
		},
		Classify: ClassifyOptions{
			Cut1:      0.033,
			Cut2:      0.666,
			BlurScale: 680,
			BlurW:     10,
		},
		Output: OutputOptions{
			SeaRange:  1 << 13,
			LandRange: 1 << 14,
		},
	}
}

// Validate checks every precondition the phases rely on.
func (o *Options) Validate() error {
	if o.Size < MinSize || o.Size > MaxSize {
		return optionf("hex_tex_size %d outside [%d, %d]", o.Size, MinSize, MaxSize)
	}
	groups := []struct {
		name string
		g    noise.Group
	}{
		{"coast", o.Coast.Group},
		{"tslope", o.TSlope.Group},
		{"rslope", o.RSlope.Group},
		{"ocean", o.Ocean},
		{"humidity", o.Humidity.Group},
	}
	for _, g := range groups {
		if err := g.g.Validate(); err != nil {
			return optionf("%s: %v", g.name, err)
		}
	}
	params := []struct {
		name string
		p    noise.Param
	}{
		{"coast.cutoff", o.Coast.Cutoff},
		{"tslope.min", o.TSlope.Min},
		{"tslope.range", o.TSlope.Range},
		{"humidity.rainshadow", o.Humidity.Rainshadow},
	}
	for _, np := range params {
		if err := np.p.Validate(); err != nil {
			return optionf("%s: %v", np.name, err)
		}
	}
	// All land leaves no ocean, all water leaves no coast.
	if o.Coast.Cutoff.Lower() <= 0 || o.Coast.Cutoff.Upper() >= 1 {
		return optionf("coast.cutoff must be within (0, 1), got %v", o.Coast.Cutoff)
	}
	if rs := o.Humidity.Rainshadow; rs.Lower() < 0 || rs.Upper() > 1 {
		return optionf("humidity.rainshadow must be within [0, 1], got %v", rs)
	}
	if o.RSlope.Steps < 1 || o.RSlope.Steps > 255 {
		return optionf("rslope.steps must be within [1, 255], got %d", o.RSlope.Steps)
	}

	r := o.River
	if r.WeightBend < 0 || r.WeightAsymFork < 0 || r.WeightSymFork < 0 {
		return optionf("river weights must be >= 0")
	}
	if r.WeightBend+r.WeightAsymFork+r.WeightSymFork == 0 {
		return optionf("river weights must not all be zero")
	}
	if r.TuningH < 1 {
		return optionf("river.tuning_h must be >= 1")
	}
	if r.MaxTerrainSlope < 0 || r.UphillGrace < 0 {
		return optionf("river.max_tslope and river.mtify_prune_grace must be >= 0")
	}

	l := o.Lakes
	if l.SearchRadius < 1 || l.K < 1 || l.MinSep < 1 {
		return optionf("lakes: search radius, k and min_sep must be >= 1")
	}
	if l.Percent < 0 || l.Percent > 1 {
		return optionf("lakes.lake_percent must be within [0, 1]")
	}

	m := o.Mountainify
	if m.PeakRadius < 1 || m.PeakK < 1 || m.BlendRadius < 1 {
		return optionf("mountainify: peak radius, peak k and blend radius must be >= 1")
	}
	if m.PeakPercent < 0 || m.PeakPercent > 1 {
		return optionf("mountainify.peak_percent must be within [0, 1]")
	}
	if m.PowerBlend <= 0 {
		return optionf("mountainify.power_blend must be > 0")
	}
	if m.CoastRamp < 0 {
		return optionf("mountainify.cdist_ramp must be >= 0")
	}

	c := o.Classify
	if c.BlurW < 0 || c.BlurScale <= 0 {
		return optionf("classif: blur_w must be >= 0 and blur_scale > 0")
	}

	out := o.Output
	if out.SeaRange < 1 || out.LandRange < 1 || out.SeaRange+out.LandRange > math.MaxUint16 {
		return optionf("output: sea_range and land_range must be >= 1 and sum to at most %d", math.MaxUint16)
	}

	switch o.EarlyOut {
	case StageFull, StageRiver:
	default:
		return optionf("unknown early_out stage %q", o.EarlyOut)
	}
	return nil
}
