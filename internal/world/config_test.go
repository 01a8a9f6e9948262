package world

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/talgya/hex-continent/internal/noise"
)

func TestDefaultOptionsValid(t *testing.T) {
	for _, size := range []int{MinSize, 16, 64, 256, MaxSize} {
		opts := DefaultOptions(size)
		if err := opts.Validate(); err != nil {
			t.Errorf("DefaultOptions(%d).Validate() = %v", size, err)
		}
	}
}

func TestDefaultOptionsScaleRadii(t *testing.T) {
	small := DefaultOptions(16)
	big := DefaultOptions(256)
	if big.Lakes.SearchRadius != 10 || big.Lakes.MinSep != 40 {
		t.Errorf("256 lake radii = %d/%d, want 10/40", big.Lakes.SearchRadius, big.Lakes.MinSep)
	}
	if small.Mountainify.PeakRadius != 1 {
		t.Errorf("16 peak radius = %d, want 1", small.Mountainify.PeakRadius)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"size too small", func(o *Options) { o.Size = 4 }},
		{"size too big", func(o *Options) { o.Size = 1024 }},
		{"no octaves", func(o *Options) { o.Coast.Octaves = 0 }},
		{"cutoff above one", func(o *Options) { o.Coast.Cutoff = noise.Scalar(1.5) }},
		{"cutoff one", func(o *Options) { o.Coast.Cutoff = noise.Scalar(1) }},
		{"cutoff zero", func(o *Options) { o.Coast.Cutoff = noise.Scalar(0) }},
		{"ranged cutoff below zero", func(o *Options) { o.Coast.Cutoff = noise.Ranged(-5, 0.5, 1) }},
		{"ranged cutoff reversed", func(o *Options) { o.Coast.Cutoff = noise.Ranged(0.6, 0.3, 1) }},
		{"negative rainshadow", func(o *Options) { o.Humidity.Rainshadow = noise.Scalar(-0.5) }},
		{"rainshadow above one", func(o *Options) { o.Humidity.Rainshadow = noise.Ranged(0.5, 1.5, 1) }},
		{"reversed tslope range", func(o *Options) { o.TSlope.Range = noise.Ranged(8, 2, 1) }},
		{"reversed group frequency", func(o *Options) { o.Ocean.Frequency = noise.Ranged(3, 1, 1) }},
		{"zero lake separation", func(o *Options) { o.Lakes.MinSep = 0 }},
		{"zero steps", func(o *Options) { o.RSlope.Steps = 0 }},
		{"zero weights", func(o *Options) {
			o.River.WeightBend, o.River.WeightAsymFork, o.River.WeightSymFork = 0, 0, 0
		}},
		{"negative weight", func(o *Options) { o.River.WeightBend = -1 }},
		{"zero tuning window", func(o *Options) { o.River.TuningH = 0 }},
		{"lake percent", func(o *Options) { o.Lakes.Percent = 2 }},
		{"peak radius", func(o *Options) { o.Mountainify.PeakRadius = 0 }},
		{"power blend", func(o *Options) { o.Mountainify.PowerBlend = 0 }},
		{"blur scale", func(o *Options) { o.Classify.BlurScale = 0 }},
		{"output range", func(o *Options) { o.Output.LandRange = 60000 }},
		{"early out", func(o *Options) { o.EarlyOut = "mountains" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions(64)
			tt.mutate(&opts)
			if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Validate() = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestOptionsJSONOverlay(t *testing.T) {
	opts := DefaultOptions(64)
	data := []byte(`{"seed": 9, "coast": {"cutoff": {"min": 0.3, "max": 0.6, "freq": 2}, "fill_seas": false},
		"river": {"tuning_h": 8}, "early_out": "river"}`)
	if err := json.Unmarshal(data, &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Seed != 9 || opts.River.TuningH != 8 || opts.EarlyOut != StageRiver {
		t.Errorf("overlay not applied: seed=%d tuning_h=%d early_out=%q", opts.Seed, opts.River.TuningH, opts.EarlyOut)
	}
	if !opts.Coast.Cutoff.Ranged || opts.Coast.Cutoff.Max != 0.6 {
		t.Errorf("cutoff = %v, want ranged up to 0.6", opts.Coast.Cutoff)
	}
	if opts.Coast.FillSeas || !opts.Coast.Channels {
		t.Errorf("fill_seas/channels = %v/%v, want false/true", opts.Coast.FillSeas, opts.Coast.Channels)
	}
	if opts.River.WeightBend != 2 || opts.Coast.Octaves != 6 {
		t.Errorf("defaults lost: weight_bend=%d octaves=%d", opts.River.WeightBend, opts.Coast.Octaves)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
