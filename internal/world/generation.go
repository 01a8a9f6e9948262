package world

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// phase is one step of generation. Phases run in order and share the
// context's buffers.
type phase struct {
	name string
	run  func(c *GenerationContext) error
}

func step(fn func(c *GenerationContext)) func(c *GenerationContext) error {
	return func(c *GenerationContext) error {
		fn(c)
		return nil
	}
}

// phases lists generation in order. Lake flooding happens long after lake
// seeding because it needs the final output elevations.
var phases = []phase{
	{"coastlines", step((*GenerationContext).generateCoastlines)},
	{"seas", (*GenerationContext).fillSeas},
	{"lakes", step((*GenerationContext).generateLakes)},
	{"terrain_slope", step((*GenerationContext).generateTerrainSlope)},
	{"river_slope", step((*GenerationContext).generateRiverSlope)},
	{"rivers", (*GenerationContext).generateRivers},
	{"ocean_distance", step((*GenerationContext).generateOceanDistance)},
	{"ocean", step((*GenerationContext).generateOcean)},
	{"output_elevation", step((*GenerationContext).generateOutputElevation)},
	{"coastal_waters", step((*GenerationContext).fixupCoastalWaters)},
	{"slope_blur", step((*GenerationContext).blurExtremeSlopes)},
	{"fill_lakes", step((*GenerationContext).fillLakes)},
	{"flooded_rivers", func(c *GenerationContext) error {
		c.pruneFloodedRivers()
		return c.computeStrahler()
	}},
	{"coast_distance", step((*GenerationContext).generateCoastDistance)},
	{"mountains", step((*GenerationContext).mountainify)},
	{"uphill_rivers", (*GenerationContext).pruneUphillRivers},
	{"humidity", func(c *GenerationContext) error {
		if c.opts.EarlyOut != StageRiver {
			c.generateHumidity()
		}
		return nil
	}},
	{"classification", step((*GenerationContext).determineClassification)},
}

// Generator produces continents. It keeps its buffers between calls and
// reallocates them only when the grid size changes. A Generator is not safe
// for concurrent use; run one per goroutine.
type Generator struct {
	logger *slog.Logger
	ctx    *GenerationContext
}

// NewGenerator returns a Generator logging to logger, or to the default
// logger when nil.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// prepare validates opts and readies a context for them.
func (gen *Generator) prepare(opts *Options) (*GenerationContext, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if gen.ctx == nil || gen.ctx.grid.Size != opts.Size {
		g, err := NewGrid(opts.Size)
		if err != nil {
			return nil, err
		}
		gen.ctx = newGenerationContext(g)
	}
	gen.ctx.reset(opts)
	return gen.ctx, nil
}

// Generate builds a continent. The result depends only on opts. ctx is
// checked between phases; a cancelled context stops before the next phase.
func (gen *Generator) Generate(ctx context.Context, opts Options) (*Map, error) {
	start := time.Now()
	c, err := gen.prepare(&opts)
	if err != nil {
		return nil, err
	}

	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		if err := p.run(c); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		gen.logger.Debug("phase done", "phase", p.name, "elapsed", time.Since(t))
	}

	m := c.result()
	m.Elapsed = time.Since(start)
	gen.logger.Debug("continent generated",
		"seed", opts.Seed,
		"size", opts.Size,
		"lakes", len(c.lakes),
		"mouths", len(c.coastlines),
		"elapsed", m.Elapsed,
	)
	return m, nil
}
