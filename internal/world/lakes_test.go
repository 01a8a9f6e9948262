package world

import (
	"slices"
	"testing"
)

func lakeOptions(seed int64) Options {
	opts := DefaultOptions(64)
	opts.Seed = seed
	opts.Lakes.Percent = 1
	opts.Lakes.MinSep = 4
	return opts
}

// TestLakeInvariant checks every flooded basin right after flooding: the
// surface is above every flooded cell and below every cell two steps out.
func TestLakeInvariant(t *testing.T) {
	flooded := 0
	for _, seed := range []int64{1, 2, 3, 4, 5, 6} {
		c := runPhases(t, lakeOptions(seed), "fill_lakes")
		g := c.grid
		elev := slices.Clone(c.relev)

		visited := make([]bool, g.Total)
		for start, wl := range c.waterLevel {
			if wl == 0 || visited[start] {
				continue
			}
			// Collect one basin.
			basin := []int{start}
			inBasin := map[int]bool{start: true}
			visited[start] = true
			for i := 0; i < len(basin); i++ {
				for _, off := range g.Offsets(basin[i]) {
					n := basin[i] + off
					if c.waterLevel[n] != 0 && !visited[n] {
						if c.waterLevel[n] != wl {
							t.Fatalf("seed %d: adjacent flooded cells %d and %d at levels %d and %d",
								seed, basin[i], n, wl, c.waterLevel[n])
						}
						visited[n] = true
						inBasin[n] = true
						basin = append(basin, n)
					}
				}
			}
			flooded += len(basin)

			ring1 := map[int]bool{}
			for _, pos := range basin {
				if elev[pos] >= wl {
					t.Errorf("seed %d: flooded cell %d elev %d not below surface %d", seed, pos, elev[pos], wl)
				}
				if c.land[pos] != 0 {
					t.Errorf("seed %d: flooded cell %d still land", seed, pos)
				}
				for _, off := range g.Offsets(pos) {
					if n := pos + off; !inBasin[n] {
						ring1[n] = true
					}
				}
			}
			for r1 := range ring1 {
				if g.IsBorder(r1) {
					continue
				}
				for _, off := range g.Offsets(r1) {
					n := r1 + off
					if inBasin[n] || ring1[n] {
						continue
					}
					if elev[n] <= wl {
						t.Errorf("seed %d: ring-2 cell %d elev %d not above surface %d", seed, n, elev[n], wl)
					}
				}
			}
		}
	}
	t.Logf("%d flooded cells checked", flooded)
}

func TestFloodedRiversPruned(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		c := runPhases(t, lakeOptions(seed), "flooded_rivers")
		for pos, r := range c.river {
			if r != 0 && c.waterLevel[pos] != 0 {
				t.Fatalf("seed %d: river cell %d lies under a lake", seed, pos)
			}
		}
		checkForest(t, c)
	}
}

func TestLakeSeedsSeparated(t *testing.T) {
	opts := lakeOptions(9)
	c := runPhases(t, opts, "lakes")
	g := c.grid
	for i, a := range c.lakes {
		if c.land[a] != 0 || c.fill[a] != FillInlandSea {
			t.Errorf("lake seed %d is not inland water", a)
		}
		ax, ay := g.XY(a)
		for _, b := range c.lakes[i+1:] {
			bx, by := g.XY(b)
			dx, dy := ax-bx, ay-by
			if dx*dx+dy*dy < opts.Lakes.MinSep*opts.Lakes.MinSep {
				t.Errorf("lake seeds %d and %d closer than %d", a, b, opts.Lakes.MinSep)
			}
		}
	}
}
