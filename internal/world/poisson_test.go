package world

import "testing"

func TestPoissonSampleSpacing(t *testing.T) {
	opts := DefaultOptions(64)
	c, err := NewGenerator(nil).prepare(&opts)
	if err != nil {
		t.Fatal(err)
	}
	const radius = 5.0
	points := c.poissonSample(radius, 8)
	if len(points) < 20 {
		t.Fatalf("only %d samples on a 64x64 grid", len(points))
	}
	g := c.grid
	seen := map[int]bool{}
	for i, a := range points {
		if seen[a] {
			t.Fatalf("cell %d sampled twice", a)
		}
		seen[a] = true
		ax, ay := g.XY(a)
		for _, b := range points[i+1:] {
			bx, by := g.XY(b)
			dx, dy := float64(ax-bx), float64(ay-by)
			if dx*dx+dy*dy < radius*radius {
				t.Errorf("samples %d and %d closer than %v", a, b, radius)
			}
		}
	}
}

func TestMaxPerRegion(t *testing.T) {
	g, _ := NewGrid(16)
	field := make([]uint8, g.Total)
	field[g.Index(5, 5)] = 9
	field[g.Index(12, 12)] = 4
	field[g.Index(6, 6)] = 9 // ties keep the first cell scanned

	peaks := maxPerRegion(g, []int{g.Index(4, 4), g.Index(11, 11), g.Index(0, 15)}, field, 2)
	if len(peaks) != 3 {
		t.Fatalf("got %d peaks", len(peaks))
	}
	if peaks[0].pos != g.Index(5, 5) || peaks[0].value != 9 {
		t.Errorf("first peak = %+v, want 9 at (5,5)", peaks[0])
	}
	if peaks[1].pos != g.Index(12, 12) || peaks[1].value != 4 {
		t.Errorf("second peak = %+v, want 4 at (12,12)", peaks[1])
	}
	if peaks[2].value != 0 || peaks[2].pos != g.Index(0, 15) {
		t.Errorf("empty region peak = %+v", peaks[2])
	}
}
