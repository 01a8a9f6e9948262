package noise

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hex-continent/internal/entropy"
)

// Basis selects the coherent noise function behind a group.
type Basis uint8

const (
	BasisSimplex Basis = iota // OpenSimplex, the default
	BasisPerlin               // Classic gradient noise
)

// String returns the basis name used in option files.
func (b Basis) String() string {
	switch b {
	case BasisSimplex:
		return "simplex"
	case BasisPerlin:
		return "perlin"
	default:
		return "basis(" + strconv.Itoa(int(b)) + ")"
	}
}

// ParseBasis turns an option-file name into a Basis.
func ParseBasis(s string) (Basis, error) {
	switch s {
	case "", "simplex":
		return BasisSimplex, nil
	case "perlin":
		return BasisPerlin, nil
	default:
		return 0, fmt.Errorf("unknown noise basis %q", s)
	}
}

func (b Basis) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *Basis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseBasis(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Group is a named set of fractal noise parameters.
type Group struct {
	Key         string  `json:"key"`
	Basis       Basis   `json:"basis"`
	Frequency   Param   `json:"frequency"`
	Amplitude   float64 `json:"amplitude"`
	Persistence Param   `json:"persistence"`
	Lacunarity  Param   `json:"lacunarity"`
	Octaves     int     `json:"octaves"`
	DomainWarp  int     `json:"domain_warp"`
	WarpFreq    float64 `json:"warp_freq"`
	WarpAmp     float64 `json:"warp_amp"`
}

// Validate reports parameter combinations that cannot produce a sample.
func (g Group) Validate() error {
	if g.Octaves < 1 {
		return fmt.Errorf("group %q: octaves must be >= 1, got %d", g.Key, g.Octaves)
	}
	if g.Amplitude <= 0 {
		return fmt.Errorf("group %q: amplitude must be > 0", g.Key)
	}
	if g.DomainWarp < 0 {
		return fmt.Errorf("group %q: domain_warp must be >= 0", g.Key)
	}
	if g.Basis > BasisPerlin {
		return fmt.Errorf("group %q: %v", g.Key, g.Basis)
	}
	params := []struct {
		name string
		p    Param
	}{
		{"frequency", g.Frequency},
		{"persistence", g.Persistence},
		{"lacunarity", g.Lacunarity},
	}
	for _, np := range params {
		if err := np.p.Validate(); err != nil {
			return fmt.Errorf("group %q: %s: %w", g.Key, np.name, err)
		}
	}
	return nil
}

// source is the two-dimensional noise contract both bases satisfy.
// Values are roughly in [-1, 1].
type source interface {
	Eval2(x, y float64) float64
}

type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Eval2(x, y float64) float64 {
	return s.p.Noise2D(x, y)
}

func newSource(b Basis, seed int64) source {
	if b == BasisPerlin {
		return perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}
	}
	return opensimplex.New(seed)
}

// Sampler evaluates one Group for one world seed.
// Not safe for concurrent use.
type Sampler struct {
	group    Group
	seed     int64
	octaves  []source
	warps    []source
	fields   map[string]source
	totalAmp float64

	// last warped position, used to resolve ranged params
	px, py float64
}

// NewSampler builds the octave and warp noise for a group.
func NewSampler(seed int64, g Group) *Sampler {
	s := &Sampler{
		group:  g,
		seed:   seed,
		fields: make(map[string]source),
	}
	s.octaves = make([]source, g.Octaves)
	for i := range s.octaves {
		s.octaves[i] = newSource(g.Basis, entropy.Derive(seed, "n", g.Key, strconv.Itoa(i)))
	}
	s.warps = make([]source, g.DomainWarp)
	for i := range s.warps {
		s.warps[i] = newSource(g.Basis, entropy.Derive(seed, "w", g.Key, strconv.Itoa(i)))
	}

	// Normalizer for the result: the sum of every octave's amplitude.
	amp := g.Amplitude
	p := g.Persistence.Upper()
	for i := 0; i < g.Octaves; i++ {
		s.totalAmp += amp
		amp *= p
	}
	return s
}

// Param resolves p at the most recent sample position. Any field of any
// group may be ranged; its noise is keyed by the field name.
func (s *Sampler) Param(field string, p Param) float64 {
	if !p.Ranged {
		return p.Value
	}
	src, ok := s.fields[field]
	if !ok {
		src = newSource(s.group.Basis, entropy.Derive(s.seed, "f", s.group.Key, field))
		s.fields[field] = src
	}
	return p.resolve(src.Eval2(s.px*p.Freq, s.py*p.Freq))
}

// Sample returns the fractal noise value in [0, 1] at a unit-space position.
func (s *Sampler) Sample(x, y float64) float64 {
	g := &s.group
	s.px, s.py = x, y
	for _, w := range s.warps {
		dx := w.Eval2(s.px*g.WarpFreq, s.py*g.WarpFreq)
		dy := w.Eval2((s.px+7)*g.WarpFreq, s.py*g.WarpFreq)
		s.px += dx * g.WarpAmp
		s.py += dy * g.WarpAmp
	}

	total := 0.0
	amp := g.Amplitude
	freq := s.Param("frequency", g.Frequency)
	persistence := s.Param("persistence", g.Persistence)
	lacunarity := s.Param("lacunarity", g.Lacunarity)
	for _, o := range s.octaves {
		total += (0.5 + 0.5*o.Eval2(s.px*freq, s.py*freq)) * amp
		amp *= persistence
		freq *= lacunarity
	}
	v := total / s.totalAmp
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
