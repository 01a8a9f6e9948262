// Package noise provides multi-octave, domain-warped coherent noise sampling
// over a named parameter group, with per-parameter "ranged" sub-noise.
package noise

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Param is a tunable that is either a plain number or a noise-interpolated
// range. A ranged param resolves to a value in [Min, Max] that varies over
// the map at frequency Freq.
type Param struct {
	Ranged bool
	Value  float64
	Min    float64
	Max    float64
	Freq   float64
}

// Scalar returns a constant param.
func Scalar(v float64) Param {
	return Param{Value: v}
}

// Ranged returns a param that varies between min and max.
func Ranged(min, max, freq float64) Param {
	return Param{Ranged: true, Min: min, Max: max, Freq: freq}
}

// Upper is the largest value the param can take.
func (p Param) Upper() float64 {
	if p.Ranged {
		return p.Max
	}
	return p.Value
}

// Lower is the smallest value the param can take.
func (p Param) Lower() float64 {
	if p.Ranged {
		return p.Min
	}
	return p.Value
}

// Validate rejects a range whose bounds are reversed.
func (p Param) Validate() error {
	if p.Ranged && p.Min > p.Max {
		return fmt.Errorf("range min %g above max %g", p.Min, p.Max)
	}
	return nil
}

// resolve maps a raw noise value in [-1, 1] onto the param's range.
func (p Param) resolve(n float64) float64 {
	if !p.Ranged {
		return p.Value
	}
	mul := (p.Max - p.Min) * 0.5
	return p.Min + mul + mul*n
}

type rangedJSON struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Freq float64 `json:"freq"`
}

// MarshalJSON writes a number for scalars and an object for ranges.
func (p Param) MarshalJSON() ([]byte, error) {
	if !p.Ranged {
		return json.Marshal(p.Value)
	}
	return json.Marshal(rangedJSON{Min: p.Min, Max: p.Max, Freq: p.Freq})
}

// UnmarshalJSON accepts either 1.5 or {"min":1,"max":2,"freq":0.3}.
func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var r rangedJSON
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("ranged param: %w", err)
		}
		*p = Ranged(r.Min, r.Max, r.Freq)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("scalar param: %w", err)
	}
	*p = Scalar(v)
	return nil
}

func (p Param) String() string {
	if p.Ranged {
		return fmt.Sprintf("[%g..%g @%g]", p.Min, p.Max, p.Freq)
	}
	return fmt.Sprintf("%g", p.Value)
}
