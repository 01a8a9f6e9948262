package codec

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrMagic       = errors.New("codec: bad magic")
	ErrVersion     = errors.New("codec: unsupported version")
	ErrCorrupt     = errors.New("codec: corrupt payload")
	ErrSize        = errors.New("codec: bad grid size")
	ErrUnencodable = errors.New("codec: value cannot be encoded")
)

// Version is the container format written by Encode.
const Version = 1

// MaxCells bounds the grid a container may declare.
const MaxCells = 512 * 512

const fieldMagic = 227

var magic = []byte("HXC")

// Fields are the externally meaningful arrays of a continent. All arrays
// have the same length.
type Fields struct {
	SeaLevel     int
	MaxElevation int

	Elevation      []uint16
	WaterLevel     []uint16
	Humidity       []uint8
	River          []uint8
	Classification []uint8
}

// Field order and compression are fixed by the format.
var (
	methodElevation      = DeltaPackInt
	methodWaterLevel     = RLEDict
	methodHumidity       = DeltaPackInt
	methodRiver          = RLEZeroes
	methodClassification = RLEU2
)

// Cells returns the grid size, or an error when the arrays disagree.
func (f *Fields) Cells() (int, error) {
	n := len(f.Elevation)
	for _, l := range []int{len(f.WaterLevel), len(f.Humidity), len(f.River), len(f.Classification)} {
		if l != n {
			return 0, fmt.Errorf("%w: field lengths differ (%d vs %d)", ErrSize, l, n)
		}
	}
	if n > MaxCells {
		return 0, fmt.Errorf("%w: %d cells exceeds %d", ErrSize, n, MaxCells)
	}
	return n, nil
}

// Encode serializes f.
func Encode(f *Fields) ([]byte, error) {
	n, err := f.Cells()
	if err != nil {
		return nil, err
	}
	w := &writer{buf: make([]byte, 0, n*3)}
	w.buf = append(w.buf, magic...)
	w.writeUint(Version)
	w.writeInt(int64(f.SeaLevel))
	w.writeInt(int64(f.MaxElevation))
	w.writeUint(uint64(n))

	encoders := []func() error{
		func() error { return encodeInto(w, methodElevation, f.Elevation) },
		func() error { return encodeInto(w, methodWaterLevel, f.WaterLevel) },
		func() error { return encodeInto(w, methodHumidity, f.Humidity) },
		func() error { return encodeInto(w, methodRiver, f.River) },
		func() error { return encodeInto(w, methodClassification, f.Classification) },
	}
	for _, enc := range encoders {
		w.writeUint(fieldMagic)
		if err := enc(); err != nil {
			return nil, err
		}
	}
	return w.buf, nil
}

// Decode parses a container written by Encode. It refuses to read past the
// declared grid size and rejects trailing bytes.
func Decode(data []byte) (*Fields, error) {
	if !bytes.HasPrefix(data, magic) {
		return nil, ErrMagic
	}
	r := &reader{buf: data, off: len(magic)}
	ver, err := r.readInt()
	if err != nil {
		return nil, err
	}
	if ver != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, ver)
	}
	sea, err := r.readInt()
	if err != nil {
		return nil, err
	}
	maxElev, err := r.readInt()
	if err != nil {
		return nil, err
	}
	total, err := r.readInt()
	if err != nil {
		return nil, err
	}
	if total < 0 || total > MaxCells {
		return nil, fmt.Errorf("%w: declared %d cells", ErrSize, total)
	}
	n := int(total)

	f := &Fields{
		SeaLevel:       int(sea),
		MaxElevation:   int(maxElev),
		Elevation:      make([]uint16, n),
		WaterLevel:     make([]uint16, n),
		Humidity:       make([]uint8, n),
		River:          make([]uint8, n),
		Classification: make([]uint8, n),
	}
	decoders := []struct {
		name string
		fn   func() error
	}{
		{"elevation", func() error { return decodeFrom(r, methodElevation, f.Elevation) }},
		{"water_level", func() error { return decodeFrom(r, methodWaterLevel, f.WaterLevel) }},
		{"humidity", func() error { return decodeFrom(r, methodHumidity, f.Humidity) }},
		{"river", func() error { return decodeFrom(r, methodRiver, f.River) }},
		{"classification", func() error { return decodeFrom(r, methodClassification, f.Classification) }},
	}
	for _, d := range decoders {
		m, err := r.readInt()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		if m != fieldMagic {
			return nil, fmt.Errorf("%w: field %s starts with %d", ErrMagic, d.name, m)
		}
		if err := d.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.remaining())
	}
	return f, nil
}
