package codec

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestPackedIntRoundTrip(t *testing.T) {
	values := []int64{0, 1, 123, 248, 249, 255, 256, 65535, 65536, math.MaxUint32, math.MaxUint32 + 1,
		math.MaxInt64, -1, -248, -249, -70000, math.MinInt64}
	w := &writer{}
	for _, v := range values {
		w.writeInt(v)
	}
	r := &reader{buf: w.buf}
	for _, want := range values {
		got, err := r.readInt()
		if err != nil {
			t.Fatalf("readInt(%d): %v", want, err)
		}
		if got != want {
			t.Errorf("readInt = %d, want %d", got, want)
		}
	}
	if r.remaining() != 0 {
		t.Errorf("%d bytes left over", r.remaining())
	}
}

func TestPackedIntSizes(t *testing.T) {
	tests := []struct {
		v    int64
		size int
	}{
		{0, 1},
		{248, 1},
		{249, 3},
		{65535, 3},
		{65536, 5},
		{math.MaxUint32 + 1, 9},
		{-1, 2},
		{-300, 4},
	}
	for _, tt := range tests {
		w := &writer{}
		w.writeInt(tt.v)
		if len(w.buf) != tt.size {
			t.Errorf("writeInt(%d) used %d bytes, want %d", tt.v, len(w.buf), tt.size)
		}
	}
}

func TestPackedIntRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"reserved prefix", []byte{253}},
		{"short u16", []byte{prefixU16, 1}},
		{"short u32", []byte{prefixU32, 1, 2, 3}},
		{"short u64", []byte{prefixU64, 1, 2, 3, 4, 5, 6, 7}},
		{"negative zero", []byte{prefixNeg, 0}},
		{"double negative", []byte{prefixNeg, prefixNeg, 1}},
		{"u64 overflow", []byte{prefixU64, 0, 0, 0, 0, 0, 0, 0, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &reader{buf: tt.buf}
			if _, err := r.readInt(); !errors.Is(err, ErrCorrupt) {
				t.Errorf("readInt error = %v, want ErrCorrupt", err)
			}
		})
	}
}

var methods = []Method{DeltaPackInt, RLEDict, RLEZeroes, RLEU2}

// grids returns degenerate and random inputs whose values stay within limit.
func grids[T uint8 | uint16 | uint32](limit uint64) map[string][]T {
	rng := rand.New(rand.NewSource(7))
	rnd := func(n int) []T {
		out := make([]T, n)
		for i := range out {
			out[i] = T(rng.Uint64() % (limit + 1))
		}
		return out
	}
	runs := func(n int) []T {
		out := make([]T, 0, n)
		for len(out) < n {
			v := T(rng.Uint64() % (limit + 1))
			for k := rng.Intn(150) + 1; k > 0 && len(out) < n; k-- {
				out = append(out, v)
			}
		}
		return out
	}
	return map[string][]T{
		"empty":     {},
		"single":    {T(limit)},
		"all zero":  make([]T, 1000),
		"all same":  slices.Repeat([]T{T(limit)}, 1000),
		"run 64":    slices.Repeat([]T{1}, 64),
		"run 65":    slices.Repeat([]T{1}, 65),
		"max edges": {0, T(limit), 0, T(limit), T(limit), 0},
		"random":    rnd(2000),
		"runs":      runs(5000),
	}
}

func roundTrip[T uint8 | uint16 | uint32](t *testing.T, m Method, name string, data []T) {
	t.Helper()
	buf, err := EncodeWith(nil, m, data)
	if err != nil {
		t.Fatalf("%s/%s: encode: %v", m, name, err)
	}
	if len(data) == 0 && len(buf) != 0 {
		t.Errorf("%s/%s: empty input wrote %d bytes", m, name, len(buf))
	}
	got := make([]T, len(data))
	if err := DecodeWith(buf, m, got); err != nil {
		t.Fatalf("%s/%s: decode: %v", m, name, err)
	}
	if !slices.Equal(got, data) {
		t.Errorf("%s/%s: round trip mismatch", m, name)
	}
}

func TestMethodsRoundTrip(t *testing.T) {
	for _, m := range methods {
		if m == RLEU2 {
			for name, data := range grids[uint8](u2MaxVal) {
				roundTrip(t, m, name, data)
			}
			continue
		}
		for name, data := range grids[uint8](math.MaxUint8) {
			roundTrip(t, m, name, data)
		}
		for name, data := range grids[uint16](math.MaxUint16) {
			roundTrip(t, m, name, data)
		}
		for name, data := range grids[uint32](math.MaxUint32) {
			roundTrip(t, m, name, data)
		}
	}
}

func TestDeltaWideValues(t *testing.T) {
	data := []uint64{math.MaxUint64, 0, math.MaxUint64, 1 << 63, 124}
	buf, err := EncodeWith(nil, DeltaPackInt, data)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint64, len(data))
	if err := DecodeWith(buf, DeltaPackInt, got); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, data) {
		t.Errorf("got %v, want %v", got, data)
	}
}

func TestRLEU2RejectsWideValues(t *testing.T) {
	_, err := EncodeWith(nil, RLEU2, []uint8{0, 1, 4})
	if !errors.Is(err, ErrUnencodable) {
		t.Errorf("error = %v, want ErrUnencodable", err)
	}
}

func TestUnknownMethod(t *testing.T) {
	if _, err := EncodeWith(nil, Method(9), []uint8{1}); !errors.Is(err, ErrUnencodable) {
		t.Errorf("encode error = %v, want ErrUnencodable", err)
	}
	if err := DecodeWith([]byte{1}, Method(9), make([]uint8, 1)); !errors.Is(err, ErrCorrupt) {
		t.Errorf("decode error = %v, want ErrCorrupt", err)
	}
}

func TestMethodDecodeRejectsCorruption(t *testing.T) {
	tests := []struct {
		name string
		m    Method
		buf  []byte
		n    int
	}{
		{"zero run too long", RLEZeroes, []byte{0, 5}, 4},
		{"zero run empty", RLEZeroes, []byte{0, 0, 1}, 1},
		{"zeroes value overflow", RLEZeroes, []byte{prefixU16, 0x00, 0x01}, 1},
		{"zeroes negative", RLEZeroes, []byte{prefixNeg, 1}, 1},
		{"dict run too long", RLEDict, []byte{4, 0, 7}, 3},
		{"dict unknown index", RLEDict, []byte{0, 0, 7, 0, 3}, 2},
		{"dict value overflow", RLEDict, []byte{0, 0, prefixU16, 0x00, 0x01}, 1},
		{"u2 run too long", RLEU2, []byte{0x45}, 3},
		{"delta overflow", DeltaPackInt, []byte{prefixU16, 0x2c, 0x01}, 1},
		{"delta underflow", DeltaPackInt, []byte{prefixNeg, 1}, 1},
		{"truncated", DeltaPackInt, []byte{124}, 2},
		{"trailing", RLEU2, []byte{0x00, 0x00}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeWith(tt.buf, tt.m, make([]uint8, tt.n))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func sampleFields(n int) *Fields {
	rng := rand.New(rand.NewSource(3))
	f := &Fields{
		SeaLevel:       8192,
		MaxElevation:   8192 + 16384,
		Elevation:      make([]uint16, n),
		WaterLevel:     make([]uint16, n),
		Humidity:       make([]uint8, n),
		River:          make([]uint8, n),
		Classification: make([]uint8, n),
	}
	for i := 0; i < n; i++ {
		f.Elevation[i] = uint16(8000 + rng.Intn(900))
		if i%37 < 5 {
			f.WaterLevel[i] = 8400
		}
		f.Humidity[i] = uint8(rng.Intn(256))
		if rng.Intn(10) == 0 {
			f.River[i] = uint8(1 << rng.Intn(6))
		}
		f.Classification[i] = uint8(i / 50 % 4)
	}
	return f
}

func TestContainerRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 64, 16 * 16, 100 * 100} {
		f := sampleFields(n)
		buf, err := Encode(f)
		if err != nil {
			t.Fatalf("n=%d: encode: %v", n, err)
		}
		got, err := Decode(buf)
		if err != nil {
			t.Fatalf("n=%d: decode: %v", n, err)
		}
		if got.SeaLevel != f.SeaLevel || got.MaxElevation != f.MaxElevation {
			t.Errorf("n=%d: scalars = %d/%d, want %d/%d", n, got.SeaLevel, got.MaxElevation, f.SeaLevel, f.MaxElevation)
		}
		if !slices.Equal(got.Elevation, f.Elevation) ||
			!slices.Equal(got.WaterLevel, f.WaterLevel) ||
			!slices.Equal(got.Humidity, f.Humidity) ||
			!slices.Equal(got.River, f.River) ||
			!slices.Equal(got.Classification, f.Classification) {
			t.Errorf("n=%d: fields differ after round trip", n)
		}
	}
}

func TestContainerRejectsMismatchedFields(t *testing.T) {
	f := sampleFields(10)
	f.River = f.River[:9]
	if _, err := Encode(f); !errors.Is(err, ErrSize) {
		t.Errorf("error = %v, want ErrSize", err)
	}
}

func TestContainerRejectsOversize(t *testing.T) {
	n := MaxCells + 1
	f := &Fields{
		Elevation:      make([]uint16, n),
		WaterLevel:     make([]uint16, n),
		Humidity:       make([]uint8, n),
		River:          make([]uint8, n),
		Classification: make([]uint8, n),
	}
	if _, err := Encode(f); !errors.Is(err, ErrSize) {
		t.Errorf("encode error = %v, want ErrSize", err)
	}

	w := &writer{buf: []byte("HXC")}
	w.writeUint(Version)
	w.writeInt(1)
	w.writeInt(2)
	w.writeUint(uint64(n))
	if _, err := Decode(w.buf); !errors.Is(err, ErrSize) {
		t.Errorf("decode error = %v, want ErrSize", err)
	}
}

func TestDecodeRejectsHeaderProblems(t *testing.T) {
	good, err := Encode(sampleFields(32))
	if err != nil {
		t.Fatal(err)
	}

	badMagic := slices.Clone(good)
	badMagic[0] = 'X'
	if _, err := Decode(badMagic); !errors.Is(err, ErrMagic) {
		t.Errorf("bad magic: error = %v, want ErrMagic", err)
	}

	badVersion := slices.Clone(good)
	badVersion[len(magic)] = Version + 1
	if _, err := Decode(badVersion); !errors.Is(err, ErrVersion) {
		t.Errorf("bad version: error = %v, want ErrVersion", err)
	}

	// Header: magic, version, sea level (u16), max elevation (u16), size.
	fieldStart := len(magic) + 1 + 3 + 3 + 1
	if good[fieldStart] != fieldMagic {
		t.Fatalf("expected field magic at %d, found %d", fieldStart, good[fieldStart])
	}
	badField := slices.Clone(good)
	badField[fieldStart] = fieldMagic - 1
	if _, err := Decode(badField); !errors.Is(err, ErrMagic) {
		t.Errorf("bad field magic: error = %v, want ErrMagic", err)
	}

	if _, err := Decode(good[:len(good)-1]); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated: error = %v, want ErrCorrupt", err)
	}
	if _, err := Decode(append(slices.Clone(good), 0)); !errors.Is(err, ErrCorrupt) {
		t.Errorf("trailing: error = %v, want ErrCorrupt", err)
	}
	if _, err := Decode(nil); !errors.Is(err, ErrMagic) {
		t.Errorf("empty: error = %v, want ErrMagic", err)
	}
}
