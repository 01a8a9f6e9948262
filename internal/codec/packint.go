// Package codec compresses continent grids into a compact, versioned binary
// container.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Packed integer prefixes. Values 0-248 are stored as a single byte.
const (
	maxInline = 248
	prefixU16 = 249
	prefixU32 = 250
	prefixU64 = 251
	prefixNeg = 252
)

// writer appends packed values to a byte slice.
type writer struct {
	buf []byte
}

func (w *writer) writeU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) writeUint(v uint64) {
	switch {
	case v <= maxInline:
		w.buf = append(w.buf, byte(v))
	case v <= math.MaxUint16:
		w.buf = append(w.buf, prefixU16)
		w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(v))
	case v <= math.MaxUint32:
		w.buf = append(w.buf, prefixU32)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	default:
		w.buf = append(w.buf, prefixU64)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	}
}

func (w *writer) writeInt(v int64) {
	if v < 0 {
		w.buf = append(w.buf, prefixNeg)
		// Two's complement negation also covers math.MinInt64.
		w.writeUint(uint64(-v))
		return
	}
	w.writeUint(uint64(v))
}

// reader consumes packed values and never reads past its buffer.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%w: truncated at offset %d", ErrCorrupt, r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readUint() (uint64, error) {
	p, err := r.readU8()
	if err != nil {
		return 0, err
	}
	switch {
	case p <= maxInline:
		return uint64(p), nil
	case p == prefixU16:
		b, err := r.take(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case p == prefixU32:
		b, err := r.take(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case p == prefixU64:
		b, err := r.take(8)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b), nil
	default:
		return 0, fmt.Errorf("%w: unexpected prefix %d at offset %d", ErrCorrupt, p, r.off-1)
	}
}

func (r *reader) readInt() (int64, error) {
	if r.remaining() > 0 && r.buf[r.off] == prefixNeg {
		r.off++
		m, err := r.readUint()
		if err != nil {
			return 0, err
		}
		if m == 0 || m > 1<<63 {
			return 0, fmt.Errorf("%w: bad negative magnitude %d", ErrCorrupt, m)
		}
		return -int64(m - 1) - 1, nil
	}
	v, err := r.readUint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: value %d overflows int64", ErrCorrupt, v)
	}
	return int64(v), nil
}

// readCount reads a non-negative packed int that must not exceed limit.
func (r *reader) readCount(limit int) (int, error) {
	v, err := r.readInt()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > int64(limit) {
		return 0, fmt.Errorf("%w: count %d outside [0, %d]", ErrCorrupt, v, limit)
	}
	return int(v), nil
}
