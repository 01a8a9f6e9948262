package codec

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Method is a grid compression scheme.
type Method uint8

const (
	DeltaPackInt Method = iota + 1 // running delta, biased to fit one byte
	RLEDict                        // runs of dictionary entries
	RLEZeroes                      // literal values, runs of zeroes
	RLEU2                          // one byte per run of a 2-bit value
)

func (m Method) String() string {
	switch m {
	case DeltaPackInt:
		return "delta_pack_int"
	case RLEDict:
		return "rle_dict"
	case RLEZeroes:
		return "rle_zeroes"
	case RLEU2:
		return "rle_u2"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

const (
	deltaBias = 124
	u2MaxRun  = 64
	u2MaxVal  = 3
)

func maxOf[T constraints.Unsigned]() uint64 {
	return uint64(^T(0))
}

func checkFits[T constraints.Unsigned](v int64) (T, error) {
	if v < 0 || uint64(v) > maxOf[T]() {
		return 0, fmt.Errorf("%w: value %d does not fit the field type", ErrCorrupt, v)
	}
	return T(v), nil
}

// encodeDelta writes each value as its difference to the previous one plus
// deltaBias, starting from deltaBias. Differences wrap modulo 2⁶⁴ so every
// element width round-trips.
func encodeDelta[T constraints.Unsigned](w *writer, data []T) {
	prev := uint64(deltaBias)
	for _, v := range data {
		w.writeInt(int64(uint64(v) - prev + deltaBias))
		prev = uint64(v)
	}
}

func decodeDelta[T constraints.Unsigned](r *reader, data []T) error {
	prev := uint64(deltaBias)
	for i := range data {
		d, err := r.readInt()
		if err != nil {
			return err
		}
		v := prev + uint64(d) - deltaBias
		if v > maxOf[T]() {
			return fmt.Errorf("%w: delta at cell %d overflows the field type", ErrCorrupt, i)
		}
		data[i] = T(v)
		prev = v
	}
	return nil
}

// encodeZeroes writes nonzero values as they are and each run of zeroes as a
// zero followed by the run length.
func encodeZeroes[T constraints.Unsigned](w *writer, data []T) {
	run := 0
	for _, v := range data {
		if v == 0 {
			if run == 0 {
				w.writeUint(0)
			}
			run++
			continue
		}
		if run > 0 {
			w.writeUint(uint64(run))
			run = 0
		}
		w.writeUint(uint64(v))
	}
	if run > 0 {
		w.writeUint(uint64(run))
	}
}

func decodeZeroes[T constraints.Unsigned](r *reader, data []T) error {
	for idx := 0; idx < len(data); {
		raw, err := r.readInt()
		if err != nil {
			return err
		}
		v, err := checkFits[T](raw)
		if err != nil {
			return err
		}
		if v != 0 {
			data[idx] = v
			idx++
			continue
		}
		n, err := r.readCount(len(data) - idx)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: empty zero run at cell %d", ErrCorrupt, idx)
		}
		clear(data[idx : idx+n])
		idx += n
	}
	return nil
}

// encodeDict writes (run length - 1, dictionary index) pairs. A value's
// first run also carries the literal and assigns the next index.
func encodeDict[T constraints.Unsigned](w *writer, data []T) {
	dict := make(map[T]int)
	emit := func(v T, run int) {
		w.writeUint(uint64(run - 1))
		if di, ok := dict[v]; ok {
			w.writeUint(uint64(di))
			return
		}
		di := len(dict)
		dict[v] = di
		w.writeUint(uint64(di))
		w.writeUint(uint64(v))
	}
	for i := 0; i < len(data); {
		j := i + 1
		for j < len(data) && data[j] == data[i] {
			j++
		}
		emit(data[i], j-i)
		i = j
	}
}

func decodeDict[T constraints.Unsigned](r *reader, data []T) error {
	var dict []T
	for idx := 0; idx < len(data); {
		n, err := r.readCount(len(data) - idx - 1)
		if err != nil {
			return err
		}
		n++
		di, err := r.readCount(len(dict))
		if err != nil {
			return err
		}
		if di == len(dict) {
			raw, err := r.readInt()
			if err != nil {
				return err
			}
			v, err := checkFits[T](raw)
			if err != nil {
				return err
			}
			dict = append(dict, v)
		}
		v := dict[di]
		for k := idx; k < idx+n; k++ {
			data[k] = v
		}
		idx += n
	}
	return nil
}

// encodeU2 packs each run as (value << 6) | (run length - 1). Values above 3
// cannot be represented.
func encodeU2[T constraints.Unsigned](w *writer, data []T) error {
	for i := 0; i < len(data); {
		v := data[i]
		if uint64(v) > u2MaxVal {
			return fmt.Errorf("%w: value %d at cell %d needs more than 2 bits", ErrUnencodable, v, i)
		}
		j := i + 1
		for j < len(data) && data[j] == v && j-i < u2MaxRun {
			j++
		}
		w.writeU8(uint8(v)<<6 | uint8(j-i-1))
		i = j
	}
	return nil
}

func decodeU2[T constraints.Unsigned](r *reader, data []T) error {
	for idx := 0; idx < len(data); {
		b, err := r.readU8()
		if err != nil {
			return err
		}
		n := int(b&0x3f) + 1
		if idx+n > len(data) {
			return fmt.Errorf("%w: run of %d at cell %d passes the grid end", ErrCorrupt, n, idx)
		}
		v := T(b >> 6)
		for k := idx; k < idx+n; k++ {
			data[k] = v
		}
		idx += n
	}
	return nil
}

// EncodeWith appends data compressed with method m to dst.
func EncodeWith[T constraints.Unsigned](dst []byte, m Method, data []T) ([]byte, error) {
	w := &writer{buf: dst}
	if err := encodeInto(w, m, data); err != nil {
		return dst, err
	}
	return w.buf, nil
}

// DecodeWith fills data from src compressed with method m. src must hold
// exactly the encoded grid.
func DecodeWith[T constraints.Unsigned](src []byte, m Method, data []T) error {
	r := &reader{buf: src}
	if err := decodeFrom(r, m, data); err != nil {
		return err
	}
	if r.remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.remaining())
	}
	return nil
}

func encodeInto[T constraints.Unsigned](w *writer, m Method, data []T) error {
	switch m {
	case DeltaPackInt:
		encodeDelta(w, data)
	case RLEDict:
		encodeDict(w, data)
	case RLEZeroes:
		encodeZeroes(w, data)
	case RLEU2:
		return encodeU2(w, data)
	default:
		return fmt.Errorf("%w: unknown method %s", ErrUnencodable, m)
	}
	return nil
}

func decodeFrom[T constraints.Unsigned](r *reader, m Method, data []T) error {
	switch m {
	case DeltaPackInt:
		return decodeDelta(r, data)
	case RLEDict:
		return decodeDict(r, data)
	case RLEZeroes:
		return decodeZeroes(r, data)
	case RLEU2:
		return decodeU2(r, data)
	default:
		return fmt.Errorf("%w: unknown method %s", ErrCorrupt, m)
	}
}
