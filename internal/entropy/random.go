// Package entropy provides the seeded randomness used by continent generation.
// Everything inside a generation call derives from one int64 seed; only the
// caller-facing Seed helper touches crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"log/slog"
	mrand "math/rand"
	"strconv"
)

// NewRand returns the deterministic PRNG for a generation seed.
func NewRand(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}

// Derive mixes a base seed with a list of labels into a new seed.
// Noise groups use it so every (seed, group, octave) triple gets its own
// independent noise instance.
func Derive(seed int64, parts ...string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(seed, 10)))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return int64(h.Sum64())
}

// Seed returns a fresh non-zero seed from crypto/rand. Used when the caller
// asks for seed 0 ("pick one for me").
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the math/rand global source.
		slog.Debug("crypto seed failed", "error", err)
		return mrand.Int63() | 1
	}
	s := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if s == 0 {
		s = 1
	}
	return s
}

// Shuffle permutes s in place using rng (Fisher-Yates from the end, the
// order the generator relies on for reproducible runs).
func Shuffle[T any](rng *mrand.Rand, s []T) {
	for i := len(s) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// RemoveAt deletes s[i] by moving the last element into its place.
func RemoveAt[T any](s []T, i int) []T {
	last := len(s) - 1
	s[i] = s[last]
	return s[:last]
}
