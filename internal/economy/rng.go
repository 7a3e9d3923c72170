package economy

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"unicode/utf16"
)

// RandomSource yields uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// RandomFunc adapts a plain function to RandomSource.
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

const defaultSeed uint32 = 0x7391dcea

// hashSeed folds the UTF-16 code units of seed with a 31 multiplier, wrapping at 32 bits.
func hashSeed(seed string) uint32 {
	var h uint32
	for _, unit := range utf16.Encode([]rune(seed)) {
		h = h*31 + uint32(unit)
	}
	return h
}

type xorshift32 struct {
	state uint32
}

// NewSeededRNG returns a deterministic xorshift32 source. The same seed always
// replays the same sequence; an empty seed (or one hashing to zero) uses a
// fixed default state.
func NewSeededRNG(seed string) RandomSource {
	state := defaultSeed
	if seed != "" {
		if h := hashSeed(seed); h != 0 {
			state = h
		}
	}
	return &xorshift32{state: state}
}

func (x *xorshift32) Float64() float64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	// Dividing by the largest state keeps recorded seeds replaying the same
	// draws; the one state that would reach 1 is pulled back inside the range.
	return clampUnit(float64(x.state) / math.MaxUint32)
}

type cryptoRNG struct{}

// DefaultRNG returns a non-deterministic source backed by crypto/rand.
func DefaultRNG() RandomSource {
	return cryptoRNG{}
}

func (cryptoRNG) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return mrand.Float64()
	}
	// 53 random bits map exactly onto the float64 mantissa.
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

func resolveRNG(rng RandomSource, seed string) RandomSource {
	if rng != nil {
		return rng
	}
	if seed != "" {
		return NewSeededRNG(seed)
	}
	return DefaultRNG()
}

// clampUnit keeps misbehaving injected sources inside [0, 1).
func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}
