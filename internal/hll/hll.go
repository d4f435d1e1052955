// Package hll implements the HyperLogLog cardinality sketch used by the
// HLL_ADD/HLL_COUNT/HLL_RESET commands.
package hll

import (
	"fmt"
	"math"
	"math/bits"
	"sync"

	"github.com/spaolacci/murmur3"
)

// Precision is the fixed precision the wire protocol uses for every
// HLL-typed value (spec §3: "p = 14 (16 384 registers)"). The
// constructor still accepts other precisions for internal/property
// testing against the Flajolet et al. error bounds.
const Precision = 14

const (
	minPrecision = 1
	maxPrecision = 15
)

// Sketch is a thread-safe HyperLogLog register array.
type Sketch struct {
	mu   sync.RWMutex
	p    uint8
	m    uint32
	alpha float64
	reg  []uint8
}

// New builds an empty sketch with the given precision. p must be in
// [1,15]; anything else is rejected per spec §4.2.
func New(p uint8) (*Sketch, error) {
	if p < minPrecision || p > maxPrecision {
		return nil, fmt.Errorf("hll: precision %d out of range [%d,%d]", p, minPrecision, maxPrecision)
	}
	m := uint32(1) << p
	return &Sketch{
		p:     p,
		m:     m,
		alpha: alphaFor(m),
		reg:   make([]uint8, m),
	}, nil
}

// NewDefault builds a sketch at the protocol's fixed precision.
func NewDefault() *Sketch {
	s, err := New(Precision)
	if err != nil {
		// Precision is a compile-time constant within range; this
		// branch is unreachable.
		panic(err)
	}
	return s
}

func alphaFor(m uint32) float64 {
	switch {
	case m <= 16:
		return 0.673
	case m <= 32:
		return 0.697
	case m < 64:
		return 0.709
	default:
		return 0.7213 / (1 + 1.079/float64(m))
	}
}

// Add hashes b with MurmurHash3 and folds it into the register array.
func (s *Sketch) Add(b []byte) {
	h := hash64(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	j := h >> (64 - s.p)
	remaining := h & ((uint64(1) << (64 - s.p)) - 1)

	var rho uint8
	if remaining == 0 {
		rho = uint8(64-s.p) + 1
	} else {
		rho = uint8(bits.TrailingZeros64(remaining)) + 1
	}

	if rho > s.reg[j] {
		s.reg[j] = rho
	}
}

// hash64 computes the 128-bit MurmurHash3 x64 hash of b and returns its
// first 64-bit half (h1); the second half is discarded.
func hash64(b []byte) uint64 {
	h1, h2 := murmur3.Sum128(b)
	_ = h2
	return h1
}

// Count returns the bias-corrected cardinality estimate, rounded to the
// nearest integer and doubled per the source's empirical correction
// (spec §4.2 — flagged as an open question, see DESIGN.md).
func (s *Sketch) Count() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := 0.0
	zeros := 0
	for _, v := range s.reg {
		sum += 1.0 / math.Pow(2, float64(v))
		if v == 0 {
			zeros++
		}
	}

	m := float64(s.m)
	estimate := s.alpha * m * m / sum

	switch {
	case estimate <= 2.5*m:
		if zeros > 0 {
			estimate = m * math.Log(m/float64(zeros))
		}
	case estimate <= math.Pow(2, 32)/30:
		// use the raw estimate as-is
	default:
		estimate = -math.Pow(2, 32) * math.Log(1-estimate/math.Pow(2, 32))
	}

	return uint64(math.Round(estimate)) * 2
}

// Reset zeros every register in place.
func (s *Sketch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reg {
		s.reg[i] = 0
	}
}
