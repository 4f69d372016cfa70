// Package testutil provides testing utilities for kmersig.
//
// This package is intended for use in tests and benchmarks only. It
// provides deterministic random DNA generation so tests can build
// reproducible groups and queries.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/kmersig/sequence"
)

var bases = []byte("ACGT")

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Seq returns a random unambiguous DNA sequence of length n.
func (r *RNG) Seq(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = bases[r.rand.Intn(4)]
	}
	return out
}

// SeqWithN returns a random DNA sequence of length n in which each
// position is ambiguous ('N') with probability p.
func (r *RNG) SeqWithN(n int, p float64) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		if r.rand.Float64() < p {
			out[i] = 'N'
		} else {
			out[i] = bases[r.rand.Intn(4)]
		}
	}
	return out
}

// Records returns count random records with lengths in [minLen, maxLen],
// IDs derived from prefix.
func (r *RNG) Records(prefix string, count, minLen, maxLen int) []sequence.Record {
	out := make([]sequence.Record, count)
	for i := range out {
		n := minLen
		if maxLen > minLen {
			n += r.Intn(maxLen - minLen + 1)
		}
		out[i] = sequence.Record{
			ID:  fmt.Sprintf("%s-%d", prefix, i),
			Seq: r.Seq(n),
		}
	}
	return out
}

// Group returns a random group with the given label.
func (r *RNG) Group(label string, records, minLen, maxLen int) sequence.Group {
	return sequence.Group{
		Label:   label,
		Records: r.Records(label, records, minLen, maxLen),
	}
}
