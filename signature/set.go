// Package signature provides frozen per-group k-mer signature sets, the set
// algebra used to derive group-discriminative signatures, and the parallel
// builder that constructs sets from labeled sequence groups.
package signature

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/sequence"
)

// Set is an immutable set of canonical k-mer codes associated with one group
// label. A Set is frozen on construction and safe for unbounded concurrent
// readers.
type Set struct {
	label  string
	k      int
	policy sequence.BasePolicy
	bits   *roaring64.Bitmap
}

// newSet wraps bits without copying; the caller hands over ownership.
func newSet(label string, k int, policy sequence.BasePolicy, bits *roaring64.Bitmap) *Set {
	bits.RunOptimize()
	return &Set{label: label, k: k, policy: policy, bits: bits}
}

// FromKmers builds a frozen set from explicit codes. Intended for
// deserialization and tests; codes need not be sorted or unique.
func FromKmers(label string, k int, policy sequence.BasePolicy, codes []uint64) (*Set, error) {
	if err := kmer.ValidateK(k); err != nil {
		return nil, err
	}
	bits := roaring64.New()
	bits.AddMany(codes)
	return newSet(label, k, policy, bits), nil
}

// Label returns the group label the set was built from.
func (s *Set) Label() string { return s.label }

// K returns the k-mer width shared by every code in the set.
func (s *Set) K() int { return s.k }

// Policy returns the base classification policy the set was built under.
func (s *Set) Policy() sequence.BasePolicy { return s.policy }

// Len returns the number of unique canonical k-mers.
func (s *Set) Len() uint64 { return s.bits.GetCardinality() }

// Contains reports membership of a canonical code.
func (s *Set) Contains(km kmer.Kmer) bool {
	return s.bits.Contains(uint64(km))
}

// Kmers iterates the codes in ascending order.
func (s *Set) Kmers() iter.Seq[kmer.Kmer] {
	return func(yield func(kmer.Kmer) bool) {
		it := s.bits.Iterator()
		for it.HasNext() {
			if !yield(kmer.Kmer(it.Next())) {
				return
			}
		}
	}
}

// ToArray returns the codes as a sorted ascending slice. The slice is a
// copy; mutating it does not affect the set.
func (s *Set) ToArray() []uint64 {
	return s.bits.ToArray()
}

// OrInto unions the set's codes into dst. The set itself is never mutated;
// searchers use this to precompute a union index across groups.
func (s *Set) OrInto(dst *roaring64.Bitmap) {
	dst.Or(s.bits)
}

// Equal reports whether two sets hold identical codes under the same k and
// policy. Labels are not compared.
func (s *Set) Equal(o *Set) bool {
	return s.k == o.k && s.policy == o.policy && s.bits.Equals(o.bits)
}
