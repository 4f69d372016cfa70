package signature

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ErrIncompatibleSignatures is returned when an algebra operation mixes sets
// built with a different k or base policy.
var ErrIncompatibleSignatures = errors.New("incompatible signature sets")

func compatible(a, b *Set) error {
	if a.k != b.k {
		return fmt.Errorf("%w: k=%d vs k=%d", ErrIncompatibleSignatures, a.k, b.k)
	}
	if a.policy != b.policy {
		return fmt.Errorf("%w: policy %s vs %s", ErrIncompatibleSignatures, a.policy, b.policy)
	}
	return nil
}

// Union returns a new set holding every code present in a or b. The result
// carries a's label.
func Union(a, b *Set) (*Set, error) {
	if err := compatible(a, b); err != nil {
		return nil, err
	}
	bits := a.bits.Clone()
	bits.Or(b.bits)
	return newSet(a.label, a.k, a.policy, bits), nil
}

// Intersect returns a new set holding the codes present in both a and b.
// The result carries a's label.
func Intersect(a, b *Set) (*Set, error) {
	if err := compatible(a, b); err != nil {
		return nil, err
	}
	bits := a.bits.Clone()
	bits.And(b.bits)
	return newSet(a.label, a.k, a.policy, bits), nil
}

// ExclusiveTo returns the codes present in target and absent from every set
// in others: the discriminative signature of target's group. The difference
// is taken against the union of others, so the result is identical
// regardless of the order of others, and presence in any single other set
// excludes a code. With no others, the result equals target.
func ExclusiveTo(target *Set, others ...*Set) (*Set, error) {
	union := roaring64.New()
	for _, o := range others {
		if err := compatible(target, o); err != nil {
			return nil, err
		}
		o.OrInto(union)
	}
	bits := target.bits.Clone()
	bits.AndNot(union)
	return newSet(target.label, target.k, target.policy, bits), nil
}

// IntersectionSpectrum returns a histogram of sharing across sets: index i
// counts the codes present in exactly i+1 of the given sets. The spectrum
// of n sets has length n; its sum equals the cardinality of the n-way
// union.
func IntersectionSpectrum(sets ...*Set) ([]uint64, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	for _, s := range sets[1:] {
		if err := compatible(sets[0], s); err != nil {
			return nil, err
		}
	}
	union := roaring64.New()
	for _, s := range sets {
		s.OrInto(union)
	}
	spectrum := make([]uint64, len(sets))
	it := union.Iterator()
	for it.HasNext() {
		code := it.Next()
		n := 0
		for _, s := range sets {
			if s.bits.Contains(code) {
				n++
			}
		}
		spectrum[n-1]++
	}
	return spectrum, nil
}
