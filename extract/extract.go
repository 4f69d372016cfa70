// Package extract slides a width-k window across a sequence and yields the
// strand-canonical code of every unambiguous window.
package extract

import (
	"iter"

	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/sequence"
)

// Windows returns a lazy iterator over (startOffset, canonicalCode) pairs
// for every window of width k in seq whose bases all classify under p.
// Windows overlapping an ambiguous position are skipped entirely; the
// iterator is finite, one-pass, restartable, and purely functional over its
// input. A sequence shorter than k yields nothing, as does an invalid k
// (callers validate k up front; see kmer.ValidateK).
//
// The forward and reverse-complement codes are maintained incrementally, so
// a full pass costs O(len(seq)) independent of k.
func Windows(seq []byte, k int, p sequence.BasePolicy) iter.Seq2[int, kmer.Kmer] {
	return func(yield func(int, kmer.Kmer) bool) {
		if kmer.ValidateK(k) != nil || len(seq) < k {
			return
		}
		var (
			mask  = kmer.Mask(k)
			shift = 2 * uint(k-1)
			fwd   kmer.Kmer
			rc    kmer.Kmer
			valid int // bases since the last ambiguous position
		)
		for i := 0; i < len(seq); i++ {
			b, ok := sequence.Classify(seq[i], p)
			if !ok {
				valid = 0
				continue
			}
			c, _ := kmer.BaseCode(b)
			fwd = (fwd<<2 | c) & mask
			rc = rc>>2 | (3&^c)<<shift
			valid++
			if valid < k {
				continue
			}
			canon := fwd
			if rc < canon {
				canon = rc
			}
			if !yield(i-k+1, canon) {
				return
			}
		}
	}
}

// Count runs a full extraction pass and returns the number of windows
// yielded. Useful for build statistics and tests.
func Count(seq []byte, k int, p sequence.BasePolicy) int {
	n := 0
	for range Windows(seq, k, p) {
		n++
	}
	return n
}
