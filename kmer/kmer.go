// Package kmer implements the 2-bit packed integer encoding of fixed-length
// DNA subsequences and their strand-canonical form.
//
// A k-mer of up to 31 bases is packed most-significant-first into a single
// uint64 (A=00, C=01, G=10, T=11). The canonical form of a k-mer is the
// numerically smaller of the k-mer and its reverse complement, which makes
// membership testing strand-agnostic: a k-mer and its opposite-strand twin
// always map to the identical code.
package kmer

import (
	"errors"
	"fmt"
)

// Kmer is a 2-bit packed k-mer code. The base at the 5' end occupies the
// most significant bit pair.
type Kmer uint64

// MaxK is the largest supported k. 31 bases use 62 bits, leaving the packed
// code and its masks representable in a single uint64.
const MaxK = 31

// ErrInvalidK is returned when k is outside [1, MaxK].
var ErrInvalidK = errors.New("k out of range")

// ValidateK checks that k fits the single-word encoding.
func ValidateK(k int) error {
	if k < 1 || k > MaxK {
		return fmt.Errorf("%w: k=%d, want 1..%d", ErrInvalidK, k, MaxK)
	}
	return nil
}

// Mask returns the bitmask covering the 2k low bits of a k-mer code.
func Mask(k int) Kmer {
	return (Kmer(1) << (2 * uint(k))) - 1
}

// baseCodes maps a raw base byte to its 2-bit code + 1; zero marks bytes
// that are not an unambiguous uppercase base.
var baseCodes [256]byte

func init() {
	baseCodes['A'] = 1
	baseCodes['C'] = 2
	baseCodes['G'] = 3
	baseCodes['T'] = 4
}

// BaseCode returns the 2-bit code for an uppercase base. ok is false for
// every other byte, including lowercase and ambiguity codes; classifying
// those is the caller's concern.
func BaseCode(b byte) (Kmer, bool) {
	c := baseCodes[b]
	return Kmer(c - 1), c != 0
}

// baseLetters is the inverse of BaseCode.
var baseLetters = [4]byte{'A', 'C', 'G', 'T'}

// Encode packs a window of exactly k uppercase bases. ok is false if the
// window contains any byte that is not one of A, C, G, T; an ambiguous
// window is a skip signal, not an error.
func Encode(window []byte, k int) (Kmer, bool) {
	if len(window) != k {
		return 0, false
	}
	var km Kmer
	for _, b := range window {
		c, ok := BaseCode(b)
		if !ok {
			return 0, false
		}
		km = km<<2 | c
	}
	return km, true
}

// Decode expands a packed code back into its k base letters.
func Decode(km Kmer, k int) []byte {
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = baseLetters[km&3]
		km >>= 2
	}
	return out
}

// ReverseComplement returns the code of the opposite-strand reading of km:
// each base complemented (A<->T, C<->G), in reverse order.
func ReverseComplement(km Kmer, k int) Kmer {
	var rc Kmer
	for i := 0; i < k; i++ {
		rc <<= 2
		rc |= 3 &^ km // complement of a 2-bit base code is its bitwise NOT
		km >>= 2
	}
	return rc
}

// Canonical returns min(km, ReverseComplement(km, k)), collapsing the two
// strand readings of a k-mer onto one code.
func Canonical(km Kmer, k int) Kmer {
	if rc := ReverseComplement(km, k); rc < km {
		return rc
	}
	return km
}

// MaxRun returns the length of the longest homopolymer run in km. Signature
// builds use it to drop low-complexity windows.
func MaxRun(km Kmer, k int) int {
	best, run := 1, 1
	prev := km & 3
	km >>= 2
	for i := 1; i < k; i++ {
		cur := km & 3
		if cur == prev {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
			prev = cur
		}
		km >>= 2
	}
	return best
}

func (km Kmer) String() string {
	return fmt.Sprintf("Kmer(%d)", uint64(km))
}
