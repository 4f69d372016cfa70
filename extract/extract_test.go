package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/sequence"
	"github.com/hupe1980/kmersig/testutil"
)

func collect(seq string, k int, p sequence.BasePolicy) (offsets []int, codes []kmer.Kmer) {
	for off, code := range Windows([]byte(seq), k, p) {
		offsets = append(offsets, off)
		codes = append(codes, code)
	}
	return offsets, codes
}

func canon(t *testing.T, window string) kmer.Kmer {
	t.Helper()
	km, ok := kmer.Encode([]byte(window), len(window))
	require.True(t, ok, window)
	return kmer.Canonical(km, len(window))
}

func TestWindows(t *testing.T) {
	t.Run("all windows of a clean sequence", func(t *testing.T) {
		offsets, codes := collect("ACGTACGT", 4, sequence.MaskedToUpper)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, offsets)
		want := []kmer.Kmer{
			canon(t, "ACGT"),
			canon(t, "CGTA"),
			canon(t, "GTAC"),
			canon(t, "TACG"),
			canon(t, "ACGT"),
		}
		assert.Equal(t, want, codes)
		// TACG and CGTA are opposite strands of each other.
		assert.Equal(t, codes[1], codes[3])
	})

	t.Run("every window overlapping an N is skipped", func(t *testing.T) {
		offsets, _ := collect("ACNGT", 3, sequence.MaskedToUpper)
		assert.Empty(t, offsets)
	})

	t.Run("extraction resumes after an ambiguous position", func(t *testing.T) {
		offsets, codes := collect("ACGNACGT", 3, sequence.MaskedToUpper)
		assert.Equal(t, []int{0, 4, 5}, offsets)
		want := []kmer.Kmer{canon(t, "ACG"), canon(t, "ACG"), canon(t, "CGT")}
		assert.Equal(t, want, codes)
	})

	t.Run("sequence shorter than k yields nothing", func(t *testing.T) {
		offsets, _ := collect("ACG", 4, sequence.MaskedToUpper)
		assert.Empty(t, offsets)
	})

	t.Run("invalid k yields nothing", func(t *testing.T) {
		offsets, _ := collect("ACGTACGT", 0, sequence.MaskedToUpper)
		assert.Empty(t, offsets)
		offsets, _ = collect("ACGTACGT", kmer.MaxK+1, sequence.MaskedToUpper)
		assert.Empty(t, offsets)
	})

	t.Run("masked bases follow the policy", func(t *testing.T) {
		offsets, codes := collect("acgt", 4, sequence.MaskedToUpper)
		assert.Equal(t, []int{0}, offsets)
		assert.Equal(t, []kmer.Kmer{canon(t, "ACGT")}, codes)

		offsets, _ = collect("acgt", 4, sequence.MaskedSkip)
		assert.Empty(t, offsets)

		// A masked island breaks windows under MaskedSkip.
		offsets, _ = collect("ACGTaACGT", 4, sequence.MaskedSkip)
		assert.Equal(t, []int{0, 5}, offsets)
	})

	t.Run("early break stops the iterator", func(t *testing.T) {
		n := 0
		for range Windows([]byte("ACGTACGTACGT"), 4, sequence.MaskedToUpper) {
			n++
			if n == 2 {
				break
			}
		}
		assert.Equal(t, 2, n)
	})
}

func TestWindowsDeterministic(t *testing.T) {
	rng := testutil.NewRNG(7)
	seq := rng.SeqWithN(5000, 0.02)

	_, first := collect(string(seq), 11, sequence.MaskedToUpper)
	_, second := collect(string(seq), 11, sequence.MaskedToUpper)
	require.Equal(t, first, second)
}

func TestWindowsMatchesNaiveEncode(t *testing.T) {
	// The rolling update must agree with encoding every window from
	// scratch.
	rng := testutil.NewRNG(11)
	seq := rng.SeqWithN(2000, 0.01)
	k := 9

	var naiveOffsets []int
	var naiveCodes []kmer.Kmer
	for i := 0; i+k <= len(seq); i++ {
		km, ok := kmer.Encode(seq[i:i+k], k)
		if !ok {
			continue
		}
		naiveOffsets = append(naiveOffsets, i)
		naiveCodes = append(naiveCodes, kmer.Canonical(km, k))
	}

	offsets, codes := collect(string(seq), k, sequence.MaskedToUpper)
	require.Equal(t, naiveOffsets, offsets)
	require.Equal(t, naiveCodes, codes)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 5, Count([]byte("ACGTACGT"), 4, sequence.MaskedToUpper))
	assert.Equal(t, 0, Count([]byte("ACNGT"), 3, sequence.MaskedToUpper))
	assert.Equal(t, 0, Count([]byte("AC"), 3, sequence.MaskedToUpper))
}

func BenchmarkWindows(b *testing.B) {
	rng := testutil.NewRNG(1)
	seq := rng.Seq(1 << 16)
	b.SetBytes(int64(len(seq)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range Windows(seq, 21, sequence.MaskedToUpper) {
		}
	}
}
