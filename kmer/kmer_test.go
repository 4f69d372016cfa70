package kmer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateK(t *testing.T) {
	require.NoError(t, ValidateK(1))
	require.NoError(t, ValidateK(MaxK))
	require.ErrorIs(t, ValidateK(0), ErrInvalidK)
	require.ErrorIs(t, ValidateK(-3), ErrInvalidK)
	require.ErrorIs(t, ValidateK(MaxK+1), ErrInvalidK)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		window string
		k      int
		want   Kmer
		ok     bool
	}{
		{name: "ACGT", window: "ACGT", k: 4, want: 0b00011011, ok: true},
		{name: "CGTA", window: "CGTA", k: 4, want: 0b01101100, ok: true},
		{name: "AAAA", window: "AAAA", k: 4, want: 0, ok: true},
		{name: "TTTT", window: "TTTT", k: 4, want: 0b11111111, ok: true},
		{name: "single base", window: "G", k: 1, want: 2, ok: true},
		{name: "ambiguous N", window: "ACNT", k: 4, ok: false},
		{name: "lowercase is ambiguous here", window: "acgt", k: 4, ok: false},
		{name: "wrong length", window: "ACG", k: 4, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Encode([]byte(tt.window), tt.k)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, window := range []string{"A", "ACGT", "TTTTT", "GATTACA", "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"} {
		km, ok := Encode([]byte(window), len(window))
		require.True(t, ok, window)
		assert.Equal(t, window, string(Decode(km, len(window))))
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		window string
		want   string
	}{
		{window: "ACGT", want: "ACGT"}, // palindrome
		{window: "GTAC", want: "GTAC"}, // palindrome
		{window: "CGTA", want: "TACG"},
		{window: "AAAA", want: "TTTT"},
		{window: "GATTACA", want: "TGTAATC"},
	}
	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			k := len(tt.window)
			km, ok := Encode([]byte(tt.window), k)
			require.True(t, ok)
			got := ReverseComplement(km, k)
			assert.Equal(t, tt.want, string(Decode(got, k)))
			// An involution: applying it twice returns the original.
			assert.Equal(t, km, ReverseComplement(got, k))
		})
	}
}

func TestCanonicalSymmetry(t *testing.T) {
	// canonical(x) == canonical(revcomp(x)) for every k-mer, so the two
	// strand readings always collapse onto one code.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		k := 1 + rng.Intn(MaxK)
		km := Kmer(rng.Uint64()) & Mask(k)
		rc := ReverseComplement(km, k)
		canon := Canonical(km, k)
		assert.Equal(t, canon, Canonical(rc, k))
		assert.LessOrEqual(t, canon, km)
		assert.LessOrEqual(t, canon, rc)
	}
}

func TestCanonicalKnown(t *testing.T) {
	acgt, _ := Encode([]byte("ACGT"), 4)
	cgta, _ := Encode([]byte("CGTA"), 4)
	tacg, _ := Encode([]byte("TACG"), 4)
	assert.Equal(t, acgt, Canonical(acgt, 4))
	assert.Equal(t, cgta, Canonical(tacg, 4))
	assert.Equal(t, cgta, Canonical(cgta, 4))
}

func TestMaxRun(t *testing.T) {
	tests := []struct {
		window string
		want   int
	}{
		{window: "ACGT", want: 1},
		{window: "AACGT", want: 2},
		{window: "ACGGG", want: 3},
		{window: "AAAA", want: 4},
		{window: "TTATT", want: 2},
		{window: "G", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			km, ok := Encode([]byte(tt.window), len(tt.window))
			require.True(t, ok)
			assert.Equal(t, tt.want, MaxRun(km, len(tt.window)))
		})
	}
}
