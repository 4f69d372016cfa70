package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeq(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.Seq(64)

	assert.Equal(t, 64, len(s))
	for _, b := range s {
		assert.Contains(t, []byte("ACGT"), b)
	}
}

func TestSeqWithN(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.SeqWithN(10000, 0.1)

	assert.Equal(t, 10000, len(s))

	nCount := 0
	for _, b := range s {
		if b == 'N' {
			nCount++
		} else {
			assert.Contains(t, []byte("ACGT"), b)
		}
	}

	// ~10% should be ambiguous
	nRatio := float64(nCount) / float64(len(s))
	assert.InDelta(t, 0.10, nRatio, 0.03, "ambiguous bases should be ~10%")
}

func TestRecords(t *testing.T) {
	rng := NewRNG(4711)

	recs := rng.Records("rec", 8, 20, 40)

	assert.Equal(t, 8, len(recs))
	for i, rec := range recs {
		assert.Equal(t, fmt.Sprintf("rec-%d", i), rec.ID)
		assert.GreaterOrEqual(t, len(rec.Seq), 20)
		assert.LessOrEqual(t, len(rec.Seq), 40)
	}
}

func TestGroup(t *testing.T) {
	rng := NewRNG(4711)

	g := rng.Group("phylum", 4, 30, 30)

	assert.Equal(t, "phylum", g.Label)
	assert.Equal(t, 4, len(g.Records))
	for _, rec := range g.Records {
		assert.Equal(t, 30, len(rec.Seq))
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	s1 := rng.Seq(100)

	rng.Reset()
	s2 := rng.Seq(100)

	assert.Equal(t, s1, s2)
}

func TestSameSeedSameOutput(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	assert.Equal(t, a.Seq(100), b.Seq(100))
	assert.Equal(t, a.Records("x", 3, 10, 20), b.Records("x", 3, 10, 20))
	assert.Equal(t, int64(42), a.Seed())
}
