package signature

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmersig/extract"
	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/sequence"
)

// ErrEmptyLabel is returned when a group carries an empty label.
var ErrEmptyLabel = errors.New("empty group label")

// BuildStats summarizes one group build.
type BuildStats struct {
	// Records is the number of sequence records processed.
	Records int
	// Bases is the total number of input positions, ambiguous included.
	Bases int
	// RawWindows is the number of width-k windows slid, valid or not.
	RawWindows int
	// AmbiguousSkipped is the number of windows skipped because they
	// overlapped an ambiguous position.
	AmbiguousSkipped int
	// LowComplexity is the number of windows dropped by the max-run filter.
	LowComplexity int
	// Distinct is the number of distinct canonical k-mers before the
	// min-count filter.
	Distinct uint64
	// Unique is the cardinality of the frozen set.
	Unique uint64
	// MaxCount is the highest multiplicity observed for a single k-mer.
	MaxCount uint32
}

type buildOptions struct {
	parallelism int
	minCount    uint32
	maxRun      int
	policy      sequence.BasePolicy
	logger      *slog.Logger
}

// BuildOption configures a group build.
type BuildOption func(*buildOptions)

// WithParallelism bounds the number of records extracted concurrently.
// Values below 1 fall back to GOMAXPROCS.
func WithParallelism(n int) BuildOption {
	return func(o *buildOptions) {
		o.parallelism = n
	}
}

// WithMinCount keeps only k-mers observed at least n times within the
// group. The default of 1 keeps every k-mer.
func WithMinCount(n uint32) BuildOption {
	return func(o *buildOptions) {
		o.minCount = n
	}
}

// WithMaxRun drops windows whose longest homopolymer run exceeds n, a
// low-complexity filter. Zero disables the filter.
func WithMaxRun(n int) BuildOption {
	return func(o *buildOptions) {
		o.maxRun = n
	}
}

// WithBasePolicy sets the masked-base classification policy.
func WithBasePolicy(p sequence.BasePolicy) BuildOption {
	return func(o *buildOptions) {
		o.policy = p
	}
}

// WithLogger sets the structured logger used for build progress.
func WithLogger(l *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// recordResult is the output of one record's extraction pass.
type recordResult struct {
	counts        map[uint64]uint32
	bases         int
	rawWindows    int
	valid         int
	lowComplexity int
}

// Build extracts canonical k-mers from every record in g, deduplicates them
// into a frozen Set, and reports build statistics. Records are extracted in
// parallel; each worker accumulates a local multiset and the merge is a
// commutative union, so the result is independent of scheduling order.
// Time is linear in total bases, space linear in distinct k-mers.
func Build(ctx context.Context, g sequence.Group, k int, opts ...BuildOption) (*Set, *BuildStats, error) {
	o := buildOptions{
		parallelism: runtime.GOMAXPROCS(0),
		minCount:    1,
		policy:      sequence.MaskedToUpper,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if err := kmer.ValidateK(k); err != nil {
		return nil, nil, err
	}
	if g.Label == "" {
		return nil, nil, ErrEmptyLabel
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}

	var (
		mu     sync.Mutex
		counts = make(map[uint64]uint32)
		stats  = BuildStats{Records: len(g.Records)}
	)

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(o.parallelism)
	for _, rec := range g.Records {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := extractRecord(rec, k, &o)

			// Sole synchronization point: commutative multiset union.
			mu.Lock()
			defer mu.Unlock()
			stats.Bases += res.bases
			stats.RawWindows += res.rawWindows
			stats.AmbiguousSkipped += res.rawWindows - res.valid
			stats.LowComplexity += res.lowComplexity
			for code, n := range res.counts {
				counts[code] += n
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}

	stats.Distinct = uint64(len(counts))
	bits := roaring64.New()
	for code, n := range counts {
		if n > stats.MaxCount {
			stats.MaxCount = n
		}
		if n >= o.minCount {
			bits.Add(code)
		}
	}
	set := newSet(g.Label, k, o.policy, bits)
	stats.Unique = set.Len()

	o.logger.Debug("built group signature",
		slog.String("label", g.Label),
		slog.Int("k", k),
		slog.Int("records", stats.Records),
		slog.Int("bases", stats.Bases),
		slog.Int("ambiguous_skipped", stats.AmbiguousSkipped),
		slog.Uint64("unique", stats.Unique),
	)
	return set, &stats, nil
}

func extractRecord(rec sequence.Record, k int, o *buildOptions) recordResult {
	res := recordResult{
		counts: make(map[uint64]uint32),
		bases:  len(rec.Seq),
	}
	if n := len(rec.Seq) - k + 1; n > 0 {
		res.rawWindows = n
	}
	for _, code := range extract.Windows(rec.Seq, k, o.policy) {
		res.valid++
		if o.maxRun > 0 && kmer.MaxRun(code, k) > o.maxRun {
			res.lowComplexity++
			continue
		}
		res.counts[uint64(code)]++
	}
	return res
}
