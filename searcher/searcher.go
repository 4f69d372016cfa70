// Package searcher reports which signature k-mers from a frozen database
// occur in query sequences, per group and with positions.
package searcher

import (
	"context"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmersig/extract"
	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/sequence"
	"github.com/hupe1980/kmersig/sigdb"
	"github.com/hupe1980/kmersig/signature"
)

// MatchPosition records one signature hit in a query sequence.
type MatchPosition struct {
	// Offset is the window start within the query, 0-based.
	Offset int
	// Kmer is the canonical code that matched.
	Kmer kmer.Kmer
}

// MatchReport summarizes one group's hits in one query.
type MatchReport struct {
	// Matched is the number of query windows whose canonical code is in
	// the group's signature set.
	Matched int
	// Extracted is the total number of valid windows in the query.
	Extracted int
	// Positions lists the hits in ascending offset order.
	Positions []MatchPosition
}

// Searcher borrows a frozen database read-only for the duration of its
// searches and never mutates it. Construction precomputes a union index
// over all group sets so windows matching no group at all are rejected
// with a single probe; per-group results are identical to naive testing
// against every set.
type Searcher struct {
	db          *sigdb.Database
	labels      []string
	sets        []*signature.Set
	union       *roaring64.Bitmap
	parallelism int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithParallelism bounds the number of queries searched concurrently by
// SearchAll. Values below 1 fall back to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(s *Searcher) {
		s.parallelism = n
	}
}

// New creates a Searcher over db. The database must be frozen before the
// first search; the Searcher itself is safe for concurrent use.
func New(db *sigdb.Database, opts ...Option) *Searcher {
	s := &Searcher{
		db:          db,
		labels:      db.Labels(),
		union:       roaring64.New(),
		parallelism: runtime.GOMAXPROCS(0),
	}
	s.sets = make([]*signature.Set, len(s.labels))
	for i, label := range s.labels {
		set, err := db.Get(label)
		if err != nil {
			// Labels() and Get() are views of the same frozen map.
			panic(err)
		}
		s.sets[i] = set
		set.OrInto(s.union)
	}
	for _, fn := range opts {
		fn(s)
	}
	if s.parallelism < 1 {
		s.parallelism = runtime.GOMAXPROCS(0)
	}
	return s
}

// Search extracts canonical k-mers from the query using the database's k
// and base policy and reports per-group membership. Every group receives a
// report, zero-match groups included; a query shorter than k yields empty
// reports, not an error.
func (s *Searcher) Search(query sequence.Record) map[string]*MatchReport {
	reports := make(map[string]*MatchReport, len(s.labels))
	perSet := make([]*MatchReport, len(s.labels))
	for i, label := range s.labels {
		r := &MatchReport{}
		perSet[i] = r
		reports[label] = r
	}
	extracted := 0
	for off, code := range extract.Windows(query.Seq, s.db.K(), s.db.Policy()) {
		extracted++
		if !s.union.Contains(uint64(code)) {
			continue
		}
		for i, set := range s.sets {
			if set.Contains(code) {
				perSet[i].Matched++
				perSet[i].Positions = append(perSet[i].Positions, MatchPosition{Offset: off, Kmer: code})
			}
		}
	}
	for _, r := range perSet {
		r.Extracted = extracted
	}
	return reports
}

// SearchAll searches every query and returns the reports in input order.
// Queries are independent units of work fanned out over the shared frozen
// database.
func (s *Searcher) SearchAll(ctx context.Context, queries []sequence.Record) ([]map[string]*MatchReport, error) {
	out := make([]map[string]*MatchReport, len(queries))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.parallelism)
	for i, q := range queries {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.Search(q)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
