package kmersig

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmersig/searcher"
	"github.com/hupe1980/kmersig/sequence"
	"github.com/hupe1980/kmersig/sigdb"
	"github.com/hupe1980/kmersig/signature"
)

// BuildDatabase extracts canonical k-mer signatures from every group and
// freezes them into a database. Groups are built in parallel; the first
// error aborts the whole build and no partially built database is ever
// returned. Labels must be non-empty and unique.
func BuildDatabase(ctx context.Context, k int, groups []sequence.Group, opts ...Option) (*sigdb.Database, error) {
	o := options{
		logger:      NoopLogger(),
		parallelism: runtime.GOMAXPROCS(0),
		policy:      sequence.MaskedToUpper,
		minCount:    1,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}

	// Validate labels before doing any extraction work.
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.Label == "" {
			return nil, ErrEmptyLabel
		}
		if _, ok := seen[g.Label]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, g.Label)
		}
		seen[g.Label] = struct{}{}
	}

	buildOpts := []signature.BuildOption{
		signature.WithParallelism(o.parallelism),
		signature.WithBasePolicy(o.policy),
		signature.WithMinCount(o.minCount),
		signature.WithMaxRun(o.maxRun),
		signature.WithLogger(o.logger.Logger),
	}

	sets := make([]*signature.Set, len(groups))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(o.parallelism)
	for i, g := range groups {
		grp.Go(func() error {
			set, stats, err := signature.Build(ctx, g, k, buildOpts...)
			if err != nil {
				return fmt.Errorf("build group %q: %w", g.Label, err)
			}
			sets[i] = set
			o.logger.Info("group signature ready",
				slog.String("label", g.Label),
				slog.Int("records", stats.Records),
				slog.Int("bases", stats.Bases),
				slog.Int("ambiguous_skipped", stats.AmbiguousSkipped),
				slog.Uint64("unique", stats.Unique),
			)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	builder, err := sigdb.NewBuilder(k, o.policy)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if err := builder.Add(set); err != nil {
			return nil, err
		}
	}
	db := builder.Build()
	o.logger.Info("signature database built",
		slog.Int("k", k),
		slog.Int("groups", db.Len()),
	)
	return db, nil
}

// DiffSignatures returns the k-mers present in targetLabel's signature set
// and absent from every set named in otherLabels: the discriminative
// signature of the target group. With no otherLabels, the target is diffed
// against every remaining group in the database.
func DiffSignatures(db *sigdb.Database, targetLabel string, otherLabels ...string) (*signature.Set, error) {
	target, err := db.Get(targetLabel)
	if err != nil {
		return nil, err
	}
	if len(otherLabels) == 0 {
		for _, label := range db.Labels() {
			if label != targetLabel {
				otherLabels = append(otherLabels, label)
			}
		}
	}
	others := make([]*signature.Set, 0, len(otherLabels))
	for _, label := range otherLabels {
		s, err := db.Get(label)
		if err != nil {
			return nil, err
		}
		others = append(others, s)
	}
	return signature.ExclusiveTo(target, others...)
}

// Search reports, per group, which signature k-mers occur in the query.
// For repeated queries against the same database, construct a
// searcher.Searcher once and reuse it; this helper rebuilds the union
// index on every call.
func Search(db *sigdb.Database, query sequence.Record) map[string]*searcher.MatchReport {
	return searcher.New(db).Search(query)
}

// SearchAll searches every query in parallel and returns reports in input
// order.
func SearchAll(ctx context.Context, db *sigdb.Database, queries []sequence.Record, opts ...Option) ([]map[string]*searcher.MatchReport, error) {
	o := options{parallelism: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(&o)
	}
	s := searcher.New(db, searcher.WithParallelism(o.parallelism))
	return s.SearchAll(ctx, queries)
}
