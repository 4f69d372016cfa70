package kmersig

import (
	"github.com/hupe1980/kmersig/sequence"
)

type options struct {
	logger      *Logger
	parallelism int
	policy      sequence.BasePolicy
	minCount    uint32
	maxRun      int
}

// Option configures database build behavior.
//
// Options exist to avoid exploding the API surface with constructor
// variants; the zero configuration is always valid.
type Option func(*options)

// WithLogger configures the structured logger used during builds.
//
// If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallelism bounds the number of groups and records processed
// concurrently during a build. Values below 1 fall back to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithBasePolicy sets how masked (lowercase) bases classify. The policy is
// fixed at build time and recorded in the persisted database header; it is
// never inferred per query.
func WithBasePolicy(p sequence.BasePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMinCount keeps only k-mers observed at least n times within their
// group, discarding rare, likely-erroneous k-mers. The default of 1 keeps
// everything.
func WithMinCount(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.minCount = n
		}
	}
}

// WithMaxRun drops windows whose longest homopolymer run exceeds n, a
// low-complexity filter in the spirit of simplicity masking. Zero disables
// the filter.
func WithMaxRun(n int) Option {
	return func(o *options) {
		o.maxRun = n
	}
}
