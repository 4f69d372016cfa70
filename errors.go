package kmersig

import (
	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/persistence"
	"github.com/hupe1980/kmersig/sigdb"
	"github.com/hupe1980/kmersig/signature"
)

// The facade re-exports the sentinel errors of its subpackages so callers
// can match with errors.Is without importing every layer. Ambiguous bases
// are deliberately absent: an ambiguous window is a per-window skip signal
// during extraction, never an error.
var (
	// ErrInvalidK is returned when k is outside [1, kmer.MaxK].
	ErrInvalidK = kmer.ErrInvalidK
	// ErrIncompatibleSignatures is returned when set algebra mixes sets
	// built with a different k or base policy.
	ErrIncompatibleSignatures = signature.ErrIncompatibleSignatures
	// ErrEmptyLabel is returned when a group carries an empty label.
	ErrEmptyLabel = signature.ErrEmptyLabel
	// ErrDuplicateLabel is returned when two groups share a label within
	// one database build.
	ErrDuplicateLabel = sigdb.ErrDuplicateLabel
	// ErrKMismatch is returned when a signature set's parameters differ
	// from the database's.
	ErrKMismatch = sigdb.ErrKMismatch
	// ErrUnknownGroup is returned when a label is not in the database.
	ErrUnknownGroup = sigdb.ErrUnknownGroup
	// ErrCorruptDatabase is returned when deserialization finds a
	// malformed file; loading fails fast with no partial result.
	ErrCorruptDatabase = persistence.ErrCorruptDatabase
)
