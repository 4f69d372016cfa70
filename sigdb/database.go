// Package sigdb provides the signature database: a frozen, named collection
// of per-group signature sets sharing one k and one base policy.
//
// A Database is assembled through a Builder and immutable afterwards, which
// makes it safe for unbounded concurrent readers; construction must complete
// before any search begins.
package sigdb

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/kmersig/kmer"
	"github.com/hupe1980/kmersig/sequence"
	"github.com/hupe1980/kmersig/signature"
)

var (
	// ErrDuplicateLabel is returned when a group label is added twice.
	ErrDuplicateLabel = errors.New("duplicate group label")
	// ErrKMismatch is returned when a set's k or base policy differs from
	// the database's.
	ErrKMismatch = errors.New("signature set parameters do not match database")
	// ErrUnknownGroup is returned when a label is not in the database.
	ErrUnknownGroup = errors.New("unknown group label")
)

// Database maps group labels to frozen signature sets. All sets share the
// database's k and base policy.
type Database struct {
	k      int
	policy sequence.BasePolicy
	built  time.Time
	sets   map[string]*signature.Set
	labels []string // sorted ascending
}

// K returns the k-mer width shared by every set.
func (db *Database) K() int { return db.k }

// Policy returns the base classification policy shared by every set.
func (db *Database) Policy() sequence.BasePolicy { return db.policy }

// BuiltAt returns the freeze timestamp. It is in-memory metadata only and
// deliberately excluded from serialization, so identical inputs always
// serialize to identical bytes.
func (db *Database) BuiltAt() time.Time { return db.built }

// Len returns the number of groups.
func (db *Database) Len() int { return len(db.sets) }

// Labels returns the group labels in ascending order. The slice is a copy.
func (db *Database) Labels() []string {
	out := make([]string, len(db.labels))
	copy(out, db.labels)
	return out
}

// Get returns the signature set for a label.
func (db *Database) Get(label string) (*signature.Set, error) {
	s, ok := db.sets[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, label)
	}
	return s, nil
}

// Builder assembles a Database. It is not safe for concurrent use; callers
// add sets from a single goroutine and freeze with Build.
type Builder struct {
	k      int
	policy sequence.BasePolicy
	sets   map[string]*signature.Set
}

// NewBuilder starts a database build with the given k and base policy.
func NewBuilder(k int, policy sequence.BasePolicy) (*Builder, error) {
	if err := kmer.ValidateK(k); err != nil {
		return nil, err
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrKMismatch, policy)
	}
	return &Builder{
		k:      k,
		policy: policy,
		sets:   make(map[string]*signature.Set),
	}, nil
}

// Add registers a group's signature set.
func (b *Builder) Add(s *signature.Set) error {
	if s.K() != b.k {
		return fmt.Errorf("%w: set k=%d, database k=%d", ErrKMismatch, s.K(), b.k)
	}
	if s.Policy() != b.policy {
		return fmt.Errorf("%w: set policy %s, database policy %s", ErrKMismatch, s.Policy(), b.policy)
	}
	if s.Label() == "" {
		return signature.ErrEmptyLabel
	}
	if _, ok := b.sets[s.Label()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, s.Label())
	}
	b.sets[s.Label()] = s
	return nil
}

// Build freezes the accumulated sets into a Database. The builder may not
// be reused afterwards.
func (b *Builder) Build() *Database {
	labels := make([]string, 0, len(b.sets))
	for label := range b.sets {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	db := &Database{
		k:      b.k,
		policy: b.policy,
		built:  time.Now().UTC(),
		sets:   b.sets,
		labels: labels,
	}
	b.sets = nil
	return db
}
