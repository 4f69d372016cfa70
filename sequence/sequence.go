// Package sequence defines the read-only input model for signature builds:
// sequence records, labeled groups, and the base classification policy that
// decides how masked (lowercase) and ambiguous positions are treated.
package sequence

import "fmt"

// Record is one input sequence. Seq holds the raw bases as supplied by the
// parser; positions that do not classify as A, C, G or T under the active
// BasePolicy are ambiguous and never contribute k-mers. Records are
// read-only once ingested.
type Record struct {
	ID  string
	Seq []byte
}

// Group is a labeled collection of records. Group membership is assigned by
// the caller; labels must be non-empty and unique within one database build.
type Group struct {
	Label   string
	Records []Record
}

// BasePolicy decides how lowercase (masked) bases classify. The policy is
// fixed per database and recorded in its persisted header, never inferred
// per query.
type BasePolicy uint8

const (
	// MaskedToUpper treats lowercase acgt as their uppercase base.
	MaskedToUpper BasePolicy = iota
	// MaskedSkip treats lowercase bases as ambiguous, so any window
	// overlapping a masked region is skipped.
	MaskedSkip
)

// Valid reports whether p is a known policy.
func (p BasePolicy) Valid() bool {
	return p == MaskedToUpper || p == MaskedSkip
}

func (p BasePolicy) String() string {
	switch p {
	case MaskedToUpper:
		return "masked-to-upper"
	case MaskedSkip:
		return "masked-skip"
	default:
		return fmt.Sprintf("base-policy(%d)", uint8(p))
	}
}

// classUpper maps any casing of acgt to the uppercase base; zero marks
// ambiguous bytes.
var classUpper [256]byte

// classStrict accepts uppercase only.
var classStrict [256]byte

func init() {
	for _, b := range []byte("ACGT") {
		classUpper[b] = b
		classStrict[b] = b
		classUpper[b+'a'-'A'] = b
	}
}

// Classify maps one raw byte to its base under policy p. ok is false for
// ambiguous positions (N and every other non-base byte, plus lowercase
// under MaskedSkip).
func Classify(b byte, p BasePolicy) (byte, bool) {
	var m byte
	if p == MaskedSkip {
		m = classStrict[b]
	} else {
		m = classUpper[b]
	}
	return m, m != 0
}
