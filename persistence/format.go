package persistence

import "errors"

const (
	// MagicNumber identifies kmersig database files (ASCII: "KSG1").
	MagicNumber = 0x4B534731
	// Version is the current file format version (v1.0). The version pins
	// the byte order (little-endian) and the fixed 8-byte k-mer width.
	Version = 0x00010000
)

var (
	// ErrCorruptDatabase is returned when deserialization finds a malformed
	// header, inconsistent counts, or an unsorted k-mer list. Loading fails
	// fast; no partially loaded database escapes.
	ErrCorruptDatabase = errors.New("corrupt signature database")
)

// FileHeader is the 20-byte header at the start of every database file.
// The layout is the interoperability contract: two builds from identical
// inputs must produce byte-identical files, so the header carries no
// timestamps or host-dependent fields.
type FileHeader struct {
	Magic      uint32 // 0x4B534731 ("KSG1")
	Version    uint32 // File format version
	K          uint32 // k-mer width in bases
	Policy     uint32 // Base classification policy id
	GroupCount uint32 // Number of group sections in the body
}
