package persistence

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/kmersig/sigdb"
)

// Codec selects the compression envelope around the canonical payload. The
// payload bytes are identical under every codec; compression only wraps
// them, so reproducibility of the canonical layout is unaffected.
type Codec uint8

const (
	// CodecRaw stores the canonical layout uncompressed.
	CodecRaw Codec = iota
	// CodecZstd wraps the payload in a zstd frame (better ratio).
	CodecZstd
	// CodecLZ4 wraps the payload in an LZ4 frame (faster).
	CodecLZ4
)

// Frame magics used to sniff the codec on load.
var (
	zstdMagic = [4]byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = [4]byte{0x04, 0x22, 0x4D, 0x18}
	rawMagic  = [4]byte{0x31, 0x47, 0x53, 0x4B} // "KSG1" little-endian
)

func saveCompressed(w io.Writer, db *sigdb.Database, codec Codec) error {
	switch codec {
	case CodecRaw:
		return Save(w, db)
	case CodecZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if err := Save(enc, db); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	case CodecLZ4:
		enc := lz4.NewWriter(w)
		if err := Save(enc, db); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown codec %d", codec)
	}
}

func loadCompressed(r *bufio.Reader) (*sigdb.Database, error) {
	head, err := r.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("%w: short file: %w", ErrCorruptDatabase, err)
	}
	switch {
	case [4]byte(head) == rawMagic:
		return Load(r)
	case [4]byte(head) == zstdMagic:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd frame: %w", ErrCorruptDatabase, err)
		}
		defer dec.Close()
		return Load(dec)
	case [4]byte(head) == lz4Magic:
		return Load(lz4.NewReader(r))
	default:
		return nil, fmt.Errorf("%w: bad magic % x", ErrCorruptDatabase, head)
	}
}
