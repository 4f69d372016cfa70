// Package persistence implements the deterministic binary layout of a
// signature database. The byte layout is an interoperability contract:
// header (magic, version, k, policy, group count), then per group, in
// ascending label order, a length-prefixed label, a k-mer count, and the
// sorted ascending list of fixed-width k-mer codes. Sorted output makes
// serialization reproducible and lets readers binary-search the raw lists.
package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/hupe1980/kmersig/sequence"
	"github.com/hupe1980/kmersig/sigdb"
	"github.com/hupe1980/kmersig/signature"
)

// maxLabelLen is the limit imposed by the uint16 label length prefix.
const maxLabelLen = 1<<16 - 1

// databaseWriter writes the canonical layout.
type databaseWriter struct {
	w         io.Writer
	byteOrder binary.ByteOrder
}

func newDatabaseWriter(w io.Writer) *databaseWriter {
	return &databaseWriter{
		w:         w,
		byteOrder: binary.LittleEndian, // Native on x86/ARM
	}
}

func (dw *databaseWriter) writeHeader(h *FileHeader) error {
	h.Magic = MagicNumber
	h.Version = Version
	return binary.Write(dw.w, dw.byteOrder, h)
}

// writeUint64Slice writes a uint64 slice as raw bytes.
// Safety: validates alignment before the unsafe conversion.
func (dw *databaseWriter) writeUint64Slice(slice []uint64) error {
	if len(slice) == 0 {
		return nil
	}
	if err := validateUint64SliceAlignment(slice); err != nil {
		return err
	}
	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&slice[0])), len(slice)*8)
	_, err := dw.w.Write(byteSlice)
	return err
}

func (dw *databaseWriter) writeGroup(s *signature.Set) error {
	label := s.Label()
	if len(label) > maxLabelLen {
		return fmt.Errorf("group label exceeds %d bytes: %q", maxLabelLen, label)
	}
	if err := binary.Write(dw.w, dw.byteOrder, uint16(len(label))); err != nil {
		return err
	}
	if _, err := io.WriteString(dw.w, label); err != nil {
		return err
	}
	codes := s.ToArray() // ascending by construction
	if err := binary.Write(dw.w, dw.byteOrder, uint64(len(codes))); err != nil {
		return err
	}
	return dw.writeUint64Slice(codes)
}

func validateUint64SliceAlignment(slice []uint64) error {
	if uintptr(unsafe.Pointer(&slice[0]))%unsafe.Alignof(uint64(0)) != 0 {
		return fmt.Errorf("misaligned uint64 slice")
	}
	return nil
}

// Save writes db to w in the canonical layout. Group sections follow the
// database's ascending label order, so identical databases always produce
// identical bytes.
func Save(w io.Writer, db *sigdb.Database) error {
	dw := newDatabaseWriter(w)
	header := &FileHeader{
		K:          uint32(db.K()),
		Policy:     uint32(db.Policy()),
		GroupCount: uint32(db.Len()),
	}
	if err := dw.writeHeader(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, label := range db.Labels() {
		s, err := db.Get(label)
		if err != nil {
			return err
		}
		if err := dw.writeGroup(s); err != nil {
			return fmt.Errorf("write group %q: %w", label, err)
		}
	}
	return nil
}

// databaseReader reads and validates the canonical layout.
type databaseReader struct {
	r         io.Reader
	byteOrder binary.ByteOrder
}

func newDatabaseReader(r io.Reader) *databaseReader {
	return &databaseReader{
		r:         r,
		byteOrder: binary.LittleEndian,
	}
}

func (dr *databaseReader) readHeader() (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(dr.r, dr.byteOrder, &header); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrCorruptDatabase, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrCorruptDatabase, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version 0x%08x", ErrCorruptDatabase, header.Version)
	}
	return &header, nil
}

// readCodesChunk bounds the per-read allocation so an inflated count from an
// untrusted header surfaces as a short read instead of a giant make.
const readCodesChunk = 1 << 16

// readCodes reads count k-mer codes in bounded chunks, validating that each
// code fits width k and that the list is strictly ascending as it streams.
func (dr *databaseReader) readCodes(count uint64, k int) ([]uint64, error) {
	if count == 0 {
		return nil, nil
	}
	max := uint64(1)<<(2*uint(k)) - 1
	codes := make([]uint64, 0, min(count, readCodesChunk))
	chunk := make([]uint64, min(count, readCodesChunk))
	for read := uint64(0); read < count; {
		buf := chunk[:min(count-read, readCodesChunk)]
		byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*8)
		if _, err := io.ReadFull(dr.r, byteSlice); err != nil {
			return nil, err
		}
		for _, code := range buf {
			if code > max {
				return nil, fmt.Errorf("k-mer code %d out of range for k=%d", code, k)
			}
			if read > 0 && codes[read-1] >= code {
				return nil, fmt.Errorf("unsorted k-mer list at index %d", read)
			}
			codes = append(codes, code)
			read++
		}
	}
	return codes, nil
}

func (dr *databaseReader) readGroup(k int) (string, []uint64, error) {
	var labelLen uint16
	if err := binary.Read(dr.r, dr.byteOrder, &labelLen); err != nil {
		return "", nil, fmt.Errorf("%w: short group header: %w", ErrCorruptDatabase, err)
	}
	if labelLen == 0 {
		return "", nil, fmt.Errorf("%w: empty group label", ErrCorruptDatabase)
	}
	label := make([]byte, labelLen)
	if _, err := io.ReadFull(dr.r, label); err != nil {
		return "", nil, fmt.Errorf("%w: short label: %w", ErrCorruptDatabase, err)
	}
	var count uint64
	if err := binary.Read(dr.r, dr.byteOrder, &count); err != nil {
		return "", nil, fmt.Errorf("%w: short k-mer count: %w", ErrCorruptDatabase, err)
	}
	// At most 4^k canonical codes exist for width k; anything larger is an
	// inconsistent count, caught before reading the list.
	if count > uint64(1)<<(2*uint(k)) {
		return "", nil, fmt.Errorf("%w: group %q claims %d k-mers for k=%d", ErrCorruptDatabase, label, count, k)
	}
	codes, err := dr.readCodes(count, k)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad k-mer list for group %q: %w", ErrCorruptDatabase, label, err)
	}
	return string(label), codes, nil
}

// Load reads a database from r, validating the header, label ordering, and
// per-group k-mer ordering. Any malformation fails fast with
// ErrCorruptDatabase; a partially read database is never returned.
func Load(r io.Reader) (*sigdb.Database, error) {
	dr := newDatabaseReader(r)
	header, err := dr.readHeader()
	if err != nil {
		return nil, err
	}
	policy := sequence.BasePolicy(header.Policy)
	if header.Policy > 0xFF || !policy.Valid() {
		return nil, fmt.Errorf("%w: unknown base policy %d", ErrCorruptDatabase, header.Policy)
	}
	builder, err := sigdb.NewBuilder(int(header.K), policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDatabase, err)
	}
	prev := ""
	for i := uint32(0); i < header.GroupCount; i++ {
		label, codes, err := dr.readGroup(int(header.K))
		if err != nil {
			return nil, err
		}
		if i > 0 && prev >= label {
			return nil, fmt.Errorf("%w: group labels out of order: %q after %q", ErrCorruptDatabase, label, prev)
		}
		prev = label
		set, err := signature.FromKmers(label, int(header.K), policy, codes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptDatabase, err)
		}
		if err := builder.Add(set); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptDatabase, err)
		}
	}
	// Trailing bytes after the last group mean the header undercounted.
	var trailing [1]byte
	if n, _ := dr.r.Read(trailing[:]); n != 0 {
		return nil, fmt.Errorf("%w: trailing bytes after %d groups", ErrCorruptDatabase, header.GroupCount)
	}
	return builder.Build(), nil
}

// SaveFile saves db to filename via an atomic temp-file rename, optionally
// wrapping the canonical payload in a compression codec.
func SaveFile(filename string, db *sigdb.Database, codec Codec) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Write to a temp file in the same directory so the rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := saveCompressed(buf, db, codec); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}

// LoadFile loads a database from filename, sniffing the leading magic to
// detect the compression codec.
func LoadFile(filename string) (*sigdb.Database, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 256*1024)
	return loadCompressed(buf)
}
