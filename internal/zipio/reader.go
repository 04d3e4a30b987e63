package zipio

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Entry describes one archive member as enumerated in archive order.
type Entry struct {
	Name             string
	CompressedSize   uint64
	UncompressedSize uint64
	CRC32            uint32
}

// Reader gives indexed, on-demand access to a ZIP archive's entries,
// enforcing caller-supplied Limits along the way.
type Reader struct {
	entries []Entry
	byName  map[string]*zip.File
	order   []string
	limits  Limits
}

// Open reads all entry metadata (but not content) from a ZIP archive held
// in memory. It enforces MaxEntryCount and, per-entry, MaxUncompressedSize
// and MaxCompressionRatio using the sizes recorded in the central
// directory -- so a hostile archive is rejected before any entry is
// inflated.
func Open(data []byte, limits Limits) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zipio: not a ZIP archive: %w", err)
	}

	if limits.MaxEntryCount > 0 && len(zr.File) > limits.MaxEntryCount {
		return nil, newSecurityError("maxEntryCount", fmt.Sprintf("%d entries", len(zr.File)))
	}

	r := &Reader{
		byName: make(map[string]*zip.File, len(zr.File)),
		limits: limits,
	}

	var totalUncompressed uint64
	for _, f := range zr.File {
		fh := f.FileHeader
		if limits.MaxUncompressedSize > 0 && fh.UncompressedSize64 > uint64(limits.MaxUncompressedSize) {
			return nil, newSecurityError("maxUncompressedSize", fh.Name)
		}
		if limits.MaxCompressionRatio > 0 && fh.CompressedSize64 > 0 {
			ratio := float64(fh.UncompressedSize64) / float64(fh.CompressedSize64)
			if ratio > limits.MaxCompressionRatio {
				return nil, newSecurityError("maxCompressionRatio", fh.Name)
			}
		}
		totalUncompressed += fh.UncompressedSize64
		if limits.MaxUncompressedSize > 0 && totalUncompressed > uint64(limits.MaxUncompressedSize) {
			return nil, newSecurityError("maxUncompressedSize", "cumulative total")
		}

		e := Entry{
			Name:             fh.Name,
			CompressedSize:   fh.CompressedSize64,
			UncompressedSize: fh.UncompressedSize64,
			CRC32:            fh.CRC32,
		}
		r.entries = append(r.entries, e)
		r.order = append(r.order, fh.Name)
		r.byName[fh.Name] = f
	}

	return r, nil
}

// Entries returns all entry metadata in archive order.
func (r *Reader) Entries() []Entry {
	return r.entries
}

// Has reports whether name is present in the archive.
func (r *Reader) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ReadAll returns the (decompressed) bytes of the named entry, enforcing
// MaxUncompressedSize a second time against the actual inflated size, since
// a crafted central directory can lie about UncompressedSize64.
func (r *Reader) ReadAll(name string) ([]byte, error) {
	f, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("zipio: entry not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("zipio: opening %s: %w", name, err)
	}
	defer rc.Close()

	var limit int64 = -1
	if r.limits.MaxUncompressedSize > 0 {
		limit = r.limits.MaxUncompressedSize + 1
	}
	var data []byte
	if limit >= 0 {
		lr := &io.LimitedReader{R: rc, N: limit}
		data, err = io.ReadAll(lr)
		if err != nil {
			return nil, fmt.Errorf("zipio: reading %s: %w", name, err)
		}
		if int64(len(data)) >= limit {
			return nil, newSecurityError("maxUncompressedSize", name)
		}
	} else {
		data, err = io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("zipio: reading %s: %w", name, err)
		}
	}
	return data, nil
}
