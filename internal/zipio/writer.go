package zipio

import (
	"archive/zip"
	"io"
	"time"
)

// epoch is the deterministic timestamp (DOS epoch, 1980-01-01) stamped on
// every entry so two writes of the same logical content produce
// byte-identical archives.
var epoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Writer emits ZIP entries with deterministic ordering, compression level
// 1, and a fixed timestamp -- grounded on the teacher's ZipStorage, split
// out so the surgical writer can interleave verbatim copies with
// freshly-generated parts through one Storage-shaped surface.
type Writer struct {
	zw *zip.Writer
}

// NewWriter wraps out in a deterministic ZIP writer. Compression level 1 is
// registered on this *zip.Writer instance only -- not process-wide -- so
// concurrent callers writing different workbooks never interfere with each
// other's compressor settings.
func NewWriter(out io.Writer) *Writer {
	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, deflateLevel1)
	return &Writer{zw: zw}
}

// WriteEntry writes one archive member. Entries must be written in the
// caller's desired final order; Writer does not reorder anything.
func (w *Writer) WriteEntry(name string, data []byte) error {
	fh := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	fw, err := w.zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}

// Close flushes the central directory. It must be called exactly once,
// after every WriteEntry call, or the archive is invalid.
func (w *Writer) Close() error {
	return w.zw.Close()
}
