package writer

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosheetkit/xlcore/internal/zipio"
	"github.com/gosheetkit/xlcore/xl"
	"github.com/gosheetkit/xlcore/xlerr"
)

// Write serializes wb to destPath using one of three strategies (spec.md
// §4.6): a byte-identical verbatim copy when wb carries a SourceContext,
// nothing has been modified, and the source file on disk still matches
// the fingerprint recorded at load time; a hybrid surgical write that
// copies every unmodified part and regenerates only what changed, when a
// SourceContext is present, something was modified, and the source file
// still matches its fingerprint; or a full regeneration when wb was built
// fresh (xl.NewWorkbook, no prior Load) or its source file can no longer
// be read or no longer matches the fingerprint.
//
// The destination is written via a temporary file in the same directory
// and renamed into place on success, so a failed or interrupted write
// never leaves a partial file at destPath.
func Write(wb *xl.Workbook, destPath string, cfg Config) error {
	data, err := Build(wb, cfg)
	if err != nil {
		return err
	}
	return atomicWrite(destPath, data)
}

// Build produces the xlsx package bytes for wb without touching destPath,
// selecting the same strategy Write does.
func Build(wb *xl.Workbook, cfg Config) ([]byte, error) {
	sc := wb.Source()
	if sc == nil {
		return buildFull(wb, cfg)
	}

	onDisk, rerr := os.ReadFile(sc.SourcePath)
	fingerprintOK := rerr == nil && sha256.Sum256(onDisk) == sc.SourceFingerprint
	if sc.ModificationTracker.IsClean() && fingerprintOK {
		return onDisk, nil
	}
	if !fingerprintOK {
		// The file on disk no longer matches what was loaded -- a surgical
		// diff against it would copy parts that no longer correspond to
		// this Workbook's domain model, so fall back to a full rebuild
		// from the in-memory state instead.
		return buildFull(wb, cfg)
	}
	return buildHybrid(wb, sc, onDisk, cfg)
}

// atomicWrite writes data to a temp file beside destPath and renames it
// into place, so destPath is only ever replaced atomically.
func atomicWrite(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, ".xlcore-*.tmp")
	if err != nil {
		return xlerr.NewIOError("creating temporary output file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return xlerr.NewIOError("writing temporary output file", err)
	}
	if err := tmp.Close(); err != nil {
		return xlerr.NewIOError("closing temporary output file", err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		return xlerr.NewIOError("renaming temporary output file into place", err)
	}
	return nil
}

// newZipWriter opens a deterministic zip writer over a fresh buffer-backed
// destination, collecting bytes rather than streaming straight to disk so
// Build can be used both by Write and by callers that want the bytes
// in-memory (tests, the CLI's convert command piping to stdout).
type byteSink struct{ buf []byte }

func (s *byteSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func newZipWriter() (*zipio.Writer, *byteSink) {
	sink := &byteSink{}
	return zipio.NewWriter(sink), sink
}

// wrapPartErr annotates a build error with the part name that failed,
// since ooxml builders return bare errors.
func wrapPartErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("building %s: %w", name, err)
}

// writeZipEntry writes one part to zw, wrapping any failure with the part
// name so a write error is traceable to the part that produced it.
func writeZipEntry(zw *zipio.Writer, name string, data []byte) error {
	if err := zw.WriteEntry(name, data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
