package zipio

import (
	"compress/flate"
	"io"
)

// deflateLevel1 builds a flate.Writer at compression level 1, the level
// the spec mandates for every entry this module emits.
func deflateLevel1(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.BestSpeed)
}
