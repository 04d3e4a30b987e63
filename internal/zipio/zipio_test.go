package zipio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteEntry("a.xml", []byte("<a/>")))
	require.NoError(t, w.WriteEntry("b.xml", []byte("<b/>")))
	require.NoError(t, w.Close())

	r, err := Open(buf.Bytes(), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, r.Entries(), 2)
	require.Equal(t, "a.xml", r.Entries()[0].Name)
	data, err := r.ReadAll("b.xml")
	require.NoError(t, err)
	require.Equal(t, "<b/>", string(data))
}

func TestDeterministicBytes(t *testing.T) {
	build := func() []byte {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.WriteEntry("x.xml", []byte("hello world"))
		w.Close()
		return buf.Bytes()
	}
	require.Equal(t, build(), build())
}

func TestMaxEntryCountRejected(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteEntry("a.xml", []byte("a"))
	w.WriteEntry("b.xml", []byte("b"))
	w.Close()

	_, err := Open(buf.Bytes(), Limits{MaxEntryCount: 1})
	require.Error(t, err)
	var secErr *SecurityError
	require.ErrorAs(t, err, &secErr)
	require.Equal(t, "maxEntryCount", secErr.Limit)
}
