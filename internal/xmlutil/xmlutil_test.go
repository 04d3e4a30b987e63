package xmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSample(e Emitter) {
	e.StartElement("root")
	e.Attr("xmlns", "urn:example")
	e.StartElement("child")
	e.Attr("r:id", "rId1")
	e.Text("  spaced")
	e.EndElement()
	e.StartElement("empty")
	e.EndElement()
	e.EndElement()
}

func TestBackendsProduceEquivalentOutput(t *testing.T) {
	dom, err := BuildPart(DOMBackend, buildSample)
	require.NoError(t, err)
	stream, err := BuildPart(StreamBackend, buildSample)
	require.NoError(t, err)
	require.Equal(t, string(dom), string(stream))
}

func TestLeadingWhitespacePreserved(t *testing.T) {
	for _, backend := range []Backend{DOMBackend, StreamBackend} {
		out, err := BuildPart(backend, func(e Emitter) {
			e.StartElement("t")
			e.Text("  spaced")
			e.EndElement()
		})
		require.NoError(t, err)
		require.Contains(t, string(out), `xml:space="preserve"`)
	}
}

func TestNoPreserveForPlainText(t *testing.T) {
	out, err := BuildPart(DOMBackend, func(e Emitter) {
		e.StartElement("t")
		e.Text("plain")
		e.EndElement()
	})
	require.NoError(t, err)
	require.NotContains(t, string(out), "xml:space")
}

func TestEscaping(t *testing.T) {
	out, err := BuildPart(DOMBackend, func(e Emitter) {
		e.StartElement("t")
		e.Attr("a", `<">&'`)
		e.Text(`<&>`)
		e.EndElement()
	})
	require.NoError(t, err)
	require.Contains(t, string(out), `a="&lt;&quot;&gt;&amp;&apos;"`)
	require.Contains(t, string(out), `&lt;&amp;&gt;`)
}

func TestEscapingQuotesInCharacterData(t *testing.T) {
	for _, backend := range []Backend{DOMBackend, StreamBackend} {
		out, err := BuildPart(backend, func(e Emitter) {
			e.StartElement("t")
			e.Text(`say "hi" to O'Brien`)
			e.EndElement()
		})
		require.NoError(t, err)
		require.Contains(t, string(out), `say &quot;hi&quot; to O&apos;Brien`)
	}
}

func TestDeterministicOutput(t *testing.T) {
	a, err := BuildPart(DOMBackend, buildSample)
	require.NoError(t, err)
	b, err := BuildPart(DOMBackend, buildSample)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRawBypassesEscaping(t *testing.T) {
	for _, backend := range []Backend{DOMBackend, StreamBackend} {
		out, err := BuildPart(backend, func(e Emitter) {
			e.StartElement("dxfs")
			e.Raw(`<dxf><font><b/></font></dxf>`)
			e.EndElement()
		})
		require.NoError(t, err)
		require.Contains(t, string(out), `<dxfs><dxf><font><b/></font></dxf></dxfs>`)
	}
}

func TestWithAttributesOrder(t *testing.T) {
	out, err := BuildPart(DOMBackend, func(e Emitter) {
		WithAttributes(e, "xf", A("numFmtId", 0), A("fontId", 1), A("fillId", 2))
		e.EndElement()
	})
	require.NoError(t, err)
	require.Contains(t, string(out), `numFmtId="0" fontId="1" fillId="2"`)
}
