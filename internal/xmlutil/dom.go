package xmlutil

import "bytes"

// node is one element of the in-memory tree built by DOMEmitter.
type node struct {
	name     string
	attrs    []Attr
	children []*node
	text     *string
	hasText  bool
	raw      *string
}

// DOMEmitter builds a full element tree in memory and serializes it only
// once, on Bytes(). This mirrors the fluent OTag/Attr/CTag style this
// module's part writers use, and lets text-bearing elements compute their
// xml:space attribute after the text is known but before anything is
// written to the underlying buffer.
type DOMEmitter struct {
	root  *node
	stack []*node
	err   error
}

// NewDOMEmitter returns a DOMEmitter ready to receive one root element.
func NewDOMEmitter() *DOMEmitter {
	return &DOMEmitter{}
}

func (d *DOMEmitter) StartDocument() {}

func (d *DOMEmitter) StartElement(local string) {
	n := &node{name: local}
	if len(d.stack) == 0 {
		d.root = n
	} else {
		parent := d.stack[len(d.stack)-1]
		parent.children = append(parent.children, n)
	}
	d.stack = append(d.stack, n)
}

func (d *DOMEmitter) Attr(name string, value any) {
	if len(d.stack) == 0 {
		d.err = errNoOpenElement
		return
	}
	cur := d.stack[len(d.stack)-1]
	cur.attrs = append(cur.attrs, Attr{Name: name, Value: formatValue(value)})
}

func (d *DOMEmitter) Text(s string) {
	if len(d.stack) == 0 {
		d.err = errNoOpenElement
		return
	}
	cur := d.stack[len(d.stack)-1]
	if needsPreserve(s) {
		cur.attrs = append(cur.attrs, Attr{Name: "xml:space", Value: "preserve"})
	}
	cur.text = &s
	cur.hasText = true
}

// Raw attaches pre-serialized XML to the current element, bypassing
// escaping. It cannot be mixed with Text on the same element; the node's
// raw content wins if both are set.
func (d *DOMEmitter) Raw(s string) {
	if len(d.stack) == 0 {
		d.err = errNoOpenElement
		return
	}
	cur := d.stack[len(d.stack)-1]
	cur.raw = &s
}

func (d *DOMEmitter) EndElement() {
	if len(d.stack) == 0 {
		d.err = errNoOpenElement
		return
	}
	d.stack = d.stack[:len(d.stack)-1]
}

// Bytes serializes the tree built so far. It does not include an XML
// declaration; callers that need one (every OOXML part does) prepend it
// themselves so the declaration's exact bytes are under test's control.
func (d *DOMEmitter) Bytes() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(d.stack) != 0 {
		return nil, errUnclosedElement
	}
	var buf bytes.Buffer
	if d.root != nil {
		writeNode(&buf, d.root)
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *node) {
	buf.WriteByte('<')
	buf.WriteString(n.name)
	for _, a := range n.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(EscapeAttr(toStr(a.Value)))
		buf.WriteByte('"')
	}
	if len(n.children) == 0 && !n.hasText && n.raw == nil {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if n.raw != nil {
		buf.WriteString(*n.raw)
	} else if n.hasText {
		buf.WriteString(EscapeText(*n.text))
	}
	for _, c := range n.children {
		writeNode(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(n.name)
	buf.WriteByte('>')
}

func toStr(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatValue(v)
}
