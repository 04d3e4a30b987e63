package xmlutil

import "bytes"

// openElem tracks one element on the StreamEmitter's stack while its start
// tag is still pending (not yet flushed to the output buffer), so Text can
// still add xml:space="preserve" and StartElement/EndElement can still
// decide between "/>" and an explicit close tag.
type openElem struct {
	name    string
	attrs   []Attr
	flushed bool
	hasKids bool
}

// StreamEmitter writes tokens directly to an output buffer as each method
// is called, buffering only the currently-open element's start tag (to
// allow attribute and xml:space insertion before the first '>').  This is
// the backend behind WriterConfig's "fast" preset.
type StreamEmitter struct {
	buf   bytes.Buffer
	stack []*openElem
	err   error
}

func NewStreamEmitter() *StreamEmitter {
	return &StreamEmitter{}
}

func (s *StreamEmitter) StartDocument() {}

func (s *StreamEmitter) StartElement(local string) {
	s.flushParentForChild()
	s.stack = append(s.stack, &openElem{name: local})
}

func (s *StreamEmitter) Attr(name string, value any) {
	if len(s.stack) == 0 {
		s.err = errNoOpenElement
		return
	}
	cur := s.stack[len(s.stack)-1]
	if cur.flushed {
		s.err = errNoOpenElement
		return
	}
	cur.attrs = append(cur.attrs, Attr{Name: name, Value: formatValue(value)})
}

func (s *StreamEmitter) Text(str string) {
	if len(s.stack) == 0 {
		s.err = errNoOpenElement
		return
	}
	cur := s.stack[len(s.stack)-1]
	if needsPreserve(str) {
		cur.attrs = append(cur.attrs, Attr{Name: "xml:space", Value: "preserve"})
	}
	s.flushStart(cur)
	s.buf.WriteString(EscapeText(str))
}

// Raw writes str verbatim with no escaping, used to replay already-
// serialized XML captured from a source part.
func (s *StreamEmitter) Raw(str string) {
	if len(s.stack) == 0 {
		s.err = errNoOpenElement
		return
	}
	cur := s.stack[len(s.stack)-1]
	s.flushStart(cur)
	s.buf.WriteString(str)
}

func (s *StreamEmitter) EndElement() {
	if len(s.stack) == 0 {
		s.err = errNoOpenElement
		return
	}
	cur := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if !cur.flushed {
		s.writeStartTag(cur, true)
		return
	}
	s.buf.WriteString("</")
	s.buf.WriteString(cur.name)
	s.buf.WriteByte('>')
}

func (s *StreamEmitter) Bytes() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.stack) != 0 {
		return nil, errUnclosedElement
	}
	return s.buf.Bytes(), nil
}

// flushParentForChild flushes the current top-of-stack element's start tag
// (as non-self-closing, since a child is about to be written) before a new
// child element is pushed.
func (s *StreamEmitter) flushParentForChild() {
	if len(s.stack) == 0 {
		return
	}
	cur := s.stack[len(s.stack)-1]
	s.flushStart(cur)
	cur.hasKids = true
}

func (s *StreamEmitter) flushStart(e *openElem) {
	if e.flushed {
		return
	}
	s.writeStartTag(e, false)
	e.flushed = true
}

func (s *StreamEmitter) writeStartTag(e *openElem, selfClose bool) {
	s.buf.WriteByte('<')
	s.buf.WriteString(e.name)
	for _, a := range e.attrs {
		s.buf.WriteByte(' ')
		s.buf.WriteString(a.Name)
		s.buf.WriteString(`="`)
		s.buf.WriteString(EscapeAttr(toStr(a.Value)))
		s.buf.WriteByte('"')
	}
	if selfClose {
		s.buf.WriteString("/>")
	} else {
		s.buf.WriteByte('>')
	}
}
