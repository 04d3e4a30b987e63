package xmlutil

// Backend selects which Emitter implementation builds a part's XML.
type Backend int

const (
	// DOMBackend builds a tree in memory before serializing (WriterConfig's
	// "default" preset).
	DOMBackend Backend = iota
	// StreamBackend writes tokens directly without buffering a tree
	// (WriterConfig's "fast" preset).
	StreamBackend
)

// New returns a fresh Emitter for the given backend.
func New(b Backend) Emitter {
	if b == StreamBackend {
		return NewStreamEmitter()
	}
	return NewDOMEmitter()
}

// Declaration is the standalone XML declaration every OOXML part starts
// with.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// BuildPart runs build against a fresh Emitter for backend and returns the
// declaration-prefixed bytes of the finished part.
func BuildPart(backend Backend, build func(e Emitter)) ([]byte, error) {
	e := New(backend)
	e.StartDocument()
	build(e)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(Declaration)+len(body))
	out = append(out, Declaration...)
	out = append(out, body...)
	return out, nil
}
