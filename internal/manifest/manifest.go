// Package manifest implements PartManifest: the ordered record of every ZIP
// entry seen on load, whether the engine parsed it semantically, and which
// sheet (if any) it belongs to. The surgical writer diffs this manifest
// against the modification tracker to build its copy/regenerate/drop/insert
// plan (spec.md §9, "surgical write as a diff algorithm").
package manifest

// Entry describes one ZIP part as recorded at load time.
type Entry struct {
	Name       string
	Parsed     bool
	Size       uint64
	HasSize    bool
	SheetIndex int
	HasSheet   bool
}

// Manifest is the ordered map of entry name -> Entry, preserving archive
// order exactly as read.
type Manifest struct {
	order   []string
	entries map[string]Entry
}

// New returns an empty Manifest.
func New() *Manifest {
	return &Manifest{entries: make(map[string]Entry)}
}

// Add records entry e, appending it to archive order. Re-adding an
// existing name overwrites the record but keeps its original position.
func (m *Manifest) Add(e Entry) {
	if _, exists := m.entries[e.Name]; !exists {
		m.order = append(m.order, e.Name)
	}
	m.entries[e.Name] = e
}

// Get returns the entry for name and whether it was present.
func (m *Manifest) Get(name string) (Entry, bool) {
	e, ok := m.entries[name]
	return e, ok
}

// Names returns all entry names in archive order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of recorded entries.
func (m *Manifest) Len() int { return len(m.order) }

// SheetPartNames returns, in archive order, every entry recorded against
// sheetIndex (its own worksheet part plus any comments/VML sidecars the
// loader attributed to it).
func (m *Manifest) SheetPartNames(sheetIndex int) []string {
	var out []string
	for _, name := range m.order {
		e := m.entries[name]
		if e.HasSheet && e.SheetIndex == sheetIndex {
			out = append(out, name)
		}
	}
	return out
}
