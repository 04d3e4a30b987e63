package ooxml

import (
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
)

// Relationship is one entry of a .rels part (spec.md §4.3.2).
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string // "" (Internal) or "External"
}

// ParseRelationships parses a .rels part into its ordered relationship
// list, in source document order.
func ParseRelationships(location string, raw []byte) ([]Relationship, error) {
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	var out []Relationship
	dec := newDecoder(raw)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var r Relationship
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				r.ID = a.Value
			case "Type":
				r.Type = a.Value
			case "Target":
				r.Target = a.Value
			case "TargetMode":
				r.TargetMode = a.Value
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// BuildRelationships emits a .rels part with entries sorted by the
// numeric suffix of Id, so rId1, rId2, ..., rId10 lexicographically
// (spec.md §4.3.2). TargetMode is omitted when absent.
func BuildRelationships(backend xmlutil.Backend, rels []Relationship) ([]byte, error) {
	sorted := append([]Relationship(nil), rels...)
	sort.Slice(sorted, func(i, j int) bool {
		return relIDNum(sorted[i].ID) < relIDNum(sorted[j].ID)
	})
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "Relationships", xmlutil.A("xmlns", nsPackageRels))
		for _, r := range sorted {
			pairs := []xmlutil.Attr{
				xmlutil.A("Id", r.ID),
				xmlutil.A("Type", r.Type),
				xmlutil.A("Target", r.Target),
			}
			if r.TargetMode != "" {
				pairs = append(pairs, xmlutil.A("TargetMode", r.TargetMode))
			}
			xmlutil.WithAttributes(e, "Relationship", pairs...)
			e.EndElement()
		}
		e.EndElement()
	})
}

func relIDNum(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "rId"))
	if err != nil {
		return 0
	}
	return n
}
