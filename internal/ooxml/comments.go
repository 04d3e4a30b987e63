package ooxml

import (
	"encoding/xml"
	"strings"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
	"github.com/gosheetkit/xlcore/xlerr"
)

// ParseComments parses xl/comments<n>.xml into the sheet's address -> Comment
// map (spec.md §4.3.7). authorId must resolve against the parsed authors
// list; an out-of-range id fails the part.
func ParseComments(location string, raw []byte) (map[string]xl.Comment, error) {
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	dec := newDecoder(raw)
	var authors []string
	out := map[string]xl.Comment{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "authors":
			if err := walkChildren(dec, "authors", func(c xml.StartElement) error {
				if c.Name.Local != "author" {
					return dec.Skip()
				}
				text, err := readCharData(dec, "author")
				if err != nil {
					return err
				}
				authors = append(authors, text)
				return nil
			}); err != nil {
				return nil, err
			}
		case "commentList":
			if err := walkChildren(dec, "commentList", func(c xml.StartElement) error {
				if c.Name.Local != "comment" {
					return dec.Skip()
				}
				cm, err := parseOneComment(dec, raw, c, authors, location)
				if err != nil {
					return err
				}
				out[cm.Ref] = cm
				return nil
			}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func parseOneComment(dec *xml.Decoder, raw []byte, se xml.StartElement, authors []string, location string) (xl.Comment, error) {
	known := map[string]bool{"ref": true, "authorId": true, "guid": true, "shapeId": true}
	values, other := attrMap(se.Attr, known)

	var cm xl.Comment
	cm.Ref = values["ref"]
	cm.GUID = values["guid"]
	cm.OtherAttrs = other

	authorID := atoiSafe(values["authorId"])
	if authorID < 0 || authorID >= len(authors) {
		return cm, xlerr.NewParseError(location, "comment %s: authorId %d out of range", cm.Ref, authorID)
	}

	var rt xl.RichText
	var children []xl.RawElement
	err := walkChildren(dec, "comment", func(c xml.StartElement) error {
		if c.Name.Local == "text" {
			var err error
			rt, err = parseRichTextBody(dec, raw, "text")
			return err
		}
		content, err := captureInnerXML(dec, raw)
		if err != nil {
			return err
		}
		_, co := attrMap(c.Attr, map[string]bool{})
		children = append(children, xl.RawElement{Name: c.Name.Local, Attrs: co, Content: content})
		return nil
	})
	if err != nil {
		return cm, err
	}
	cm.OtherChildren = children

	author, text := extractAuthorPrefix(authors[authorID], rt)
	cm.Author = author
	cm.Text = text
	return cm, nil
}

// extractAuthorPrefix detects Excel's convention of embedding the comment
// author as a bold first run ("AuthorName") immediately followed by a run
// beginning with a newline (tolerant of \r\n), per spec.md §4.3.7. When the
// pattern matches, it returns the author name and the remaining visible
// text with the newline prefix stripped; otherwise it falls back to the
// authors-table name with the rich text unchanged.
func extractAuthorPrefix(authorName string, rt xl.RichText) (string, xl.RichText) {
	if len(rt.Runs) >= 2 && rt.Runs[0].Font != nil && rt.Runs[0].Font.Bold {
		rest := rt.Runs[1:]
		first := rest[0]
		trimmed := strings.TrimPrefix(first.Text, "\r\n")
		trimmed = strings.TrimPrefix(trimmed, "\n")
		if trimmed != first.Text {
			first.Text = trimmed
			newRuns := append([]xl.TextRun{first}, rest[1:]...)
			return rt.Runs[0].Text, xl.RichText{Runs: newRuns}
		}
	}
	return authorName, rt
}

// buildCommentRichText re-prepends the author prefix Excel expects on write
// (spec.md §4.3.7: "write-side re-prepends the author in the same form").
func buildCommentRichText(author string, text xl.RichText) xl.RichText {
	if author == "" {
		return text
	}
	authorRun := xl.TextRun{Text: author, Font: &xl.Font{Bold: true}}
	if len(text.Runs) == 0 {
		return xl.RichText{Runs: []xl.TextRun{authorRun, {Text: "\n"}}}
	}
	first := text.Runs[0]
	first.Text = "\n" + first.Text
	runs := make([]xl.TextRun, 0, len(text.Runs)+1)
	runs = append(runs, authorRun, first)
	runs = append(runs, text.Runs[1:]...)
	return xl.RichText{Runs: runs}
}

// BuildComments emits xl/comments<n>.xml for the given address-ordered
// comment list. refs must already be sorted in the order the caller wants
// written (row-major, per writeSheetData's convention).
func BuildComments(backend xmlutil.Backend, refs []string, comments map[string]xl.Comment) ([]byte, error) {
	authorIndex := map[string]int{}
	var authors []string
	authorIDFor := func(name string) int {
		if id, ok := authorIndex[name]; ok {
			return id
		}
		id := len(authors)
		authors = append(authors, name)
		authorIndex[name] = id
		return id
	}
	for _, ref := range refs {
		authorIDFor(comments[ref].Author)
	}

	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "comments", xmlutil.A("xmlns", nsMain))

		e.StartElement("authors")
		for _, a := range authors {
			e.StartElement("author")
			e.Text(a)
			e.EndElement()
		}
		e.EndElement() // authors

		e.StartElement("commentList")
		for _, ref := range refs {
			cm := comments[ref]
			xmlutil.WithAttributes(e, "comment", xmlutil.A("ref", ref), xmlutil.A("authorId", authorIDFor(cm.Author)))
			if cm.GUID != "" {
				e.Attr("guid", cm.GUID)
			}
			for k, v := range cm.OtherAttrs {
				e.Attr(k, v)
			}
			e.StartElement("text")
			rt := buildCommentRichText(cm.Author, cm.Text)
			for _, run := range rt.Runs {
				e.StartElement("r")
				writeRunRPr(e, run)
				writeTextElem(e, run.Text)
				e.EndElement()
			}
			e.EndElement() // text
			for _, child := range cm.OtherChildren {
				writeRawElementValue(e, child)
			}
			e.EndElement() // comment
		}
		e.EndElement() // commentList
		e.EndElement() // comments
	})
}
