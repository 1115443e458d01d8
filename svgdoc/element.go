package svgdoc

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Kind is the closed set of element variants the cropping engine cares
// about. Anything unrecognized is KindOther and simply traversed.
type Kind uint8

const (
	KindOther Kind = iota
	KindGroup
	KindImage
	KindShape
	KindClipPath
)

var shapeTags = map[string]bool{
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
	"path":     true,
}

func kindOf(tag string) Kind {
	switch {
	case tag == "g":
		return KindGroup
	case tag == "image":
		return KindImage
	case tag == "clipPath":
		return KindClipPath
	case shapeTags[tag]:
		return KindShape
	}
	return KindOther
}

// Box is an axis-aligned rectangle, either in document units (clip
// rectangles, image placement boxes) or whatever space the caller assigns.
type Box struct {
	X, Y, W, H float64
}

// Element is a node of the parsed tree. Read-only after Parse.
type Element struct {
	name     string
	kind     Kind
	attrs    []xml.Attr
	parent   *Element
	children []*Element
}

// Name returns the element's local tag name.
func (e *Element) Name() string { return e.name }

// Kind returns the element's classified kind.
func (e *Element) Kind() Kind { return e.kind }

// Parent returns the direct parent, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the direct children in document order.
func (e *Element) Children() []*Element { return e.children }

// Attr returns the value of the named attribute, matching on the local
// name so namespaced attributes (xlink:href) resolve too. Empty if absent.
func (e *Element) Attr(local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// floatAttr parses the named attribute, falling back to def when the
// attribute is absent or not a number.
func (e *Element) floatAttr(local string, def float64) float64 {
	v := e.Attr(local)
	if v == "" {
		return def
	}
	f, err := parseNum(v)
	if err != nil {
		return def
	}
	return f
}

// Href returns the element's resource locator, from href or xlink:href.
func (e *Element) Href() string { return e.Attr("href") }

// ClipRef extracts the definition id from a clip-path="url(#id)"
// attribute. ok is false when the attribute is absent or not of that form.
func (e *Element) ClipRef() (id string, ok bool) {
	v := e.Attr("clip-path")
	if v == "" {
		return "", false
	}
	start := strings.Index(v, "url(#")
	if start < 0 {
		return "", false
	}
	rest := v[start+len("url(#"):]
	end := strings.Index(rest, ")")
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}

// PlacementBox returns the x/y/width/height the document declares for this
// element, with absent or malformed coordinates defaulting to zero. For an
// image this is the declared display box, not the raster resolution.
func (e *Element) PlacementBox() Box {
	return Box{
		X: e.floatAttr("x", 0),
		Y: e.floatAttr("y", 0),
		W: e.floatAttr("width", 0),
		H: e.floatAttr("height", 0),
	}
}

// FindImage returns the first image element beneath e in document order,
// or nil if the subtree holds none.
func (e *Element) FindImage() *Element {
	for _, c := range e.children {
		if c.kind == KindImage {
			return c
		}
		if img := c.FindImage(); img != nil {
			return img
		}
	}
	return nil
}

// Ancestors returns the chain of ancestors, nearest first.
func (e *Element) Ancestors() []*Element {
	var out []*Element
	for p := e.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}

// splitOnCommaOrSpace returns the fields of s after splitting on comma and
// space delimiters.
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
}

// parseNum parses an SVG numeric attribute, tolerating a px suffix.
func parseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(s, 64)
}

// ParseFloat parses an SVG numeric attribute value, tolerating a px
// suffix. Exposed for consumers validating attributes themselves.
func ParseFloat(s string) (float64, error) { return parseNum(s) }
