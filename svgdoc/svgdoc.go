// Package svgdoc parses SVG documents into a traversable element tree.
// The tree keeps parent pointers so ancestor walks are O(depth), and
// classifies elements into a small closed set of kinds so the cropping
// algorithms never compare tag strings themselves.
package svgdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// defaultCanvas is used when a document declares neither a viewBox nor
// explicit width/height attributes.
const defaultCanvas = 1000

// Document is a parsed SVG file. It is built once and read-only afterwards;
// the parent index lives in the element tree itself, so concurrent runs over
// distinct documents share no state.
type Document struct {
	Root *Element

	hasViewBox           bool
	viewBoxW, viewBoxH   float64
	attrWidth, attrHeight float64
}

// Parse reads an SVG document from the stream. The charset of the XML
// declaration is honored. A document that is not well-formed markup is a
// fatal error for the whole run.
func Parse(stream io.Reader) (*Document, error) {
	doc := &Document{}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel

	var stack []*Element
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("svgdoc: invalid markup: %w", err)
		}
		switch se := t.(type) {
		case xml.StartElement:
			el := &Element{
				name:  se.Name.Local,
				kind:  kindOf(se.Name.Local),
				attrs: se.Attr,
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("svgdoc: multiple root elements")
				}
				doc.Root = el
				doc.readRootAttrs(se.Attr)
			} else {
				parent := stack[len(stack)-1]
				el.parent = parent
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("svgdoc: no root element")
	}
	return doc, nil
}

// ParseFile parses the named SVG file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (d *Document) readRootAttrs(attrs []xml.Attr) {
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			nums := splitOnCommaOrSpace(attr.Value)
			if len(nums) != 4 {
				continue
			}
			w, errW := parseNum(nums[2])
			h, errH := parseNum(nums[3])
			if errW == nil && errH == nil {
				d.hasViewBox = true
				d.viewBoxW, d.viewBoxH = w, h
			}
		case "width":
			if v, err := parseNum(attr.Value); err == nil {
				d.attrWidth = v
			}
		case "height":
			if v, err := parseNum(attr.Value); err == nil {
				d.attrHeight = v
			}
		}
	}
}

// CanvasSize returns the document canvas in integer pixels, height first.
// A four-number viewBox wins over explicit width/height attributes; each
// missing attribute falls back to 1000 on its own axis.
func (d *Document) CanvasSize() (height, width int) {
	if d.hasViewBox {
		return int(d.viewBoxH), int(d.viewBoxW)
	}
	height, width = defaultCanvas, defaultCanvas
	if d.attrHeight > 0 {
		height = int(d.attrHeight)
	}
	if d.attrWidth > 0 {
		width = int(d.attrWidth)
	}
	return height, width
}

// ImageHrefs returns the resource locator of every embedded image whose
// href uses an http(s) scheme, in document order. It feeds the download
// step; local references are left alone.
func (d *Document) ImageHrefs() []string {
	var hrefs []string
	d.Root.walk(func(e *Element) {
		if e.kind != KindImage {
			return
		}
		href := e.Href()
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// ClippedElements returns every element carrying a clip-path reference of
// the form url(#id), in document order.
func (d *Document) ClippedElements() []*Element {
	var out []*Element
	d.Root.walk(func(e *Element) {
		if _, ok := e.ClipRef(); ok {
			out = append(out, e)
		}
	})
	return out
}

// ClipDefs returns every clipPath definition carrying an id, in document
// order.
func (d *Document) ClipDefs() []*Element {
	var out []*Element
	d.Root.walk(func(e *Element) {
		if e.kind == KindClipPath && e.Attr("id") != "" {
			out = append(out, e)
		}
	})
	return out
}
