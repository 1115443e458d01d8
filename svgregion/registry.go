// Package svgregion resolves clip-path definitions to rectangles and maps
// them from document space into the pixel space of a specific raster image.
package svgregion

import (
	"log/slog"

	"github.com/Eryk-dev/svg-crop-api/svgdoc"
)

// Registry indexes clip rectangles by clip-path definition id. Built once
// per document, read-only afterwards.
type Registry map[string]svgdoc.Box

// BuildRegistry scans the document's clipPath definitions. A definition
// must hold exactly one rect child with numeric width and height; x and y
// default to zero. Definitions that do not qualify are skipped, never
// fatal. The rect's own transform contributes only its translation, which
// shifts the rectangle's position.
func BuildRegistry(doc *svgdoc.Document) Registry {
	reg := make(Registry)
	for _, def := range doc.ClipDefs() {
		id := def.Attr("id")
		rect, ok := singleRect(def)
		if !ok {
			slog.Warn("clip definition skipped: want exactly one rect child", "id", id)
			continue
		}
		box, ok := rectBox(rect)
		if !ok {
			slog.Warn("clip definition skipped: missing or non-numeric rect attributes", "id", id)
			continue
		}
		reg[id] = box
	}
	return reg
}

// Get looks up the clip rectangle for a definition id.
func (r Registry) Get(id string) (svgdoc.Box, bool) {
	box, ok := r[id]
	return box, ok
}

func singleRect(def *svgdoc.Element) (*svgdoc.Element, bool) {
	var rect *svgdoc.Element
	for _, c := range def.Children() {
		if c.Name() != "rect" {
			continue
		}
		if rect != nil {
			return nil, false
		}
		rect = c
	}
	return rect, rect != nil
}

// rectBox extracts (x, y, width, height) from a clip rect, requiring
// numeric width and height and applying the translation component of the
// rect's own transform attribute to x and y.
func rectBox(rect *svgdoc.Element) (svgdoc.Box, bool) {
	x, okX := numericAttr(rect, "x", 0)
	y, okY := numericAttr(rect, "y", 0)
	w, okW := numericAttr(rect, "width", -1)
	h, okH := numericAttr(rect, "height", -1)
	if !okX || !okY || !okW || !okH || w < 0 || h < 0 {
		return svgdoc.Box{}, false
	}
	m := svgdoc.ParseMatrix(rect.Attr("transform"))
	return svgdoc.Box{X: x + m.E, Y: y + m.F, W: w, H: h}, true
}

// numericAttr returns the attribute value, def when absent, and ok=false
// when present but not a number. def < 0 marks the attribute required.
func numericAttr(e *svgdoc.Element, name string, def float64) (float64, bool) {
	v := e.Attr(name)
	if v == "" {
		if def < 0 {
			return 0, false
		}
		return def, true
	}
	f, err := svgdoc.ParseFloat(v)
	if err != nil {
		return 0, false
	}
	return f, true
}
