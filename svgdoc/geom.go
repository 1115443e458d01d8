package svgdoc

import "strings"

// Matrix2D is a 6-parameter affine transform mapping local coordinates
// (x, y) to parent coordinates:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the do-nothing transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns m * n, applying n first.
func (m Matrix2D) Mult(n Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Translate returns m with a translation applied.
func (m Matrix2D) Translate(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale returns m with an anisotropic scale applied.
func (m Matrix2D) Scale(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// AxisAligned reports whether the transform carries no rotation or shear,
// i.e. it is a pure scale plus translation.
func (m Matrix2D) AxisAligned() bool { return m.B == 0 && m.C == 0 }

// ParseMatrix extracts the matrix(n1,...,n6) token from a transform
// attribute value. Parameters may be separated by commas or whitespace.
// An absent or malformed token (wrong parameter count, non-numeric values)
// degrades to Identity; this never fails.
func ParseMatrix(attr string) Matrix2D {
	start := strings.Index(attr, "matrix")
	if start < 0 {
		return Identity
	}
	rest := attr[start:]
	open := strings.Index(rest, "(")
	if open < 0 {
		return Identity
	}
	rest = rest[open+1:]
	close_ := strings.Index(rest, ")")
	if close_ < 0 {
		return Identity
	}
	fields := splitOnCommaOrSpace(rest[:close_])
	if len(fields) != 6 {
		return Identity
	}
	var vals [6]float64
	for i, f := range fields {
		v, err := parseNum(f)
		if err != nil {
			return Identity
		}
		vals[i] = v
	}
	return Matrix2D{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]}
}

// ResolveTransform finds the active placement transform for an image by
// walking its ancestors, nearest first. The first grouping element whose
// transform attribute carries a matrix token wins; shapes and other
// element kinds never contribute. Identity when no ancestor qualifies.
//
// Only the nearest qualifying group is consulted: transforms are not
// composed across nested groups. Documents produced by the layout tools
// this targets carry a single scale+translate group per image.
func ResolveTransform(e *Element) Matrix2D {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Kind() != KindGroup {
			continue
		}
		v := p.Attr("transform")
		if v != "" && strings.Contains(v, "matrix") {
			return ParseMatrix(v)
		}
	}
	return Identity
}
