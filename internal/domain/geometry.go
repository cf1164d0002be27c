package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a pixel extent.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Point is a position in template pixel coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Quad is the placement quadrilateral for the artwork.
//
// Points are ordered TopLeft, BottomLeft, BottomRight, TopRight and receive
// the artwork corners (0,0), (0,h), (w,h), (w,0) in that order.
type Quad [4]Point

// QuadFromSlice builds a Quad from eight numbers x1,y1,...,x4,y4.
func QuadFromSlice(v []float64) (Quad, error) {
	var q Quad
	if len(v) != 8 {
		return q, &OpError{
			Op:   "quad.parse",
			Kind: KindInvalidGeometry,
			Err:  fmt.Errorf("need 8 coordinates, got %d", len(v)),
		}
	}
	for i := range q {
		q[i] = Point{X: v[2*i], Y: v[2*i+1]}
	}
	return q, nil
}

// ParseQuad reads eight numbers separated by commas or spaces, as accepted
// on the command line and in form fields.
func ParseQuad(s string) (Quad, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	v := make([]float64, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Quad{}, &OpError{Op: "quad.parse", Kind: KindInvalidGeometry, Err: fmt.Errorf("bad coordinate %q", f)}
		}
		v = append(v, x)
	}
	return QuadFromSlice(v)
}

// RectQuad is the quad covering an axis-aligned w×h rectangle at the origin.
func RectQuad(s Size) Quad {
	w, h := float64(s.Width), float64(s.Height)
	return Quad{{0, 0}, {0, h}, {w, h}, {w, 0}}
}

// Corners returns the source corners of a w×h image in quad order.
func Corners(s Size) [4]Point {
	return RectQuad(s)
}

// Area is the unsigned shoelace area.
func (q Quad) Area() float64 {
	var a float64
	for i := range q {
		j := (i + 1) % 4
		a += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(a) / 2
}

// Validate rejects quads that cannot be the image of a rectangle under a
// projective transform: non-finite, zero-area or self-intersecting.
func (q Quad) Validate() error {
	fail := func(err error) error {
		return &OpError{Op: "quad.validate", Kind: KindInvalidGeometry, Err: err}
	}
	for i, p := range q {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fail(fmt.Errorf("point %d is not finite", i))
		}
	}
	if q.Area() < 1e-9 {
		return fail(errors.New("zero area"))
	}
	// A simple quad whose edges turn the same way at every corner is convex;
	// anything else is self-intersecting or folded.
	var sign float64
	for i := range q {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if math.Abs(cross) < 1e-9 {
			return fail(fmt.Errorf("collinear corners at %d", (i+1)%4))
		}
		if sign == 0 {
			sign = cross
			continue
		}
		if (sign > 0) != (cross > 0) {
			return fail(errors.New("self-intersecting or concave"))
		}
	}
	return nil
}
