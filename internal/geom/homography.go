// Package geom solves the projective transform between two quadrilaterals.
package geom

import (
	"errors"
	"math"

	"github.com/youruser/mockupapp/internal/domain"
)

// Homography is a 3×3 projective matrix in row-major order with H[8] == 1.
type Homography [9]float64

var ErrSingular = errors.New("singular point correspondence")

// FromCorrespondence returns the homography mapping src[i] onto dst[i].
func FromCorrespondence(src, dst [4]domain.Point) (Homography, error) {
	// Eight equations in h0..h7:
	//   x' = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
	//   y' = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -x * u, -y * u, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -x * v, -y * v, v}
	}

	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Homography{}, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := 0; r < 8; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col] / a[col][col]
			for c := col; c < 9; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = a[i][8] / a[i][i]
	}
	h[8] = 1
	return h, nil
}

// Apply maps p through h. ok is false when p lands on the line at infinity.
func (h Homography) Apply(p domain.Point) (q domain.Point, ok bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		return domain.Point{}, false
	}
	return domain.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Inverse returns the adjugate-based inverse, normalised so the last entry is 1.
func (h Homography) Inverse() (Homography, error) {
	a, b, c := h[0], h[1], h[2]
	d, e, f := h[3], h[4], h[5]
	g, k, l := h[6], h[7], h[8]

	det := a*(e*l-f*k) - b*(d*l-f*g) + c*(d*k-e*g)
	if math.Abs(det) < 1e-15 {
		return Homography{}, ErrSingular
	}
	inv := Homography{
		e*l - f*k, c*k - b*l, b*f - c*e,
		f*g - d*l, a*l - c*g, c*d - a*f,
		d*k - e*g, b*g - a*k, a*e - b*d,
	}
	s := inv[8]
	if math.Abs(s) < 1e-15 {
		s = det
	}
	for i := range inv {
		inv[i] /= s
	}
	return inv, nil
}
