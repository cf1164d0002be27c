package native

import (
	"context"
	"image"
	"math"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

type blendFunc func(s, d float64) float64

func blendMultiply(s, d float64) float64 { return s * d }
func blendLighten(s, d float64) float64  { return math.Max(s, d) }

// blendDivideSrc is overlay / base; a black base saturates.
func blendDivideSrc(s, d float64) float64 {
	if d <= 0 {
		if s > 0 {
			return 1
		}
		return 0
	}
	return clamp01(s / d)
}

// blendHardLight pivots on domain.Neutral so a mid-gray overlay leaves the
// base untouched.
func blendHardLight(s, d float64) float64 {
	const n = domain.Neutral
	if s <= n {
		return d * s / n
	}
	return 1 - (1-d)*(1-s)/(1-n)
}

func blendFor(m domain.Mode) blendFunc {
	switch m {
	case domain.ModeMultiply:
		return blendMultiply
	case domain.ModeDivideSrc:
		return blendDivideSrc
	case domain.ModeLighten:
		return blendLighten
	case domain.ModeHardLight:
		return blendHardLight
	default:
		return func(s, _ float64) float64 { return s }
	}
}

func (b *Backend) Composite(ctx context.Context, req imageops.CompositeRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	base, err := b.load("native.composite", req.Base)
	if err != nil {
		return err
	}
	overlay, err := b.load("native.composite", req.Overlay)
	if err != nil {
		return err
	}
	var mask *image.NRGBA
	if req.Mask != "" {
		if mask, err = b.load("native.composite", req.Mask); err != nil {
			return err
		}
	}

	var out *image.NRGBA
	if req.Mode == domain.ModeCopyOpacity {
		out = copyOpacity(base, overlay, mask, req.OpacityFrom)
	} else {
		out = blend(base, overlay, mask, blendFor(req.Mode))
	}
	return b.save("native.composite", out, req.Out)
}

// at returns the pixel at (x, y) as floats in [0,1]; outside the image it is
// transparent black.
func at(img *image.NRGBA, x, y int) (r, g, bl, a float64) {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return 0, 0, 0, 0
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255
}

func maskAt(mask *image.NRGBA, x, y int) float64 {
	if mask == nil {
		return 1
	}
	if !(image.Point{X: x, Y: y}).In(mask.Rect) {
		return 0
	}
	i := mask.PixOffset(x, y)
	return luma(mask.Pix[i], mask.Pix[i+1], mask.Pix[i+2]) * float64(mask.Pix[i+3]) / 255
}

// blend composites overlay onto base with the separable blend f, using the
// W3C compositing formula so transparent regions of either side fall back to
// the other.
func blend(base, overlay, mask *image.NRGBA, f blendFunc) *image.NRGBA {
	r := base.Bounds()
	out := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dr, dg, db, da := at(base, x, y)
			sr, sg, sb, sa := at(overlay, x, y)
			sa *= maskAt(mask, x, y)

			ao := sa + da*(1-sa)
			i := out.PixOffset(x, y)
			if ao <= 0 {
				continue
			}
			mix := func(s, d float64) uint8 {
				c := sa*(1-da)*s + sa*da*clamp01(f(s, d)) + (1-sa)*da*d
				return clamp8(c / ao * 255)
			}
			out.Pix[i+0] = mix(sr, dr)
			out.Pix[i+1] = mix(sg, dg)
			out.Pix[i+2] = mix(sb, db)
			out.Pix[i+3] = clamp8(ao * 255)
		}
	}
	return out
}

func copyOpacity(base, overlay, mask *image.NRGBA, from domain.OpacitySource) *image.NRGBA {
	r := base.Bounds()
	out := image.NewNRGBA(r)
	copy(out.Pix, base.Pix)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sr, sg, sb, sa := at(overlay, x, y)
			src := sa
			if from == domain.OpacityFromIntensity {
				if (image.Point{X: x, Y: y}).In(overlay.Rect) {
					src = lumaF(sr, sg, sb)
				} else {
					src = 0
				}
			}
			i := out.PixOffset(x, y)
			m := maskAt(mask, x, y)
			da := float64(out.Pix[i+3]) / 255
			out.Pix[i+3] = clamp8((m*src + (1-m)*da) * 255)
		}
	}
	return out
}

func lumaF(r, g, b float64) float64 {
	if r == g && g == b {
		return r
	}
	return 0.299*r + 0.587*g + 0.114*b
}
