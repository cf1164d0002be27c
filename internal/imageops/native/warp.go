package native

import (
	"context"
	"image"
	"math"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/geom"
	"github.com/youruser/mockupapp/internal/imageops"
)

func (b *Backend) PerspectiveDistort(ctx context.Context, req imageops.DistortRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	src, err := b.load("native.distort", req.In)
	if err != nil {
		return err
	}
	h, err := geom.FromCorrespondence(req.Src, req.Dst)
	if err != nil {
		return imageops.External("native.distort", "solve homography", err)
	}
	inv, err := h.Inverse()
	if err != nil {
		return imageops.External("native.distort", "invert homography", err)
	}

	out := image.NewNRGBA(image.Rect(0, 0, req.Canvas.Width, req.Canvas.Height))
	area := quadBounds(req.Dst).Intersect(out.Rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		if y%64 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		for x := area.Min.X; x < area.Max.X; x++ {
			p, ok := inv.Apply(domain.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			if !ok {
				continue
			}
			i := out.PixOffset(x, y)
			sampleInto(out.Pix[i:i+4:i+4], src, p.X-0.5, p.Y-0.5)
		}
	}
	return b.save("native.distort", out, req.Out)
}

func (b *Backend) Displace(ctx context.Context, req imageops.DisplaceRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	src, err := b.load("native.displace", req.In)
	if err != nil {
		return err
	}
	field, err := b.load("native.displace", req.Field)
	if err != nil {
		return err
	}
	if src.Rect.Size() != field.Rect.Size() {
		want := domain.Size{Width: src.Rect.Dx(), Height: src.Rect.Dy()}
		got := domain.Size{Width: field.Rect.Dx(), Height: field.Rect.Dy()}
		return domain.DimensionMismatch("native.displace", want, got, req.Field)
	}

	out := image.NewNRGBA(src.Rect)
	for y := 0; y < src.Rect.Dy(); y++ {
		if y%64 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		for x := 0; x < src.Rect.Dx(); x++ {
			fi := field.PixOffset(x, y)
			v := luma(field.Pix[fi], field.Pix[fi+1], field.Pix[fi+2]) - domain.Neutral
			i := out.PixOffset(x, y)
			sampleInto(out.Pix[i:i+4:i+4], src, float64(x)+2*req.DX*v, float64(y)+2*req.DY*v)
		}
	}
	return b.save("native.displace", out, req.Out)
}

// sampleInto writes the bilinear sample of img at pixel coordinate (fx, fy)
// into dst. Texels outside img count as transparent; colour is interpolated
// premultiplied.
func sampleInto(dst []uint8, img *image.NRGBA, fx, fy float64) {
	if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
		return
	}
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	if ix < img.Rect.Min.X-1 || iy < img.Rect.Min.Y-1 || ix >= img.Rect.Max.X || iy >= img.Rect.Max.Y {
		return
	}

	var r, g, bl, a float64
	add := func(x, y int, w float64) {
		if w == 0 {
			return
		}
		pr, pg, pb, pa := at(img, x, y)
		wa := w * pa
		r += pr * wa
		g += pg * wa
		bl += pb * wa
		a += wa
	}
	add(ix, iy, (1-tx)*(1-ty))
	add(ix+1, iy, tx*(1-ty))
	add(ix, iy+1, (1-tx)*ty)
	add(ix+1, iy+1, tx*ty)

	if a <= 0 {
		return
	}
	dst[0] = clamp8(r / a * 255)
	dst[1] = clamp8(g / a * 255)
	dst[2] = clamp8(bl / a * 255)
	dst[3] = clamp8(a * 255)
}

func quadBounds(q domain.Quad) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if math.IsInf(minX, 0) || math.IsNaN(minX) || math.IsNaN(minY) || math.IsNaN(maxX) || math.IsNaN(maxY) {
		return image.Rectangle{}
	}
	clampInt := func(v float64) int {
		const lim = 1 << 30
		return int(math.Max(-lim, math.Min(lim, v)))
	}
	return image.Rect(clampInt(math.Floor(minX))-1, clampInt(math.Floor(minY))-1,
		clampInt(math.Ceil(maxX))+1, clampInt(math.Ceil(maxY))+1)
}

