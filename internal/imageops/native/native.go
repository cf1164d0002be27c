// Package native is the in-process ImageOps backend built on
// disintegration/imaging. Intermediate images are 8-bit NRGBA files.
package native

import (
	"context"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// Backend implements imageops.Ops in process.
type Backend struct {
	// JPEGQuality is used when an output path has a .jpg/.jpeg extension.
	JPEGQuality int
}

var _ imageops.Ops = (*Backend)(nil)

func New() *Backend {
	return &Backend{JPEGQuality: 92}
}

func (b *Backend) load(op, path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, imageops.External(op, "open "+path, err)
	}
	return imaging.Clone(img), nil
}

func (b *Backend) save(op string, img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(b.JPEGQuality)); err != nil {
		return imageops.External(op, "save "+path, err)
	}
	return nil
}

func begin(ctx context.Context, req imageops.Validator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return req.Validate()
}

func (b *Backend) Dimensions(ctx context.Context, path string) (domain.Size, error) {
	if err := ctx.Err(); err != nil {
		return domain.Size{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Size{}, imageops.External("native.dimensions", "open "+path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domain.Size{}, imageops.External("native.dimensions", "decode "+path, err)
	}
	return domain.Size{Width: cfg.Width, Height: cfg.Height}, nil
}

func (b *Backend) MeanIntensity(ctx context.Context, req imageops.MeanRequest) (float64, error) {
	if err := begin(ctx, req); err != nil {
		return 0, err
	}
	img, err := b.load("native.mean", req.Path)
	if err != nil {
		return 0, err
	}
	if req.Background != nil {
		img = flatten(img, *req.Background)
	}
	var sum float64
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		sum += luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (b *Backend) RemoveAlpha(ctx context.Context, req imageops.UnaryRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.remove_alpha", req.In)
	if err != nil {
		return err
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return b.save("native.remove_alpha", img, req.Out)
}

func (b *Backend) Grayscale(ctx context.Context, req imageops.UnaryRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.grayscale", req.In)
	if err != nil {
		return err
	}
	return b.save("native.grayscale", imaging.Grayscale(img), req.Out)
}

func (b *Backend) Flatten(ctx context.Context, req imageops.FlattenRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.flatten", req.In)
	if err != nil {
		return err
	}
	return b.save("native.flatten", flatten(img, req.Background), req.Out)
}

func (b *Backend) Fill(ctx context.Context, req imageops.FillRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	size, err := b.Dimensions(ctx, req.Like)
	if err != nil {
		return err
	}
	return b.save("native.fill", imaging.New(size.Width, size.Height, req.Color), req.Out)
}

func (b *Backend) Subtract(ctx context.Context, req imageops.SubtractRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.subtract", req.In)
	if err != nil {
		return err
	}
	d := req.Percent / 100 * 255
	out := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R) - d),
			G: clamp8(float64(c.G) - d),
			B: clamp8(float64(c.B) - d),
			A: c.A,
		}
	})
	return b.save("native.subtract", out, req.Out)
}

func (b *Backend) Scale(ctx context.Context, req imageops.ScaleRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.scale", req.In)
	if err != nil {
		return err
	}
	k := req.Factor
	out := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R) * k),
			G: clamp8(float64(c.G) * k),
			B: clamp8(float64(c.B) * k),
			A: c.A,
		}
	})
	return b.save("native.scale", out, req.Out)
}

func (b *Backend) Blur(ctx context.Context, req imageops.BlurRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.blur", req.In)
	if err != nil {
		return err
	}
	return b.save("native.blur", imaging.Blur(img, req.Sigma), req.Out)
}

func (b *Backend) Resize(ctx context.Context, req imageops.ResizeRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.resize", req.In)
	if err != nil {
		return err
	}
	return b.save("native.resize", imaging.Resize(img, req.Width, 0, imaging.Box), req.Out)
}

func (b *Backend) AddBorder(ctx context.Context, req imageops.BorderRequest) error {
	if err := begin(ctx, req); err != nil {
		return err
	}
	img, err := b.load("native.border", req.In)
	if err != nil {
		return err
	}
	r := img.Bounds()
	canvas := imaging.New(r.Dx()+2*req.Width, r.Dy()+2*req.Width, color.NRGBA{})
	canvas = imaging.Paste(canvas, img, image.Pt(req.Width, req.Width))
	return b.save("native.border", canvas, req.Out)
}

func flatten(img *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		a := float64(c.A) / 255
		return color.NRGBA{
			R: clamp8(float64(c.R)*a + float64(bg.R)*(1-a)),
			G: clamp8(float64(c.G)*a + float64(bg.G)*(1-a)),
			B: clamp8(float64(c.B)*a + float64(bg.B)*(1-a)),
			A: 0xff,
		}
	})
}

// luma is the Rec.601 intensity in [0,1], the weighting imaging.Grayscale uses.
func luma(r, g, b uint8) float64 {
	if r == g && g == b {
		return float64(r) / 255
	}
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
