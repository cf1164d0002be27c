package native

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, p))
	return p
}

func flat(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func readNRGBA(t *testing.T, p string) *image.NRGBA {
	t.Helper()
	img, err := imaging.Open(p)
	require.NoError(t, err)
	return imaging.Clone(img)
}

func TestDimensionsAndMean(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	b := New()

	img := flat(4, 2, color.NRGBA{255, 255, 255, 255})
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	p := writeImage(t, dir, "half.png", img)

	size, err := b.Dimensions(ctx, p)
	require.NoError(t, err)
	require.Equal(t, domain.Size{Width: 4, Height: 2}, size)

	mean, err := b.MeanIntensity(ctx, imageops.MeanRequest{Path: p})
	require.NoError(t, err)
	require.InDelta(t, 0.5, mean, 1e-9)

	_, err = b.Dimensions(ctx, filepath.Join(dir, "missing.png"))
	require.True(t, domain.IsKind(err, domain.KindExternal))
}

func TestMeanWithBackgroundFlattens(t *testing.T) {
	dir := t.TempDir()
	p := writeImage(t, dir, "clear.png", flat(3, 3, color.NRGBA{}))
	bg := domain.MidGray

	mean, err := New().MeanIntensity(context.Background(), imageops.MeanRequest{Path: p, Background: &bg})
	require.NoError(t, err)
	require.InDelta(t, domain.Neutral, mean, 1e-12)
}

func TestHardLightNeutralIsIdentity(t *testing.T) {
	for _, d := range []float64{0, 0.2, 0.5, 1} {
		require.Equal(t, d, blendHardLight(domain.Neutral, d))
	}
	require.Greater(t, blendHardLight(0.9, 0.5), 0.5)
	require.Less(t, blendHardLight(0.1, 0.5), 0.5)
}

func TestDivideSrc(t *testing.T) {
	require.Equal(t, 1.0, blendDivideSrc(1, 0.5))
	require.InDelta(t, 0.5, blendDivideSrc(0.25, 0.5), 1e-12)
	require.Equal(t, 1.0, blendDivideSrc(0.3, 0))
	require.Equal(t, 0.0, blendDivideSrc(0, 0))
}

func TestCompositeModes(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	b := New()

	base := writeImage(t, dir, "base.png", flat(2, 2, color.NRGBA{100, 100, 100, 255}))
	over := writeImage(t, dir, "over.png", flat(2, 2, color.NRGBA{200, 50, 128, 255}))

	cases := []struct {
		mode domain.Mode
		want color.NRGBA
	}{
		{domain.ModeOver, color.NRGBA{200, 50, 128, 255}},
		{domain.ModeLighten, color.NRGBA{200, 100, 128, 255}},
		{domain.ModeMultiply, color.NRGBA{78, 20, 50, 255}},
	}
	for _, tc := range cases {
		out := filepath.Join(dir, tc.mode.String()+".png")
		require.NoError(t, b.Composite(ctx, imageops.CompositeRequest{Base: base, Overlay: over, Mode: tc.mode, Out: out}))
		require.Equal(t, tc.want, readNRGBA(t, out).NRGBAAt(1, 1), tc.mode.String())
	}
}

func TestCompositeMaskLimitsOverlay(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	maskImg := flat(2, 1, color.NRGBA{0, 0, 0, 255})
	maskImg.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})
	base := writeImage(t, dir, "base.png", flat(2, 1, color.NRGBA{10, 10, 10, 255}))
	over := writeImage(t, dir, "over.png", flat(2, 1, color.NRGBA{250, 0, 0, 255}))
	mask := writeImage(t, dir, "mask.png", maskImg)
	out := filepath.Join(dir, "out.png")

	require.NoError(t, New().Composite(ctx, imageops.CompositeRequest{
		Base: base, Overlay: over, Mask: mask, Mode: domain.ModeOver, Out: out,
	}))
	got := readNRGBA(t, out)
	require.Equal(t, color.NRGBA{10, 10, 10, 255}, got.NRGBAAt(0, 0))
	require.Equal(t, color.NRGBA{250, 0, 0, 255}, got.NRGBAAt(1, 0))
}

func TestCopyOpacitySources(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	b := New()

	base := writeImage(t, dir, "base.png", flat(1, 1, color.NRGBA{30, 60, 90, 255}))
	gray := writeImage(t, dir, "gray.png", flat(1, 1, color.NRGBA{64, 64, 64, 255}))
	alpha := writeImage(t, dir, "alpha.png", flat(1, 1, color.NRGBA{255, 255, 255, 77}))

	out := filepath.Join(dir, "intensity.png")
	require.NoError(t, b.Composite(ctx, imageops.CompositeRequest{
		Base: base, Overlay: gray, Mode: domain.ModeCopyOpacity, OpacityFrom: domain.OpacityFromIntensity, Out: out,
	}))
	require.Equal(t, color.NRGBA{30, 60, 90, 64}, readNRGBA(t, out).NRGBAAt(0, 0))

	out = filepath.Join(dir, "alpha-out.png")
	require.NoError(t, b.Composite(ctx, imageops.CompositeRequest{
		Base: base, Overlay: alpha, Mode: domain.ModeCopyOpacity, OpacityFrom: domain.OpacityFromAlpha, Out: out,
	}))
	require.Equal(t, color.NRGBA{30, 60, 90, 77}, readNRGBA(t, out).NRGBAAt(0, 0))
}

func TestPerspectiveIdentity(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	art := flat(20, 10, color.NRGBA{255, 0, 0, 255})
	art.SetNRGBA(3, 4, color.NRGBA{0, 0, 255, 255})
	in := writeImage(t, dir, "art.png", art)
	out := filepath.Join(dir, "warped.png")
	size := domain.Size{Width: 20, Height: 10}

	require.NoError(t, New().PerspectiveDistort(ctx, imageops.DistortRequest{
		In: in, Src: domain.Corners(size), Dst: domain.RectQuad(size),
		Canvas: domain.Size{Width: 30, Height: 15}, Out: out,
	}))
	got := readNRGBA(t, out)
	require.Equal(t, image.Rect(0, 0, 30, 15), got.Bounds())
	for y := 0; y < 15; y++ {
		for x := 0; x < 30; x++ {
			want := color.NRGBA{}
			if x < 20 && y < 10 {
				want = art.NRGBAAt(x, y)
			}
			require.Equal(t, want, got.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestPerspectiveMovesArtwork(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "art.png", flat(10, 10, color.NRGBA{0, 255, 0, 255}))
	out := filepath.Join(dir, "warped.png")

	require.NoError(t, New().PerspectiveDistort(context.Background(), imageops.DistortRequest{
		In:     in,
		Src:    domain.Corners(domain.Size{Width: 10, Height: 10}),
		Dst:    domain.Quad{{X: 20, Y: 20}, {X: 22, Y: 40}, {X: 40, Y: 38}, {X: 38, Y: 18}},
		Canvas: domain.Size{Width: 50, Height: 50},
		Out:    out,
	}))
	got := readNRGBA(t, out)
	require.Equal(t, uint8(0), got.NRGBAAt(2, 2).A)
	require.Equal(t, color.NRGBA{0, 255, 0, 255}, got.NRGBAAt(30, 30))
}

func TestDisplaceNeutralFieldIsIdentity(t *testing.T) {
	dir := t.TempDir()
	img := flat(6, 6, color.NRGBA{})
	img.SetNRGBA(2, 3, color.NRGBA{9, 8, 7, 200})
	img.SetNRGBA(4, 1, color.NRGBA{1, 2, 3, 255})
	in := writeImage(t, dir, "in.png", img)
	field := writeImage(t, dir, "field.png", flat(6, 6, domain.MidGray))
	out := filepath.Join(dir, "out.png")

	require.NoError(t, New().Displace(context.Background(), imageops.DisplaceRequest{
		In: in, Field: field, DX: 10, DY: 10, Out: out,
	}))
	got := readNRGBA(t, out)
	require.Equal(t, img.Pix, got.Pix)
}

func TestDisplaceShiftsLookup(t *testing.T) {
	dir := t.TempDir()
	img := flat(8, 1, color.NRGBA{})
	img.SetNRGBA(5, 0, color.NRGBA{255, 255, 255, 255})
	in := writeImage(t, dir, "in.png", img)
	// white field: offset = 2*dx*(1-neutral) ≈ dx, so pixel x reads x+dx.
	field := writeImage(t, dir, "field.png", flat(8, 1, color.NRGBA{255, 255, 255, 255}))
	out := filepath.Join(dir, "out.png")

	require.NoError(t, New().Displace(context.Background(), imageops.DisplaceRequest{
		In: in, Field: field, DX: 2, DY: 0, Out: out,
	}))
	got := readNRGBA(t, out)
	require.Greater(t, got.NRGBAAt(3, 0).A, uint8(200))
	require.Equal(t, uint8(0), got.NRGBAAt(5, 0).A)
}

func TestDisplaceFieldSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "in.png", flat(4, 4, color.NRGBA{}))
	field := writeImage(t, dir, "field.png", flat(5, 4, domain.MidGray))
	err := New().Displace(context.Background(), imageops.DisplaceRequest{
		In: in, Field: field, DX: 1, DY: 1, Out: filepath.Join(dir, "o.png"),
	})
	require.True(t, domain.IsKind(err, domain.KindDimensionMismatch))
}

func TestResizeBorderSubtractFill(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	b := New()

	in := writeImage(t, dir, "in.png", flat(800, 400, color.NRGBA{100, 100, 100, 255}))

	resized := filepath.Join(dir, "resized.png")
	require.NoError(t, b.Resize(ctx, imageops.ResizeRequest{In: in, Width: 400, Out: resized}))
	size, err := b.Dimensions(ctx, resized)
	require.NoError(t, err)
	require.Equal(t, domain.Size{Width: 400, Height: 200}, size)

	bordered := filepath.Join(dir, "bordered.png")
	require.NoError(t, b.AddBorder(ctx, imageops.BorderRequest{In: resized, Width: 1, Out: bordered}))
	got := readNRGBA(t, bordered)
	require.Equal(t, image.Rect(0, 0, 402, 202), got.Bounds())
	require.Equal(t, uint8(0), got.NRGBAAt(0, 0).A)
	require.Equal(t, uint8(255), got.NRGBAAt(1, 1).A)

	sub := filepath.Join(dir, "sub.png")
	require.NoError(t, b.Subtract(ctx, imageops.SubtractRequest{In: resized, Percent: 20, Out: sub}))
	require.Equal(t, color.NRGBA{49, 49, 49, 255}, readNRGBA(t, sub).NRGBAAt(0, 0))

	filled := filepath.Join(dir, "fill.png")
	require.NoError(t, b.Fill(ctx, imageops.FillRequest{Like: in, Color: domain.MidGray, Out: filled}))
	fi := readNRGBA(t, filled)
	require.Equal(t, image.Rect(0, 0, 800, 400), fi.Bounds())
	require.Equal(t, domain.MidGray, fi.NRGBAAt(10, 10))
}

func TestScaleClampsAndKeepsAlpha(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "in.png", flat(3, 3, color.NRGBA{100, 150, 20, 90}))
	out := filepath.Join(dir, "scaled.png")

	require.NoError(t, New().Scale(context.Background(), imageops.ScaleRequest{In: in, Factor: 2, Out: out}))
	require.Equal(t, color.NRGBA{200, 255, 40, 90}, readNRGBA(t, out).NRGBAAt(1, 1))

	err := New().Scale(context.Background(), imageops.ScaleRequest{In: in, Factor: -2, Out: out})
	require.True(t, domain.IsKind(err, domain.KindInvalidRequest))
}

func TestInvalidRequestRejectedBeforeIO(t *testing.T) {
	err := New().Blur(context.Background(), imageops.BlurRequest{In: "", Out: "x.png", Sigma: 1})
	require.True(t, domain.IsKind(err, domain.KindInvalidRequest))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New().Grayscale(ctx, imageops.UnaryRequest{In: "a.png", Out: "b.png"})
	require.ErrorIs(t, err, context.Canceled)
}
