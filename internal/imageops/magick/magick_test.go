package magick

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

type call struct {
	name string
	args []string
}

type scriptedRunner struct {
	calls  []call
	output string
	err    error
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, call{name: name, args: append([]string(nil), args...)})
	return []byte(r.output), r.err
}

func newBackend(r Runner) *Backend {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	b := New(log)
	b.Runner = r
	return b
}

func TestDimensionsParsesIdentify(t *testing.T) {
	r := &scriptedRunner{output: "1000,750\n"}
	size, err := newBackend(r).Dimensions(context.Background(), "art.png")
	require.NoError(t, err)
	require.Equal(t, domain.Size{Width: 1000, Height: 750}, size)
	require.Equal(t, call{"identify", []string{"-format", "%w,%h", "art.png[0]"}}, r.calls[0])
}

func TestMeanFlattensOnBackground(t *testing.T) {
	r := &scriptedRunner{output: "0.4321"}
	bg := domain.MidGray
	mean, err := newBackend(r).MeanIntensity(context.Background(), imageops.MeanRequest{Path: "m.png", Background: &bg})
	require.NoError(t, err)
	require.InDelta(t, 0.4321, mean, 1e-12)
	require.Equal(t, []string{
		"m.png", "-background", "#808080ff", "-alpha", "remove",
		"-alpha", "off", "-colorspace", "gray", "-format", "%[fx:mean]", "info:",
	}, r.calls[0].args)
}

func TestCompositeArgv(t *testing.T) {
	r := &scriptedRunner{}
	b := newBackend(r)
	ctx := context.Background()

	require.NoError(t, b.Composite(ctx, imageops.CompositeRequest{
		Base: "t.png", Overlay: "flat.png", Mask: "m.png", Mode: domain.ModeDivideSrc, Out: "adj.png",
	}))
	require.Equal(t, []string{
		"t.png", "flat.png", "(", "m.png", "-alpha", "off", "-colorspace", "gray", ")",
		"-compose", "DivideDst", "-composite", "adj.png",
	}, r.calls[0].args)

	require.NoError(t, b.Composite(ctx, imageops.CompositeRequest{
		Base: "lit.png", Overlay: "art.png", Mode: domain.ModeCopyOpacity,
		OpacityFrom: domain.OpacityFromAlpha, Out: "out.png",
	}))
	require.Equal(t, []string{
		"lit.png", "(", "art.png", "-alpha", "extract", ")",
		"-compose", "CopyOpacity", "-composite", "out.png",
	}, r.calls[1].args)
}

func TestDistortArgv(t *testing.T) {
	r := &scriptedRunner{}
	err := newBackend(r).PerspectiveDistort(context.Background(), imageops.DistortRequest{
		In:     "art.png",
		Src:    domain.Corners(domain.Size{Width: 400, Height: 400}),
		Dst:    domain.Quad{{X: 520, Y: 772}, {X: 626, Y: 1152}, {X: 926, Y: 1140}, {X: 848, Y: 722}},
		Canvas: domain.Size{Width: 1500, Height: 1500},
		Out:    "warped.png",
	})
	require.NoError(t, err)
	args := r.calls[0].args
	require.Equal(t, []string{"-size", "1500x1500", "xc:none"}, args[:3])
	require.Contains(t, args, "0,0,520,772,0,400,626,1152,400,400,926,1140,400,0,848,722")
	require.Equal(t, []string{"-background", "none", "-layers", "flatten", "+repage", "warped.png"}, args[len(args)-6:])
	require.NotContains(t, args, "merge")
}

func TestDisplaceAndBlurArgv(t *testing.T) {
	r := &scriptedRunner{}
	b := newBackend(r)
	ctx := context.Background()
	require.NoError(t, b.Displace(ctx, imageops.DisplaceRequest{In: "a.png", Field: "d.png", DX: 10, DY: 10, Out: "o.png"}))
	require.NoError(t, b.Blur(ctx, imageops.BlurRequest{In: "n.png", Sigma: 10, Out: "d.png"}))
	require.NoError(t, b.Subtract(ctx, imageops.SubtractRequest{In: "n.png", Percent: 1.5, Out: "s.png"}))

	require.Equal(t, []string{"a.png", "d.png", "-compose", "Displace", "-set", "option:compose:args", "10x10", "-composite", "o.png"}, r.calls[0].args)
	require.Equal(t, []string{"n.png", "-blur", "0x10", "d.png"}, r.calls[1].args)
	require.Contains(t, r.calls[2].args, "1.5%")
}

func TestScaleArgv(t *testing.T) {
	r := &scriptedRunner{}
	b := newBackend(r)
	require.NoError(t, b.Scale(context.Background(), imageops.ScaleRequest{In: "c.png", Factor: 2, Out: "s.png"}))
	require.Equal(t, []string{"c.png", "-channel", "RGB", "-evaluate", "multiply", "2", "+channel", "s.png"}, r.calls[0].args)

	err := b.Scale(context.Background(), imageops.ScaleRequest{In: "c.png", Factor: -1, Out: "s.png"})
	require.True(t, domain.IsKind(err, domain.KindInvalidRequest))
	require.Len(t, r.calls, 1)
}

func TestRunnerFailureIsExternal(t *testing.T) {
	r := &scriptedRunner{err: errors.New("exit status 1: unable to open image")}
	err := newBackend(r).Grayscale(context.Background(), imageops.UnaryRequest{In: "my file.png", Out: "g.png"})
	require.True(t, domain.IsKind(err, domain.KindExternal))
	require.Contains(t, err.Error(), `convert "my file.png" -colorspace gray g.png`)
	require.True(t, strings.Contains(err.Error(), "unable to open image"))
}

func TestValidationHappensBeforeDispatch(t *testing.T) {
	r := &scriptedRunner{}
	err := newBackend(r).Resize(context.Background(), imageops.ResizeRequest{In: "a.png", Width: 0, Out: "b.png"})
	require.True(t, domain.IsKind(err, domain.KindInvalidRequest))
	require.Empty(t, r.calls)
}
