// Package magick drives ImageMagick's convert and identify binaries. Every
// command is an argv slice built from a typed request; nothing passes
// through a shell.
package magick

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// Runner executes one command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Backend implements imageops.Ops on top of ImageMagick 6 style binaries.
type Backend struct {
	Runner   Runner
	Convert  string
	Identify string
	Log      logrus.FieldLogger
}

var _ imageops.Ops = (*Backend)(nil)

func New(log logrus.FieldLogger) *Backend {
	return &Backend{Runner: ExecRunner{}, Convert: "convert", Identify: "identify", Log: log}
}

func (b *Backend) run(ctx context.Context, op string, req imageops.Validator, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req != nil {
		if err := req.Validate(); err != nil {
			return nil, err
		}
	}
	desc := describe(name, args)
	if b.Log != nil {
		b.Log.WithField("op", op).Debug(desc)
	}
	out, err := b.Runner.Run(ctx, name, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, imageops.External(op, desc, err)
	}
	return out, nil
}

// describe renders argv for error messages, quoting arguments with spaces.
func describe(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func colorArg(c color.NRGBA) string {
	if c.A == 0 {
		return "none"
	}
	return domain.HexColor(c)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (b *Backend) Dimensions(ctx context.Context, path string) (domain.Size, error) {
	if path == "" {
		return domain.Size{}, &domain.OpError{Op: "magick.dimensions", Kind: domain.KindInvalidRequest, Err: errors.New("image path is empty")}
	}
	out, err := b.run(ctx, "magick.dimensions", nil, b.Identify, "-format", "%w,%h", path+"[0]")
	if err != nil {
		return domain.Size{}, err
	}
	size, err := parseSize(string(out))
	if err != nil {
		return domain.Size{}, imageops.External("magick.dimensions", "parse identify output", err)
	}
	return size, nil
}

func parseSize(s string) (domain.Size, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return domain.Size{}, fmt.Errorf("unexpected size %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return domain.Size{}, fmt.Errorf("bad width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return domain.Size{}, fmt.Errorf("bad height %q: %w", h, err)
	}
	return domain.Size{Width: width, Height: height}, nil
}

func (b *Backend) MeanIntensity(ctx context.Context, req imageops.MeanRequest) (float64, error) {
	args := []string{req.Path}
	if req.Background != nil {
		args = append(args, "-background", colorArg(*req.Background), "-alpha", "remove")
	}
	args = append(args, "-alpha", "off", "-colorspace", "gray", "-format", "%[fx:mean]", "info:")
	out, err := b.run(ctx, "magick.mean", req, b.Convert, args...)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, imageops.External("magick.mean", "parse fx:mean output", err)
	}
	return v, nil
}

func (b *Backend) RemoveAlpha(ctx context.Context, req imageops.UnaryRequest) error {
	_, err := b.run(ctx, "magick.remove_alpha", req, b.Convert, req.In, "-alpha", "off", req.Out)
	return err
}

func (b *Backend) Grayscale(ctx context.Context, req imageops.UnaryRequest) error {
	_, err := b.run(ctx, "magick.grayscale", req, b.Convert, req.In, "-colorspace", "gray", req.Out)
	return err
}

func (b *Backend) Flatten(ctx context.Context, req imageops.FlattenRequest) error {
	_, err := b.run(ctx, "magick.flatten", req, b.Convert,
		req.In, "-background", colorArg(req.Background), "-alpha", "remove", "-alpha", "off", req.Out)
	return err
}

func (b *Backend) Fill(ctx context.Context, req imageops.FillRequest) error {
	_, err := b.run(ctx, "magick.fill", req, b.Convert,
		req.Like, "-alpha", "off", "-fill", colorArg(req.Color), "-colorize", "100", req.Out)
	return err
}

func (b *Backend) Subtract(ctx context.Context, req imageops.SubtractRequest) error {
	_, err := b.run(ctx, "magick.subtract", req, b.Convert,
		req.In, "-channel", "RGB", "-evaluate", "subtract", num(req.Percent)+"%", "+channel", req.Out)
	return err
}

func (b *Backend) Scale(ctx context.Context, req imageops.ScaleRequest) error {
	_, err := b.run(ctx, "magick.scale", req, b.Convert,
		req.In, "-channel", "RGB", "-evaluate", "multiply", num(req.Factor), "+channel", req.Out)
	return err
}

// composeNames maps blend modes to convert's -compose operators. Base is
// the destination and overlay the source, so overlay/base is DivideDst.
// ImageMagick's HardLight pivots at 0.5 rather than domain.Neutral, so a
// neutral lighting map is exactly a no-op only on the native backend.
var composeNames = map[domain.Mode]string{
	domain.ModeOver:        "Over",
	domain.ModeCopyOpacity: "CopyOpacity",
	domain.ModeMultiply:    "Multiply",
	domain.ModeDivideSrc:   "DivideDst",
	domain.ModeLighten:     "Lighten",
	domain.ModeHardLight:   "HardLight",
}

// Composite follows convert's operand order: destination (base) first, then
// source (overlay), then the optional mask.
func (b *Backend) Composite(ctx context.Context, req imageops.CompositeRequest) error {
	args := []string{req.Base}
	if req.Mode == domain.ModeCopyOpacity {
		// Make the overlay a plain gray image so CopyOpacity reads intensity.
		if req.OpacityFrom == domain.OpacityFromAlpha {
			args = append(args, "(", req.Overlay, "-alpha", "extract", ")")
		} else {
			args = append(args, "(", req.Overlay, "-alpha", "off", "-colorspace", "gray", ")")
		}
	} else {
		args = append(args, req.Overlay)
	}
	if req.Mask != "" {
		args = append(args, "(", req.Mask, "-alpha", "off", "-colorspace", "gray", ")")
	}
	args = append(args, "-compose", composeNames[req.Mode], "-composite", req.Out)
	_, err := b.run(ctx, "magick.composite", req, b.Convert, args...)
	return err
}

func (b *Backend) Blur(ctx context.Context, req imageops.BlurRequest) error {
	_, err := b.run(ctx, "magick.blur", req, b.Convert, req.In, "-blur", "0x"+num(req.Sigma), req.Out)
	return err
}

// PerspectiveDistort flattens the warped layer onto a transparent canvas of
// req.Canvas, so corners outside the canvas are cropped rather than growing
// the output.
func (b *Backend) PerspectiveDistort(ctx context.Context, req imageops.DistortRequest) error {
	pairs := make([]string, 0, 16)
	for i := range req.Src {
		pairs = append(pairs, num(req.Src[i].X), num(req.Src[i].Y), num(req.Dst[i].X), num(req.Dst[i].Y))
	}
	_, err := b.run(ctx, "magick.distort", req, b.Convert,
		"-size", req.Canvas.String(), "xc:none",
		"(", req.In, "-virtual-pixel", "transparent", "+distort", "Perspective", strings.Join(pairs, ","), ")",
		"-background", "none", "-layers", "flatten", "+repage", req.Out)
	return err
}

func (b *Backend) Displace(ctx context.Context, req imageops.DisplaceRequest) error {
	_, err := b.run(ctx, "magick.displace", req, b.Convert,
		req.In, req.Field, "-compose", "Displace",
		"-set", "option:compose:args", num(req.DX)+"x"+num(req.DY),
		"-composite", req.Out)
	return err
}

func (b *Backend) Resize(ctx context.Context, req imageops.ResizeRequest) error {
	_, err := b.run(ctx, "magick.resize", req, b.Convert, req.In, "-scale", strconv.Itoa(req.Width), req.Out)
	return err
}

func (b *Backend) AddBorder(ctx context.Context, req imageops.BorderRequest) error {
	_, err := b.run(ctx, "magick.border", req, b.Convert,
		req.In, "-bordercolor", "none", "-border", strconv.Itoa(req.Width), req.Out)
	return err
}
