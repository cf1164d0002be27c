// Package imageops defines the raster capability the mockup pipeline drives.
//
// Every image is addressed by file path. Each primitive takes a typed request
// that is validated before dispatch, so backends never see a half-formed
// operation.
package imageops

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/youruser/mockupapp/internal/domain"
)

// Ops is implemented by the in-process backend (native) and the ImageMagick
// subprocess adapter (magick).
type Ops interface {
	Dimensions(ctx context.Context, path string) (domain.Size, error)
	MeanIntensity(ctx context.Context, req MeanRequest) (float64, error)

	RemoveAlpha(ctx context.Context, req UnaryRequest) error
	Grayscale(ctx context.Context, req UnaryRequest) error
	Flatten(ctx context.Context, req FlattenRequest) error
	Fill(ctx context.Context, req FillRequest) error
	Subtract(ctx context.Context, req SubtractRequest) error
	Scale(ctx context.Context, req ScaleRequest) error
	Composite(ctx context.Context, req CompositeRequest) error
	Blur(ctx context.Context, req BlurRequest) error
	PerspectiveDistort(ctx context.Context, req DistortRequest) error
	Displace(ctx context.Context, req DisplaceRequest) error
	Resize(ctx context.Context, req ResizeRequest) error
	AddBorder(ctx context.Context, req BorderRequest) error
}

// Validator is implemented by every request type.
type Validator interface {
	Validate() error
}

func invalid(op string, format string, args ...any) error {
	return &domain.OpError{Op: op, Kind: domain.KindInvalidRequest, Err: fmt.Errorf(format, args...)}
}

// requirePaths takes name, path pairs.
func requirePaths(op string, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		p := pairs[i+1]
		if p == "" {
			return invalid(op, "%s path is empty", pairs[i])
		}
		if strings.HasPrefix(p, "-") {
			return invalid(op, "%s path %q looks like an option", pairs[i], p)
		}
	}
	return nil
}

// UnaryRequest transforms In into Out.
type UnaryRequest struct {
	In  string
	Out string
}

func (r UnaryRequest) Validate() error {
	return requirePaths("imageops.unary", "in", r.In, "out", r.Out)
}

// MeanRequest asks for the mean gray intensity in [0,1]. When Background is
// set the image is flattened onto it first; otherwise alpha is ignored.
type MeanRequest struct {
	Path       string
	Background *color.NRGBA
}

func (r MeanRequest) Validate() error {
	return requirePaths("imageops.mean", "image", r.Path)
}

// FlattenRequest composites In over an opaque Background and drops alpha.
type FlattenRequest struct {
	In         string
	Background color.NRGBA
	Out        string
}

func (r FlattenRequest) Validate() error {
	return requirePaths("imageops.flatten", "in", r.In, "out", r.Out)
}

// FillRequest writes a flat Color image the size of Like.
type FillRequest struct {
	Like  string
	Color color.NRGBA
	Out   string
}

func (r FillRequest) Validate() error {
	return requirePaths("imageops.fill", "like", r.Like, "out", r.Out)
}

// SubtractRequest subtracts Percent of full range from every colour channel.
// Negative values brighten.
type SubtractRequest struct {
	In      string
	Percent float64
	Out     string
}

func (r SubtractRequest) Validate() error {
	if err := requirePaths("imageops.subtract", "in", r.In, "out", r.Out); err != nil {
		return err
	}
	if r.Percent != r.Percent {
		return invalid("imageops.subtract", "percent is NaN")
	}
	return nil
}

// ScaleRequest multiplies every colour channel by Factor, clamping to the
// channel range. Alpha is untouched.
type ScaleRequest struct {
	In     string
	Factor float64
	Out    string
}

func (r ScaleRequest) Validate() error {
	if err := requirePaths("imageops.scale", "in", r.In, "out", r.Out); err != nil {
		return err
	}
	if r.Factor != r.Factor || r.Factor < 0 || r.Factor > 1e6 {
		return invalid("imageops.scale", "factor %v out of range", r.Factor)
	}
	return nil
}

// CompositeRequest blends Overlay onto Base. Mask, when set, scales the
// overlay's influence by its gray intensity. OpacityFrom only matters for
// ModeCopyOpacity.
type CompositeRequest struct {
	Base        string
	Overlay     string
	Mask        string
	Mode        domain.Mode
	OpacityFrom domain.OpacitySource
	Out         string
}

func (r CompositeRequest) Validate() error {
	if err := requirePaths("imageops.composite", "base", r.Base, "overlay", r.Overlay, "out", r.Out); err != nil {
		return err
	}
	if !r.Mode.Valid() {
		return invalid("imageops.composite", "unsupported mode %s", r.Mode)
	}
	return nil
}

// BlurRequest applies a Gaussian blur with the given sigma.
type BlurRequest struct {
	In    string
	Sigma float64
	Out   string
}

func (r BlurRequest) Validate() error {
	if err := requirePaths("imageops.blur", "in", r.In, "out", r.Out); err != nil {
		return err
	}
	if r.Sigma < 0 {
		return invalid("imageops.blur", "negative sigma %g", r.Sigma)
	}
	return nil
}

// DistortRequest maps In's Src corners onto Dst on a transparent canvas of
// the given size.
type DistortRequest struct {
	In     string
	Src    [4]domain.Point
	Dst    domain.Quad
	Canvas domain.Size
	Out    string
}

func (r DistortRequest) Validate() error {
	if err := requirePaths("imageops.distort", "in", r.In, "out", r.Out); err != nil {
		return err
	}
	if r.Canvas.Empty() {
		return invalid("imageops.distort", "empty canvas %s", r.Canvas)
	}
	return nil
}

// DisplaceRequest shifts each pixel of In by (DX, DY) scaled by the Field
// value's distance from mid-gray. Field must match In in size.
type DisplaceRequest struct {
	In     string
	Field  string
	DX, DY float64
	Out    string
}

func (r DisplaceRequest) Validate() error {
	return requirePaths("imageops.displace", "in", r.In, "field", r.Field, "out", r.Out)
}

// ResizeRequest scales In to Width, keeping the aspect ratio.
type ResizeRequest struct {
	In    string
	Width int
	Out   string
}

func (r ResizeRequest) Validate() error {
	if err := requirePaths("imageops.resize", "in", r.In, "out", r.Out); err != nil {
		return err
	}
	if r.Width <= 0 {
		return invalid("imageops.resize", "width must be positive, got %d", r.Width)
	}
	return nil
}

// BorderRequest adds a transparent border Width pixels wide.
type BorderRequest struct {
	In    string
	Width int
	Out   string
}

func (r BorderRequest) Validate() error {
	if err := requirePaths("imageops.border", "in", r.In, "out", r.Out); err != nil {
		return err
	}
	if r.Width < 0 {
		return invalid("imageops.border", "negative width %d", r.Width)
	}
	return nil
}

// External wraps a backend failure as an external-operation error carrying
// the failing command's description.
func External(op, desc string, err error) error {
	if err == nil {
		err = errors.New("operation failed")
	}
	var oe *domain.OpError
	if errors.As(err, &oe) && oe.Kind != domain.KindExternal {
		return err
	}
	return &domain.OpError{Op: op, Kind: domain.KindExternal, Err: fmt.Errorf("%s: %w", desc, err)}
}
