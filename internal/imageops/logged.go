package imageops

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youruser/mockupapp/internal/domain"
)

type logged struct {
	next Ops
	log  logrus.FieldLogger
}

// WithLogging wraps ops so every call is logged at debug level with its
// duration, and failures at warn level.
func WithLogging(ops Ops, log logrus.FieldLogger) Ops {
	if log == nil {
		return ops
	}
	return &logged{next: ops, log: log}
}

func (l *logged) done(op, out string, start time.Time, err error) {
	e := l.log.WithFields(logrus.Fields{
		"op":      op,
		"out":     out,
		"elapsed": time.Since(start).String(),
	})
	if err != nil {
		e.WithError(err).Warn("image operation failed")
		return
	}
	e.Debug("image operation")
}

func (l *logged) Dimensions(ctx context.Context, path string) (domain.Size, error) {
	start := time.Now()
	s, err := l.next.Dimensions(ctx, path)
	l.done("dimensions", path, start, err)
	return s, err
}

func (l *logged) MeanIntensity(ctx context.Context, req MeanRequest) (float64, error) {
	start := time.Now()
	v, err := l.next.MeanIntensity(ctx, req)
	l.done("mean", req.Path, start, err)
	return v, err
}

func (l *logged) RemoveAlpha(ctx context.Context, req UnaryRequest) error {
	start := time.Now()
	err := l.next.RemoveAlpha(ctx, req)
	l.done("remove_alpha", req.Out, start, err)
	return err
}

func (l *logged) Grayscale(ctx context.Context, req UnaryRequest) error {
	start := time.Now()
	err := l.next.Grayscale(ctx, req)
	l.done("grayscale", req.Out, start, err)
	return err
}

func (l *logged) Flatten(ctx context.Context, req FlattenRequest) error {
	start := time.Now()
	err := l.next.Flatten(ctx, req)
	l.done("flatten", req.Out, start, err)
	return err
}

func (l *logged) Fill(ctx context.Context, req FillRequest) error {
	start := time.Now()
	err := l.next.Fill(ctx, req)
	l.done("fill", req.Out, start, err)
	return err
}

func (l *logged) Subtract(ctx context.Context, req SubtractRequest) error {
	start := time.Now()
	err := l.next.Subtract(ctx, req)
	l.done("subtract", req.Out, start, err)
	return err
}

func (l *logged) Scale(ctx context.Context, req ScaleRequest) error {
	start := time.Now()
	err := l.next.Scale(ctx, req)
	l.done("scale", req.Out, start, err)
	return err
}

func (l *logged) Composite(ctx context.Context, req CompositeRequest) error {
	start := time.Now()
	err := l.next.Composite(ctx, req)
	l.done("composite:"+req.Mode.String(), req.Out, start, err)
	return err
}

func (l *logged) Blur(ctx context.Context, req BlurRequest) error {
	start := time.Now()
	err := l.next.Blur(ctx, req)
	l.done("blur", req.Out, start, err)
	return err
}

func (l *logged) PerspectiveDistort(ctx context.Context, req DistortRequest) error {
	start := time.Now()
	err := l.next.PerspectiveDistort(ctx, req)
	l.done("distort", req.Out, start, err)
	return err
}

func (l *logged) Displace(ctx context.Context, req DisplaceRequest) error {
	start := time.Now()
	err := l.next.Displace(ctx, req)
	l.done("displace", req.Out, start, err)
	return err
}

func (l *logged) Resize(ctx context.Context, req ResizeRequest) error {
	start := time.Now()
	err := l.next.Resize(ctx, req)
	l.done("resize", req.Out, start, err)
	return err
}

func (l *logged) AddBorder(ctx context.Context, req BorderRequest) error {
	start := time.Now()
	err := l.next.AddBorder(ctx, req)
	l.done("border", req.Out, start, err)
	return err
}
