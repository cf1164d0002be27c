package mockup

import (
	"context"
	"sync"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// recorder wraps a backend, remembers which operations ran and can be told to
// fail specific ones.
type recorder struct {
	next imageops.Ops
	fail map[string]error

	mu    sync.Mutex
	calls []string
}

func newRecorder(next imageops.Ops) *recorder {
	return &recorder{next: next, fail: map[string]error{}}
}

func (r *recorder) record(op string) error {
	r.mu.Lock()
	r.calls = append(r.calls, op)
	r.mu.Unlock()
	if err, ok := r.fail[op]; ok {
		return imageops.External("fake."+op, op, err)
	}
	return nil
}

func (r *recorder) ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.ops() {
		if c == op {
			n++
		}
	}
	return n
}

func (r *recorder) Dimensions(ctx context.Context, path string) (domain.Size, error) {
	if err := r.record("dimensions"); err != nil {
		return domain.Size{}, err
	}
	return r.next.Dimensions(ctx, path)
}

func (r *recorder) MeanIntensity(ctx context.Context, req imageops.MeanRequest) (float64, error) {
	if err := r.record("mean"); err != nil {
		return 0, err
	}
	return r.next.MeanIntensity(ctx, req)
}

func (r *recorder) RemoveAlpha(ctx context.Context, req imageops.UnaryRequest) error {
	if err := r.record("remove_alpha"); err != nil {
		return err
	}
	return r.next.RemoveAlpha(ctx, req)
}

func (r *recorder) Grayscale(ctx context.Context, req imageops.UnaryRequest) error {
	if err := r.record("grayscale"); err != nil {
		return err
	}
	return r.next.Grayscale(ctx, req)
}

func (r *recorder) Flatten(ctx context.Context, req imageops.FlattenRequest) error {
	if err := r.record("flatten"); err != nil {
		return err
	}
	return r.next.Flatten(ctx, req)
}

func (r *recorder) Fill(ctx context.Context, req imageops.FillRequest) error {
	if err := r.record("fill"); err != nil {
		return err
	}
	return r.next.Fill(ctx, req)
}

func (r *recorder) Subtract(ctx context.Context, req imageops.SubtractRequest) error {
	if err := r.record("subtract"); err != nil {
		return err
	}
	return r.next.Subtract(ctx, req)
}

func (r *recorder) Scale(ctx context.Context, req imageops.ScaleRequest) error {
	if err := r.record("scale"); err != nil {
		return err
	}
	return r.next.Scale(ctx, req)
}

func (r *recorder) Composite(ctx context.Context, req imageops.CompositeRequest) error {
	if err := r.record("composite"); err != nil {
		return err
	}
	return r.next.Composite(ctx, req)
}

func (r *recorder) Blur(ctx context.Context, req imageops.BlurRequest) error {
	if err := r.record("blur"); err != nil {
		return err
	}
	return r.next.Blur(ctx, req)
}

func (r *recorder) PerspectiveDistort(ctx context.Context, req imageops.DistortRequest) error {
	if err := r.record("distort"); err != nil {
		return err
	}
	return r.next.PerspectiveDistort(ctx, req)
}

func (r *recorder) Displace(ctx context.Context, req imageops.DisplaceRequest) error {
	if err := r.record("displace"); err != nil {
		return err
	}
	return r.next.Displace(ctx, req)
}

func (r *recorder) Resize(ctx context.Context, req imageops.ResizeRequest) error {
	if err := r.record("resize"); err != nil {
		return err
	}
	return r.next.Resize(ctx, req)
}

func (r *recorder) AddBorder(ctx context.Context, req imageops.BorderRequest) error {
	if err := r.record("border"); err != nil {
		return err
	}
	return r.next.AddBorder(ctx, req)
}
