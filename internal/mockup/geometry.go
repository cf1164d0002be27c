package mockup

import (
	"context"
	"fmt"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// PerspectiveTransform warps artwork so its corners (0,0), (0,h), (w,h),
// (w,0) land on quad, on a transparent canvas the size of template.
func (e *Engine) PerspectiveTransform(ctx context.Context, template, artwork string, quad domain.Quad, out string) error {
	if err := quad.Validate(); err != nil {
		return err
	}
	canvas, err := e.Ops.Dimensions(ctx, template)
	if err != nil {
		return err
	}
	size, err := e.Ops.Dimensions(ctx, artwork)
	if err != nil {
		return err
	}
	if size.Empty() {
		return &domain.OpError{
			Op:   "geometry.perspective",
			Kind: domain.KindInvalidGeometry,
			Path: artwork,
			Err:  fmt.Errorf("artwork has no area (%s)", size),
		}
	}
	return e.Ops.PerspectiveDistort(ctx, imageops.DistortRequest{
		In:     artwork,
		Src:    domain.Corners(size),
		Dst:    quad,
		Canvas: canvas,
		Out:    out,
	})
}
