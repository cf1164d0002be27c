package mockup

import (
	"context"
	"fmt"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// Compose layers artwork over template through mask. mode is ModeOver for
// opaque prints or ModeMultiply to let the template's shading through.
func (e *Engine) Compose(ctx context.Context, template, artwork, mask string, mode domain.Mode, out string) error {
	if mode != domain.ModeOver && mode != domain.ModeMultiply {
		return &domain.OpError{
			Op:   "compose",
			Kind: domain.KindInvalidRequest,
			Err:  fmt.Errorf("blend mode %s is not a print mode (want over or multiply)", mode),
		}
	}
	return e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:    template,
		Overlay: artwork,
		Mask:    mask,
		Mode:    mode,
		Out:     out,
	})
}
