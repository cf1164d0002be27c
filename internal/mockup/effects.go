package mockup

import (
	"context"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// ApplyDisplacement shifts artwork pixels along the displacement field and
// keeps the artwork's alpha. Where a shifted sample lands outside the
// artwork's footprint the undisplaced colour shows through.
func (e *Engine) ApplyDisplacement(ctx context.Context, artwork, displacementMap string, dx, dy float64, out string) error {
	sc, err := e.scratch("displace")
	if err != nil {
		return err
	}
	defer sc.close()

	shifted := sc.path("shifted")
	if err := e.Ops.Displace(ctx, imageops.DisplaceRequest{
		In:    artwork,
		Field: displacementMap,
		DX:    dx,
		DY:    dy,
		Out:   shifted,
	}); err != nil {
		return err
	}
	filled := sc.path("filled")
	if err := e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:    artwork,
		Overlay: shifted,
		Mode:    domain.ModeOver,
		Out:     filled,
	}); err != nil {
		return err
	}
	return e.restoreAlpha(ctx, filled, artwork, out)
}

// ApplyLighting blends the lighting map into artwork with mode and keeps the
// artwork's alpha.
func (e *Engine) ApplyLighting(ctx context.Context, artwork, lightingMap string, mode domain.Mode, out string) error {
	return e.blendKeepingAlpha(ctx, "lighting", artwork, lightingMap, mode, out)
}

// ApplyColorCorrection multiplies artwork by the adjustment map, undoes the
// map's AdjustScale encoding and keeps the artwork's alpha.
func (e *Engine) ApplyColorCorrection(ctx context.Context, artwork, adjustmentMap, out string) error {
	sc, err := e.scratch("color")
	if err != nil {
		return err
	}
	defer sc.close()

	blended := sc.path("blended")
	if err := e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:    artwork,
		Overlay: adjustmentMap,
		Mode:    domain.ModeMultiply,
		Out:     blended,
	}); err != nil {
		return err
	}
	scaled := sc.path("scaled")
	if err := e.Ops.Scale(ctx, imageops.ScaleRequest{In: blended, Factor: AdjustScale, Out: scaled}); err != nil {
		return err
	}
	return e.restoreAlpha(ctx, scaled, artwork, out)
}

func (e *Engine) blendKeepingAlpha(ctx context.Context, name, artwork, layer string, mode domain.Mode, out string) error {
	sc, err := e.scratch(name)
	if err != nil {
		return err
	}
	defer sc.close()

	blended := sc.path("blended")
	if err := e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:    artwork,
		Overlay: layer,
		Mode:    mode,
		Out:     blended,
	}); err != nil {
		return err
	}
	return e.restoreAlpha(ctx, blended, artwork, out)
}

// restoreAlpha writes img with the alpha channel of original.
func (e *Engine) restoreAlpha(ctx context.Context, img, original, out string) error {
	return e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:        img,
		Overlay:     original,
		Mode:        domain.ModeCopyOpacity,
		OpacityFrom: domain.OpacityFromAlpha,
		Out:         out,
	})
}
