package mockup

import (
	"context"
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// Calibration records how the normalized map was brightness-corrected.
type Calibration struct {
	MeanLuminance float64
	MeanOpacity   float64
	// Delta is the percentage subtracted from the masked luminance.
	Delta float64
}

// brightnessDelta is the shift, in percent, that puts the opacity-weighted
// mean of the corrected map on neutral: 100*(lum-neutral)/opacity. An empty
// mask gets 0.
func brightnessDelta(lum, opacity float64) float64 {
	if opacity <= 0 {
		return 0
	}
	return 100 * (lum - domain.Neutral) / opacity
}

// NormalizedTemplateMap writes the template's masked luminance, shifted so its
// masked mean sits on mid-gray, with everything outside the mask at mid-gray.
func (e *Engine) NormalizedTemplateMap(ctx context.Context, template, mask, out string) (Calibration, error) {
	if _, err := e.checkAligned(ctx, "mapgen.normalized", template, mask); err != nil {
		return Calibration{}, err
	}
	sc, err := e.scratch("normalized")
	if err != nil {
		return Calibration{}, err
	}
	defer sc.close()
	return e.normalized(ctx, sc, template, mask, out)
}

func (e *Engine) normalized(ctx context.Context, sc *scratch, template, mask, out string) (Calibration, error) {
	var cal Calibration

	opaque := sc.path("opaque")
	if err := e.Ops.RemoveAlpha(ctx, imageops.UnaryRequest{In: template, Out: opaque}); err != nil {
		return cal, err
	}
	gray := sc.path("gray")
	if err := e.Ops.Grayscale(ctx, imageops.UnaryRequest{In: opaque, Out: gray}); err != nil {
		return cal, err
	}
	masked := sc.path("masked")
	if err := e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:        gray,
		Overlay:     mask,
		Mode:        domain.ModeCopyOpacity,
		OpacityFrom: domain.OpacityFromIntensity,
		Out:         masked,
	}); err != nil {
		return cal, err
	}

	bg := domain.MidGray
	lum, err := e.Ops.MeanIntensity(ctx, imageops.MeanRequest{Path: masked, Background: &bg})
	if err != nil {
		return cal, err
	}
	opacity, err := e.Ops.MeanIntensity(ctx, imageops.MeanRequest{Path: mask})
	if err != nil {
		return cal, err
	}
	cal = Calibration{MeanLuminance: lum, MeanOpacity: opacity, Delta: brightnessDelta(lum, opacity)}

	adjusted := sc.path("adjusted")
	if err := e.Ops.Subtract(ctx, imageops.SubtractRequest{In: masked, Percent: cal.Delta, Out: adjusted}); err != nil {
		return cal, err
	}
	if err := e.Ops.Flatten(ctx, imageops.FlattenRequest{In: adjusted, Background: domain.MidGray, Out: out}); err != nil {
		return cal, err
	}

	e.Log.WithFields(logrus.Fields{
		"template":       template,
		"mean_luminance": lum,
		"mean_opacity":   opacity,
		"delta":          cal.Delta,
	}).Debug("normalized template map")
	return cal, nil
}

// LightingMap keeps only the highlights of the normalized map: everything
// darker than mid-gray is lifted to mid-gray.
func (e *Engine) LightingMap(ctx context.Context, template, mask, out string) error {
	if _, err := e.checkAligned(ctx, "mapgen.lighting", template, mask); err != nil {
		return err
	}
	sc, err := e.scratch("lighting")
	if err != nil {
		return err
	}
	defer sc.close()

	norm := sc.path("normalized")
	if _, err := e.normalized(ctx, sc, template, mask, norm); err != nil {
		return err
	}
	neutral := sc.path("neutral")
	if err := e.Ops.Fill(ctx, imageops.FillRequest{Like: norm, Color: domain.MidGray, Out: neutral}); err != nil {
		return err
	}
	return e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:    norm,
		Overlay: neutral,
		Mode:    domain.ModeLighten,
		Out:     out,
	})
}

// DisplacementMap blurs the normalized map into a smooth field.
func (e *Engine) DisplacementMap(ctx context.Context, template, mask string, blur float64, out string) error {
	if _, err := e.checkAligned(ctx, "mapgen.displacement", template, mask); err != nil {
		return err
	}
	sc, err := e.scratch("displacement")
	if err != nil {
		return err
	}
	defer sc.close()

	norm := sc.path("normalized")
	if _, err := e.normalized(ctx, sc, template, mask, norm); err != nil {
		return err
	}
	return e.Ops.Blur(ctx, imageops.BlurRequest{In: norm, Sigma: blur, Out: out})
}

// AdjustScale is the encoding factor of colour adjustment maps. A map pixel
// m stands for the factor AdjustScale*m, so targets up to twice as bright as
// the template survive the 8-bit map.
const AdjustScale = 2

// ColorAdjustmentMap writes target/template inside the mask, the factor that
// turns the template's colour into target when multiplied, divided by
// AdjustScale.
func (e *Engine) ColorAdjustmentMap(ctx context.Context, template, mask string, target color.NRGBA, out string) error {
	if _, err := e.checkAligned(ctx, "mapgen.color_adjustment", template, mask); err != nil {
		return err
	}
	if target.A == 0 {
		return &domain.OpError{Op: "mapgen.color_adjustment", Kind: domain.KindInvalidRequest, Err: fmt.Errorf("target colour is transparent")}
	}
	sc, err := e.scratch("adjust")
	if err != nil {
		return err
	}
	defer sc.close()

	flat := sc.path("target")
	if err := e.Ops.Fill(ctx, imageops.FillRequest{Like: template, Color: scaledDown(target), Out: flat}); err != nil {
		return err
	}
	return e.Ops.Composite(ctx, imageops.CompositeRequest{
		Base:    template,
		Overlay: flat,
		Mask:    mask,
		Mode:    domain.ModeDivideSrc,
		Out:     out,
	})
}

func scaledDown(c color.NRGBA) color.NRGBA {
	half := func(v uint8) uint8 { return uint8((int(v) + AdjustScale/2) / AdjustScale) }
	return color.NRGBA{R: half(c.R), G: half(c.G), B: half(c.B), A: c.A}
}
